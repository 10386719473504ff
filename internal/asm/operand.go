// Package asm implements the pseudo-x86 IR: operands, instructions, and the
// Intel-like pretty printer that renders a Program as text.
package asm

import (
	"fmt"
	"strings"
)

// Operand is the pseudo-x86 operand tagged union: Imm, Reg, Mem, FrameRef.
type Operand interface {
	isOperand()
	String() string
}

// Imm is an integer immediate.
type Imm struct{ Value int64 }

func (Imm) isOperand()       {}
func (i Imm) String() string { return fmt.Sprintf("%d", i.Value) }

// Reg is a register reference. A name beginning with "R" (including the
// fixed "RAX"/"RDX") is a virtual register produced by lowering; any other
// name ("rax", "r10", ...) is a physical register.
type Reg struct{ Name string }

func (Reg) isOperand() {}
func (r Reg) String() string {
	if strings.HasPrefix(r.Name, "R") {
		return strings.ToLower(r.Name)
	}
	return r.Name
}

// IsVirtual reports whether r is a virtual register per the lowering
// layer's naming convention.
func (r Reg) IsVirtual() bool { return strings.HasPrefix(r.Name, "R") }

// Mem is a symbolic memory operand, used for named locals in symbolic mode
// and for not-yet-remapped spill slots ("spill_<vname>").
type Mem struct{ Name string }

func (Mem) isOperand()       {}
func (m Mem) String() string { return fmt.Sprintf("[%s]", m.Name) }

// FrameRef is a memory operand expressed as an offset from rbp: negative
// for locals and spills, 0 for the base itself.
type FrameRef struct{ Offset int }

func (FrameRef) isOperand() {}
func (f FrameRef) String() string {
	if f.Offset == 0 {
		return "[rbp]"
	}
	if f.Offset < 0 {
		return fmt.Sprintf("[rbp%d]", f.Offset)
	}
	return fmt.Sprintf("[rbp+%d]", f.Offset)
}

// Label names a jump/branch target or a block position.
type Label struct{ Name string }

func (l Label) String() string { return l.Name }
