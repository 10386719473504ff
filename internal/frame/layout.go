// Package frame implements frame layout (C10): stack-slot assignment for
// named locals and spill slots, prologue/epilogue insertion, and the final
// return-path peephole optimizations.
package frame

import (
	"strings"

	"minic/internal/asm"
	"minic/internal/ir"
)

// Mode selects how named locals are addressed by lowering.
type Mode string

const (
	Off      Mode = "off"
	Symbolic Mode = "symbolic"
	Stack    Mode = "stack"
)

// Layout assigns each named local an 8-byte stack slot at a monotonically
// decreasing negative offset from rbp.
type Layout struct {
	OffByName map[string]int
	Size      int
}

func align16(n int) int { return (n + 15) &^ 15 }

// BuildFrameLayout walks fn once, collecting the ordered set of distinct
// named (non-temp) Var names referenced by any instruction's destination or
// operands, and assigns each an 8-byte slot starting at -8.
func BuildFrameLayout(fn *ir.Function) *Layout {
	seen := map[string]bool{}
	var order []string
	note := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	visit := func(v ir.Value) {
		if vr, ok := v.(ir.Var); ok && !ir.IsTemp(vr.Name) {
			note(vr.Name)
		}
	}
	for _, b := range fn.Blocks {
		for _, ins := range b.Instrs {
			switch t := ins.(type) {
			case ir.MovInstr:
				visit(t.Dst)
				visit(t.A)
			case ir.BinopInstr:
				visit(t.Dst)
				visit(t.A)
				visit(t.B)
			case ir.UnopInstr:
				visit(t.Dst)
				visit(t.A)
			case ir.BrInstr:
				visit(t.A)
			case ir.RetInstr:
				if t.A != nil {
					visit(t.A)
				}
			}
		}
	}
	off := map[string]int{}
	offset := 0
	for _, name := range order {
		offset -= 8
		off[name] = offset
	}
	return &Layout{OffByName: off, Size: align16(-offset)}
}

// RemapSpills finds every symbolic spill Mem("spill_<vname>") operand the
// register allocator introduced and assigns it a fresh FrameRef below the
// locals, growing and re-aligning Size to make room. Each distinct spill
// name is assigned a slot on first sight.
func RemapSpills(prog asm.Program, layout *Layout) asm.Program {
	spillOffset := map[string]int{}
	next := -(layout.Size + 8)
	assign := func(name string) int {
		if off, ok := spillOffset[name]; ok {
			return off
		}
		off := next
		spillOffset[name] = off
		next -= 8
		return off
	}
	remap := func(o asm.Operand) asm.Operand {
		m, ok := o.(asm.Mem)
		if !ok || !strings.HasPrefix(m.Name, "spill_") {
			return o
		}
		return asm.FrameRef{Offset: assign(m.Name)}
	}
	out := make(asm.Program, len(prog))
	for i, ins := range prog {
		out[i] = remapOperands(ins, remap)
	}
	if len(spillOffset) > 0 {
		layout.Size = align16(layout.Size + 8*len(spillOffset))
	}
	return out
}

func remapOperands(ins asm.Instr, f func(asm.Operand) asm.Operand) asm.Instr {
	switch t := ins.(type) {
	case asm.Mov:
		return asm.Mov{Dst: f(t.Dst), Src: f(t.Src)}
	case asm.Add:
		return asm.Add{Dst: f(t.Dst), Src: f(t.Src)}
	case asm.Sub:
		return asm.Sub{Dst: f(t.Dst), Src: f(t.Src)}
	case asm.IMul:
		return asm.IMul{Dst: f(t.Dst), Src: f(t.Src)}
	case asm.Cmp:
		return asm.Cmp{A: f(t.A), B: f(t.B)}
	case asm.Idiv:
		return asm.Idiv{Src: f(t.Src)}
	case asm.Ret:
		if t.Val == nil {
			return t
		}
		return asm.Ret{Val: f(t.Val)}
	case asm.Push:
		return asm.Push{Reg: f(t.Reg)}
	case asm.Pop:
		return asm.Pop{Reg: f(t.Reg)}
	default:
		return ins
	}
}
