// Package regalloc implements C9: graph-coloring register allocation over a
// lowered asm.Program. It computes per-instruction liveness, builds an
// interference graph, colors it against the caller-saved pool (reserving one
// scratch for spill traffic), and rewrites the program to either physical
// registers or symbolic spill memory operands.
package regalloc

import "minic/internal/asm"

// CallerSaved is the registers available to the allocator, in the order the
// original greedy colorer tries them.
var CallerSaved = []string{"rax", "rcx", "rdx", "rsi", "rdi", "r8", "r9", "r10", "r11"}

// SpillScratch is reserved for spill reload/store sequences and is never a
// candidate color.
const SpillScratch = "r10"

func isVReg(r asm.Reg) bool { return r.IsVirtual() }

func addRead(o asm.Operand, set map[string]bool) {
	if r, ok := o.(asm.Reg); ok && isVReg(r) {
		set[r.Name] = true
	}
}

func addWrite(o asm.Operand, set map[string]bool) {
	if r, ok := o.(asm.Reg); ok && isVReg(r) {
		set[r.Name] = true
	}
}

// readsWrites returns the virtual-register read and write sets of a single
// instruction. Idiv reads and writes the fixed RAX/RDX virtuals in addition
// to its explicit operand, modeling the two-register dividend/remainder
// convention lowering relies on.
func readsWrites(ins asm.Instr) (reads, writes map[string]bool) {
	reads, writes = map[string]bool{}, map[string]bool{}
	switch t := ins.(type) {
	case asm.Mov:
		addRead(t.Src, reads)
		addWrite(t.Dst, writes)
	case asm.Add:
		addRead(t.Dst, reads)
		addRead(t.Src, reads)
		addWrite(t.Dst, writes)
	case asm.Sub:
		addRead(t.Dst, reads)
		addRead(t.Src, reads)
		addWrite(t.Dst, writes)
	case asm.IMul:
		addRead(t.Dst, reads)
		addRead(t.Src, reads)
		addWrite(t.Dst, writes)
	case asm.Cmp:
		addRead(t.A, reads)
		addRead(t.B, reads)
	case asm.Idiv:
		reads["RAX"] = true
		reads["RDX"] = true
		addRead(t.Src, reads)
		writes["RAX"] = true
		writes["RDX"] = true
	case asm.Ret:
		if t.Val != nil {
			addRead(t.Val, reads)
		}
	}
	return reads, writes
}
