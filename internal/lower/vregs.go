// Package lower implements C8: lowering an optimized ir.Function to a
// pseudo-x86 asm.Program with virtual registers, booleanized comparisons,
// division lowering through RAX/RDX, and the branch fallthrough heuristic.
package lower

import (
	"fmt"

	"minic/internal/asm"
)

// Scratch registers are lowering-time conventions; the allocator treats
// them as ordinary virtual registers.
var (
	scratchAcc       = asm.Reg{Name: "R1"} // memory-destination arithmetic accumulator, and generic mem-to-mem mov scratch
	scratchDivisor   = asm.Reg{Name: "R2"} // idiv divisor when not already in a register
	scratchCmpLeft   = asm.Reg{Name: "R3"} // comparison left operand
	scratchNot       = asm.Reg{Name: "R4"} // unary `!` operand
	scratchBranchCnd = asm.Reg{Name: "R5"} // branch condition
	regRAX           = asm.Reg{Name: "RAX"}
	regRDX           = asm.Reg{Name: "RDX"}
)

// vregs holds per-function lowering state: the temp -> virtual-register
// name map and the comparison-label counter.
type vregs struct {
	next    int
	byTemp  map[string]string
	cmpSeq  int
}

func newVRegs() *vregs { return &vregs{next: 1, byTemp: map[string]string{}} }

// regOf returns the virtual register allocated to a temp name, allocating
// one on first use.
func (v *vregs) regOf(tempName string) asm.Reg {
	if name, ok := v.byTemp[tempName]; ok {
		return asm.Reg{Name: name}
	}
	name := fmt.Sprintf("R%d", v.next)
	v.next++
	v.byTemp[tempName] = name
	return asm.Reg{Name: name}
}

// freshCmpLabels returns a deterministic Lcmp<i>_true / Lcmp<i>_end label
// pair for one booleanization site.
func (v *vregs) freshCmpLabels() (trueLabel, endLabel asm.Label) {
	v.cmpSeq++
	return asm.Label{Name: fmt.Sprintf("Lcmp%d_true", v.cmpSeq)},
		asm.Label{Name: fmt.Sprintf("Lcmp%d_end", v.cmpSeq)}
}
