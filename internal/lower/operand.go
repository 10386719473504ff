package lower

import (
	"minic/internal/asm"
	"minic/internal/frame"
	"minic/internal/ir"
)

// opnd maps an IR Value to a pseudo-x86 operand: Const -> Imm,
// temp Var -> its virtual register (allocated on first use), named Var ->
// Mem (symbolic mode) or FrameRef (stack mode).
func opnd(v ir.Value, vr *vregs, mode frame.Mode, layout *frame.Layout) asm.Operand {
	switch t := v.(type) {
	case ir.Const:
		return asm.Imm{Value: t.Val}
	case ir.Var:
		if ir.IsTemp(t.Name) {
			return vr.regOf(t.Name)
		}
		if mode == frame.Stack {
			return asm.FrameRef{Offset: layout.OffByName[t.Name]}
		}
		return asm.Mem{Name: t.Name}
	default:
		return asm.Imm{Value: 0}
	}
}

func isMemory(o asm.Operand) bool {
	switch o.(type) {
	case asm.Mem, asm.FrameRef:
		return true
	default:
		return false
	}
}

func sameReg(a, b asm.Operand) bool {
	ra, ok1 := a.(asm.Reg)
	rb, ok2 := b.(asm.Reg)
	return ok1 && ok2 && ra.Name == rb.Name
}

// ensureInReg returns op itself if it is already a register, otherwise a
// Mov loading it into scratch plus the scratch register to use in its
// place.
func ensureInReg(op asm.Operand, scratch asm.Reg) (asm.Reg, []asm.Instr) {
	if r, ok := op.(asm.Reg); ok {
		return r, nil
	}
	return scratch, []asm.Instr{asm.Mov{Dst: scratch, Src: op}}
}
