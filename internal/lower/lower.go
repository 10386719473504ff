package lower

import (
	"minic/internal/asm"
	"minic/internal/errors"
	"minic/internal/frame"
	"minic/internal/ir"
)

var jccForOp = map[string]string{
	"==": "je", "!=": "jne", "<": "jl", "<=": "jle", ">": "jg", ">=": "jge",
}

// Function lowers fn to a pseudo-x86 program. layout is required (non-nil)
// iff mode is frame.Stack; it is consulted only for named-local operand
// mapping here; prologue/epilogue and spill remapping are frame's job
// after register allocation.
func Function(fn *ir.Function, mode frame.Mode, layout *frame.Layout) (asm.Program, error) {
	vr := newVRegs()
	var prog asm.Program
	hasRet := false

	for bi, b := range fn.Blocks {
		prog = append(prog, asm.LabelDef{Label: asm.Label{Name: b.Label}})
		var nextLabel string
		if bi+1 < len(fn.Blocks) {
			nextLabel = fn.Blocks[bi+1].Label
		}
		for _, ins := range b.Instrs {
			if ins.Kind() == ir.KindRet {
				hasRet = true
			}
			out, err := lowerInstr(ins, nextLabel, vr, mode, layout)
			if err != nil {
				return nil, err
			}
			prog = append(prog, out...)
		}
	}
	if !hasRet {
		prog = append(prog, asm.Ret{})
	}
	return prog, nil
}

func lowerInstr(ins ir.Instr, nextLabel string, vr *vregs, mode frame.Mode, layout *frame.Layout) ([]asm.Instr, error) {
	switch t := ins.(type) {
	case ir.MovInstr:
		return lowerMov(opnd(t.Dst, vr, mode, layout), opnd(t.A, vr, mode, layout)), nil
	case ir.BinopInstr:
		return lowerBinop(t, vr, mode, layout)
	case ir.UnopInstr:
		return lowerUnop(t, vr, mode, layout), nil
	case ir.BrInstr:
		return lowerBr(t, nextLabel, vr, mode, layout), nil
	case ir.JmpInstr:
		return []asm.Instr{asm.Jmp{Target: asm.Label{Name: t.TLabel}}}, nil
	case ir.RetInstr:
		return lowerRet(t, vr, mode, layout), nil
	default:
		return nil, errors.Newf(errors.InvalidIR, errors.Code(errors.InvalidIR, 1), "unknown instruction kind %T", ins)
	}
}

func lowerMov(dst, src asm.Operand) []asm.Instr {
	if isMemory(dst) && isMemory(src) {
		return []asm.Instr{
			asm.Mov{Dst: scratchAcc, Src: src},
			asm.Mov{Dst: dst, Src: scratchAcc},
		}
	}
	return []asm.Instr{asm.Mov{Dst: dst, Src: src}}
}

func lowerBinop(t ir.BinopInstr, vr *vregs, mode frame.Mode, layout *frame.Layout) ([]asm.Instr, error) {
	dst := opnd(t.Dst, vr, mode, layout)
	a := opnd(t.A, vr, mode, layout)
	b := opnd(t.B, vr, mode, layout)

	if _, isCmp := jccForOp[t.Op]; isCmp {
		return lowerComparison(dst, a, b, t.Op, vr), nil
	}
	switch t.Op {
	case "&&", "||":
		return lowerLogical(dst, a, b, t.Op, vr), nil
	case "/":
		return lowerDivision(dst, a, b, vr), nil
	case "%":
		return nil, errors.New(errors.UnsupportedOperation, errors.Code(errors.UnsupportedOperation, 1),
			"'%' is not supported by the back end")
	case "+", "-", "*":
		return lowerArithmetic(dst, a, b, t.Op), nil
	default:
		return nil, errors.Newf(errors.InvalidIR, errors.Code(errors.InvalidIR, 2), "unknown binop operator %q", t.Op)
	}
}

func lowerComparison(dst, a, b asm.Operand, op string, vr *vregs) []asm.Instr {
	trueL, endL := vr.freshCmpLabels()
	aReg, pre := ensureInReg(a, scratchCmpLeft)
	out := []asm.Instr{asm.Mov{Dst: dst, Src: asm.Imm{Value: 0}}}
	out = append(out, pre...)
	out = append(out,
		asm.Cmp{A: aReg, B: b},
		asm.Jcc{CC: jccForOp[op], Target: trueL},
		asm.Jmp{Target: endL},
		asm.LabelDef{Label: trueL},
		asm.Mov{Dst: dst, Src: asm.Imm{Value: 1}},
		asm.LabelDef{Label: endL},
	)
	return out
}

// lowerLogical handles `&&`/`||` with possibly non-constant operands. The
// in-process TAC emitter always lowers short-circuit control flow to
// branches before the back end sees it, so this path is only reachable
// from a hand-written TAC file. Built from the same booleanization
// building blocks as comparisons.
func lowerLogical(dst, a, b asm.Operand, op string, vr *vregs) []asm.Instr {
	_, endL := vr.freshCmpLabels()
	short, final := int64(0), int64(1)
	testCC := "je" // skip-to-end when operand is zero (AND semantics)
	if op == "||" {
		short, final = 1, 0
		testCC = "jne"
	}
	out := []asm.Instr{asm.Mov{Dst: dst, Src: asm.Imm{Value: short}}}
	aReg, preA := ensureInReg(a, scratchCmpLeft)
	out = append(out, preA...)
	out = append(out, asm.Cmp{A: aReg, B: asm.Imm{Value: 0}}, asm.Jcc{CC: testCC, Target: endL})
	bReg, preB := ensureInReg(b, scratchCmpLeft)
	out = append(out, preB...)
	out = append(out, asm.Cmp{A: bReg, B: asm.Imm{Value: 0}}, asm.Jcc{CC: testCC, Target: endL})
	out = append(out, asm.Mov{Dst: dst, Src: asm.Imm{Value: final}}, asm.LabelDef{Label: endL})
	return out
}

func lowerDivision(dst, a, b asm.Operand, vr *vregs) []asm.Instr {
	out := []asm.Instr{asm.Mov{Dst: regRAX, Src: a}}
	divisor, pre := ensureInReg(b, scratchDivisor)
	out = append(out, pre...)
	out = append(out, asm.Idiv{Src: divisor})
	if !sameReg(dst, regRAX) {
		out = append(out, asm.Mov{Dst: dst, Src: regRAX})
	}
	return out
}

func opInstr(op string, dst, src asm.Operand) asm.Instr {
	switch op {
	case "+":
		return asm.Add{Dst: dst, Src: src}
	case "-":
		return asm.Sub{Dst: dst, Src: src}
	default:
		return asm.IMul{Dst: dst, Src: src}
	}
}

func lowerArithmetic(dst, a, b asm.Operand, op string) []asm.Instr {
	if !isMemory(dst) {
		var out []asm.Instr
		if !sameReg(dst, a) {
			out = append(out, asm.Mov{Dst: dst, Src: a})
		}
		out = append(out, opInstr(op, dst, b))
		return out
	}
	return []asm.Instr{
		asm.Mov{Dst: scratchAcc, Src: a},
		opInstr(op, scratchAcc, b),
		asm.Mov{Dst: dst, Src: scratchAcc},
	}
}

func lowerUnop(t ir.UnopInstr, vr *vregs, mode frame.Mode, layout *frame.Layout) []asm.Instr {
	dst := opnd(t.Dst, vr, mode, layout)
	a := opnd(t.A, vr, mode, layout)
	switch t.Op {
	case "+":
		return lowerMov(dst, a)
	case "-":
		if !isMemory(dst) {
			return []asm.Instr{asm.Mov{Dst: dst, Src: asm.Imm{Value: 0}}, asm.Sub{Dst: dst, Src: a}}
		}
		return []asm.Instr{
			asm.Mov{Dst: scratchAcc, Src: asm.Imm{Value: 0}},
			asm.Sub{Dst: scratchAcc, Src: a},
			asm.Mov{Dst: dst, Src: scratchAcc},
		}
	default: // "!"
		trueL, endL := vr.freshCmpLabels()
		aReg, pre := ensureInReg(a, scratchNot)
		out := []asm.Instr{asm.Mov{Dst: dst, Src: asm.Imm{Value: 0}}}
		out = append(out, pre...)
		out = append(out,
			asm.Cmp{A: aReg, B: asm.Imm{Value: 0}},
			asm.Jcc{CC: "je", Target: trueL},
			asm.Jmp{Target: endL},
			asm.LabelDef{Label: trueL},
			asm.Mov{Dst: dst, Src: asm.Imm{Value: 1}},
			asm.LabelDef{Label: endL},
		)
		return out
	}
}

func lowerBr(t ir.BrInstr, nextLabel string, vr *vregs, mode frame.Mode, layout *frame.Layout) []asm.Instr {
	cond := opnd(t.A, vr, mode, layout)
	condReg, pre := ensureInReg(cond, scratchBranchCnd)
	out := append([]asm.Instr{}, pre...)
	out = append(out, asm.Cmp{A: condReg, B: asm.Imm{Value: 0}})
	switch nextLabel {
	case t.FLabel:
		out = append(out, asm.Jcc{CC: "jne", Target: asm.Label{Name: t.TLabel}})
	case t.TLabel:
		out = append(out, asm.Jcc{CC: "je", Target: asm.Label{Name: t.FLabel}})
	default:
		out = append(out, asm.Jcc{CC: "jne", Target: asm.Label{Name: t.TLabel}}, asm.Jmp{Target: asm.Label{Name: t.FLabel}})
	}
	return out
}

func lowerRet(t ir.RetInstr, vr *vregs, mode frame.Mode, layout *frame.Layout) []asm.Instr {
	if t.A == nil {
		return []asm.Instr{asm.Ret{}}
	}
	val := opnd(t.A, vr, mode, layout)
	return []asm.Instr{asm.Mov{Dst: regRAX, Src: val}, asm.Ret{}}
}
