package passes

import "minic/internal/ir"

// ConstFold folds binop/unop instructions whose operands are both Const,
// and rewrites a br with a Const condition to a jmp. Division and modulo by
// a literal zero are never folded; the instruction survives unchanged into
// the lowered code. When a br is rewritten, the CFG is rebuilt so later
// passes see the new successors.
type ConstFold struct{}

func (ConstFold) Name() string { return "constfold" }

func (ConstFold) Apply(fn *ir.Function) bool {
	changed := false
	rewroteBr := false
	for _, b := range fn.Blocks {
		for i, instr := range b.Instrs {
			switch t := instr.(type) {
			case ir.BinopInstr:
				ac, okA := t.A.(ir.Const)
				bc, okB := t.B.(ir.Const)
				if !okA || !okB {
					continue
				}
				result, ok := computeBinary(t.Op, ac.Val, bc.Val)
				if !ok {
					continue
				}
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: ir.Const{Val: result}}
				changed = true
			case ir.UnopInstr:
				ac, ok := t.A.(ir.Const)
				if !ok {
					continue
				}
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: ir.Const{Val: computeUnary(t.Op, ac.Val)}}
				changed = true
			case ir.BrInstr:
				ac, ok := t.A.(ir.Const)
				if !ok {
					continue
				}
				target := t.FLabel
				if ac.Val != 0 {
					target = t.TLabel
				}
				b.Instrs[i] = ir.JmpInstr{TLabel: target}
				changed = true
				rewroteBr = true
			}
		}
	}
	if rewroteBr {
		fn.BuildCFG()
	}
	return changed
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// computeBinary evaluates a binop on two Const operands. ok is false for
// division or modulo by zero, which must not be folded, and for an
// operator it does not recognize.
func computeBinary(op string, a, b int64) (result int64, ok bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true // Go's integer division truncates toward zero
	case "%":
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case "==":
		return boolToInt(a == b), true
	case "!=":
		return boolToInt(a != b), true
	case "<":
		return boolToInt(a < b), true
	case "<=":
		return boolToInt(a <= b), true
	case ">":
		return boolToInt(a > b), true
	case ">=":
		return boolToInt(a >= b), true
	case "&&":
		return boolToInt(a != 0 && b != 0), true
	case "||":
		return boolToInt(a != 0 || b != 0), true
	default:
		return 0, false
	}
}

func computeUnary(op string, a int64) int64 {
	switch op {
	case "+":
		return a
	case "-":
		return -a
	case "!":
		return boolToInt(a == 0)
	default:
		return a
	}
}
