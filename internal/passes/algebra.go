package passes

import "minic/internal/ir"

// Algebra applies identity peephole rewrites to a binop whose right
// operand is a Const: x+0, x-0, x*1, x/1 become plain moves of x, and x*0
// becomes a move of 0. No further strength reduction.
type Algebra struct{}

func (Algebra) Name() string { return "algebra" }

func (Algebra) Apply(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for i, instr := range b.Instrs {
			t, ok := instr.(ir.BinopInstr)
			if !ok {
				continue
			}
			c, isConst := t.B.(ir.Const)
			if !isConst {
				continue
			}
			switch {
			case t.Op == "+" && c.Val == 0:
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: t.A}
			case t.Op == "-" && c.Val == 0:
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: t.A}
			case t.Op == "*" && c.Val == 1:
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: t.A}
			case t.Op == "*" && c.Val == 0:
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: ir.Const{Val: 0}}
			case t.Op == "/" && c.Val == 1:
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: t.A}
			default:
				continue
			}
			changed = true
		}
	}
	return changed
}
