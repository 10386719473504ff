package passes

import "minic/internal/ir"

// ConstProp propagates known-constant values through a block's
// straight-line instructions: a per-block environment of Var -> Const,
// substituted into operands and killed on redefinition; binop/unop always
// kill their destination (folding happens in a separate pass).
type ConstProp struct{}

func (ConstProp) Name() string { return "constprop" }

func (ConstProp) Apply(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		env := map[string]ir.Const{}
		for i, instr := range b.Instrs {
			switch t := instr.(type) {
			case ir.MovInstr:
				a, ok := substVar(t.A, env)
				if ok {
					changed = true
				}
				if c, isConst := a.(ir.Const); isConst {
					env[t.Dst.Name] = c
				} else {
					delete(env, t.Dst.Name)
				}
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: a}
			case ir.BinopInstr:
				a, okA := substVar(t.A, env)
				c, okB := substVar(t.B, env)
				if okA || okB {
					changed = true
				}
				delete(env, t.Dst.Name)
				b.Instrs[i] = ir.BinopInstr{Dst: t.Dst, Op: t.Op, A: a, B: c}
			case ir.UnopInstr:
				a, ok := substVar(t.A, env)
				if ok {
					changed = true
				}
				delete(env, t.Dst.Name)
				b.Instrs[i] = ir.UnopInstr{Dst: t.Dst, Op: t.Op, A: a}
			case ir.BrInstr:
				a, ok := substVar(t.A, env)
				if ok {
					changed = true
				}
				b.Instrs[i] = ir.BrInstr{A: a, TLabel: t.TLabel, FLabel: t.FLabel}
			case ir.JmpInstr:
				env = map[string]ir.Const{}
			case ir.RetInstr:
				if t.A != nil {
					a, ok := substVar(t.A, env)
					if ok {
						changed = true
					}
					b.Instrs[i] = ir.RetInstr{A: a}
				}
				env = map[string]ir.Const{}
			}
		}
	}
	return changed
}
