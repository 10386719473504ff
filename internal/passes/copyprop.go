package passes

import "minic/internal/ir"

// CopyProp tracks `y = x` aliases (both Vars) within a block and
// substitutes uses by following the alias chain: path-compressed
// resolution with cycle detection and a dynamic step cap, killing a var's
// own alias and any alias pointing to it on redefinition, and never
// aliasing to a Const.
type CopyProp struct{}

func (CopyProp) Name() string { return "copyprop" }

// resolveAlias follows env (var name -> alias var name) to its root,
// bailing out on a cycle or after a generous step cap, and compresses the
// path it walked so later lookups are O(1).
func resolveAlias(name string, env map[string]string) string {
	maxSteps := max(32, len(env)+1)
	var seen []string
	cur := name
	for steps := 0; steps < maxSteps; steps++ {
		next, ok := env[cur]
		if !ok {
			break
		}
		cycled := false
		for _, s := range seen {
			if s == next {
				cycled = true
				break
			}
		}
		if cycled {
			break
		}
		seen = append(seen, cur)
		cur = next
	}
	for _, s := range seen {
		env[s] = cur
	}
	return cur
}

func substAlias(v ir.Value, env map[string]string) (ir.Value, bool) {
	vr, ok := v.(ir.Var)
	if !ok {
		return v, false
	}
	root := resolveAlias(vr.Name, env)
	if root == vr.Name {
		return v, false
	}
	return ir.Var{Name: root}, true
}

// killAlias removes name's own alias and every alias that points to name,
// since both are now stale after name is redefined.
func killAlias(env map[string]string, name string) {
	delete(env, name)
	for k, v := range env {
		if v == name {
			delete(env, k)
		}
	}
}

func (CopyProp) Apply(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		env := map[string]string{}
		for i, instr := range b.Instrs {
			switch t := instr.(type) {
			case ir.MovInstr:
				a, ok := substAlias(t.A, env)
				changed = changed || ok
				killAlias(env, t.Dst.Name)
				if av, isVar := a.(ir.Var); isVar && av.Name != t.Dst.Name {
					if env[av.Name] != t.Dst.Name {
						env[t.Dst.Name] = av.Name
					}
				}
				b.Instrs[i] = ir.MovInstr{Dst: t.Dst, A: a}
			case ir.BinopInstr:
				a, okA := substAlias(t.A, env)
				c, okB := substAlias(t.B, env)
				changed = changed || okA || okB
				killAlias(env, t.Dst.Name)
				b.Instrs[i] = ir.BinopInstr{Dst: t.Dst, Op: t.Op, A: a, B: c}
			case ir.UnopInstr:
				a, ok := substAlias(t.A, env)
				changed = changed || ok
				killAlias(env, t.Dst.Name)
				b.Instrs[i] = ir.UnopInstr{Dst: t.Dst, Op: t.Op, A: a}
			case ir.BrInstr:
				a, ok := substAlias(t.A, env)
				changed = changed || ok
				b.Instrs[i] = ir.BrInstr{A: a, TLabel: t.TLabel, FLabel: t.FLabel}
				env = map[string]string{}
			case ir.JmpInstr:
				env = map[string]string{}
			case ir.RetInstr:
				if t.A != nil {
					a, ok := substAlias(t.A, env)
					changed = changed || ok
					b.Instrs[i] = ir.RetInstr{A: a}
				}
				env = map[string]string{}
			}
		}
	}
	return changed
}
