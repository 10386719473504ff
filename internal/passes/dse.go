package passes

import "minic/internal/ir"

// DSE (dead-store elimination) removes definitions whose value is never
// used, via backward liveness across the CFG. The backward sweep checks
// the destination's liveness before folding in the instruction's own
// uses; doing it the other way around lets a self-referencing dead store
// like `x = x + 1` (x unused afterward) survive forever, since x's own
// use marks it live just before the dead check runs.
type DSE struct{}

func (DSE) Name() string { return "dse" }

func vars(v ir.Value) []string {
	if vr, ok := v.(ir.Var); ok {
		return []string{vr.Name}
	}
	return nil
}

func instrUsesDefs(ins ir.Instr) (uses []string, def string, hasDef bool) {
	switch t := ins.(type) {
	case ir.MovInstr:
		return vars(t.A), t.Dst.Name, true
	case ir.BinopInstr:
		return append(vars(t.A), vars(t.B)...), t.Dst.Name, true
	case ir.UnopInstr:
		return vars(t.A), t.Dst.Name, true
	case ir.BrInstr:
		return vars(t.A), "", false
	case ir.RetInstr:
		if t.A != nil {
			return vars(t.A), "", false
		}
		return nil, "", false
	default:
		return nil, "", false
	}
}

// hasSideEffect is false for every instruction kind this backend currently
// has; a future memory-store or call instruction must return true here.
func hasSideEffect(ir.Instr) bool { return false }

func setUnion(a map[string]bool, names []string) {
	for _, n := range names {
		a[n] = true
	}
}

func (DSE) Apply(fn *ir.Function) bool {
	blockUse := map[string]map[string]bool{}
	blockDef := map[string]map[string]bool{}
	for _, b := range fn.Blocks {
		use := map[string]bool{}
		def := map[string]bool{}
		for _, ins := range b.Instrs {
			usesHere, d, hasDef := instrUsesDefs(ins)
			for _, u := range usesHere {
				if !def[u] {
					use[u] = true
				}
			}
			if hasDef {
				def[d] = true
			}
		}
		blockUse[b.Label] = use
		blockDef[b.Label] = def
	}

	liveIn := map[string]map[string]bool{}
	liveOut := map[string]map[string]bool{}
	for _, b := range fn.Blocks {
		liveIn[b.Label] = map[string]bool{}
		liveOut[b.Label] = map[string]bool{}
	}
	for iter := 0; iter < 16; iter++ {
		changedHere := false
		for _, b := range fn.Blocks {
			newOut := map[string]bool{}
			for _, s := range fn.Succ[b.Label] {
				setUnion(newOut, keys(liveIn[s]))
			}
			newIn := map[string]bool{}
			setUnion(newIn, keys(blockUse[b.Label]))
			for n := range newOut {
				if !blockDef[b.Label][n] {
					newIn[n] = true
				}
			}
			if !mapsEqual(newIn, liveIn[b.Label]) || !mapsEqual(newOut, liveOut[b.Label]) {
				changedHere = true
			}
			liveIn[b.Label] = newIn
			liveOut[b.Label] = newOut
		}
		if !changedHere {
			break
		}
	}

	changed := false
	for _, b := range fn.Blocks {
		live := map[string]bool{}
		setUnion(live, keys(liveOut[b.Label]))
		out := make([]ir.Instr, 0, len(b.Instrs))
		for i := len(b.Instrs) - 1; i >= 0; i-- {
			ins := b.Instrs[i]
			usesHere, d, hasDef := instrUsesDefs(ins)
			if hasDef && !hasSideEffect(ins) && !live[d] {
				changed = true
				continue
			}
			if hasDef {
				delete(live, d)
			}
			setUnion(live, usesHere)
			out = append(out, ins)
		}
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
		b.Instrs = out
	}
	return changed
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func mapsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
