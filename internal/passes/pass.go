// Package passes implements the local-dataflow optimization pass library
// and the fixpoint pipeline that drives it, gated by optimization level.
package passes

import "minic/internal/ir"

// Pass is a single optimization transform applied to one Function. Apply
// mutates fn in place and reports whether it changed anything. Passes are
// per-function; this backend has no cross-function analysis.
type Pass interface {
	Name() string
	Apply(fn *ir.Function) bool
}

func substVar(v ir.Value, env map[string]ir.Const) (ir.Value, bool) {
	vr, ok := v.(ir.Var)
	if !ok {
		return v, false
	}
	c, ok := env[vr.Name]
	if !ok {
		return v, false
	}
	return c, true
}
