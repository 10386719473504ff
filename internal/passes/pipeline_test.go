package passes

import (
	"testing"

	"minic/internal/ir"
)

func buildFromTAC(t *testing.T, lines []string) *ir.Function {
	t.Helper()
	instrs, _, diags := ir.ParseTAC(lines)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return ir.BuildFunction("f", instrs)
}

// `x = 0 + 5` folds to a mov after constprop+constfold.
func TestConstPropThenFoldRewritesToMov(t *testing.T) {
	fn := buildFromTAC(t, []string{"x = 0 + 5", "return x"})
	ConstProp{}.Apply(fn)
	ConstFold{}.Apply(fn)
	mov, ok := fn.Blocks[0].Instrs[0].(ir.MovInstr)
	if !ok {
		t.Fatalf("expected mov, got %#v", fn.Blocks[0].Instrs[0])
	}
	c, ok := mov.A.(ir.Const)
	if !ok || c.Val != 5 {
		t.Fatalf("expected Const(5), got %#v", mov.A)
	}
}

// `ifFalse 0 goto L1` becomes `jmp L1` after constfold, and the dead
// fallthrough block disappears after drop_unreachable.
func TestFoldConstantBranchThenDropUnreachable(t *testing.T) {
	fn := buildFromTAC(t, []string{
		"ifFalse 0 goto L1",
		"return 1",
		"L1:",
		"return 0",
	})
	before := len(fn.Blocks)
	ConstFold{}.Apply(fn)
	jmp, ok := fn.Blocks[0].LastInstr().(ir.JmpInstr)
	if !ok || jmp.TLabel != "L1" {
		t.Fatalf("expected jmp L1, got %#v", fn.Blocks[0].LastInstr())
	}
	DropUnreachable{}.Apply(fn)
	if len(fn.Blocks) != before-1 {
		t.Fatalf("expected one fewer block, got %d (was %d)", len(fn.Blocks), before)
	}
}

// Two blocks where the second's sole predecessor jumps straight to it
// fuse into one.
func TestFuseStraightlineMergesSoleSuccessor(t *testing.T) {
	fn := buildFromTAC(t, []string{
		"x = 1",
		"goto L1",
		"L1:",
		"return x",
	})
	before := len(fn.Blocks)
	FuseStraightline{}.Apply(fn)
	if len(fn.Blocks) != before-1 {
		t.Fatalf("expected fusion to drop a block, got %d blocks", len(fn.Blocks))
	}
	last := fn.Blocks[len(fn.Blocks)-1].LastInstr()
	if _, ok := last.(ir.RetInstr); !ok {
		t.Fatalf("expected fused block to end in return, got %#v", last)
	}
}

func TestFuseStraightlineSelfLoopGuard(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Blocks: []*ir.Block{
			{Label: "_entry", Instrs: []ir.Instr{ir.JmpInstr{TLabel: "L"}}},
			{Label: "L", Instrs: []ir.Instr{ir.JmpInstr{TLabel: "L"}}},
		},
	}
	fn.BuildCFG()
	// Must not panic or corrupt the block list on a self-loop.
	FuseStraightline{}.Apply(fn)
	if fn.BlockByLabel("L") == nil {
		t.Fatal("self-loop block L should not be removed by fusion")
	}
}

// copyprop + dse collapse `a = x; b = a; return b` to `return x`.
func TestCopyPropThenDSECollapsesAliasChain(t *testing.T) {
	fn := buildFromTAC(t, []string{"a = x", "b = a", "return b"})
	CopyProp{}.Apply(fn)
	DSE{}.Apply(fn)
	instrs := fn.Blocks[0].Instrs
	if len(instrs) != 1 {
		t.Fatalf("expected only the return to survive, got %#v", instrs)
	}
	ret, ok := instrs[0].(ir.RetInstr)
	if !ok {
		t.Fatalf("expected ret, got %#v", instrs[0])
	}
	v, ok := ret.A.(ir.Var)
	if !ok || v.Name != "x" {
		t.Fatalf("expected return of x, got %#v", ret.A)
	}
}

func TestDeadStoreSelfReference(t *testing.T) {
	// x = x + 1, x never used again: must be eliminated even though it
	// reads its own destination.
	fn := buildFromTAC(t, []string{"x = 1", "x = x + 1", "return 0"})
	DSE{}.Apply(fn)
	for _, ins := range fn.Blocks[0].Instrs {
		if b, ok := ins.(ir.BinopInstr); ok && b.Dst.Name == "x" {
			t.Fatalf("expected self-referencing dead store to be removed, found %#v", b)
		}
	}
}

func TestAlgebraMulByZero(t *testing.T) {
	fn := &ir.Function{Blocks: []*ir.Block{{
		Label: "_entry",
		Instrs: []ir.Instr{
			ir.BinopInstr{Dst: ir.Var{Name: "y"}, Op: "*", A: ir.Var{Name: "x"}, B: ir.Const{Val: 0}},
			ir.RetInstr{A: ir.Var{Name: "y"}},
		},
	}}}
	changed := Algebra{}.Apply(fn)
	if !changed {
		t.Fatal("expected algebra to fold x*0")
	}
	mov, ok := fn.Blocks[0].Instrs[0].(ir.MovInstr)
	if !ok {
		t.Fatalf("expected mov, got %#v", fn.Blocks[0].Instrs[0])
	}
	if c, ok := mov.A.(ir.Const); !ok || c.Val != 0 {
		t.Fatalf("expected mov dst, 0, got %#v", mov.A)
	}
}

func TestPipelineFixpoint(t *testing.T) {
	fn := buildFromTAC(t, []string{"t0 = 2 + 3", "return t0"})
	p := Pipeline{}
	p.Run(fn, 3)
	again := *fn
	changed := p.Run(&again, 3)
	if changed {
		t.Fatal("expected second pipeline run to be a no-op (fixpoint)")
	}
}

func TestPassesAreIdempotent(t *testing.T) {
	tac := []string{
		"t0 = 2 + 3",
		"a = t0",
		"b = a",
		"c = b * 1",
		"ifFalse 1 goto L1",
		"x = 9",
		"goto L2",
		"L1:",
		"x = 0",
		"L2:",
		"return x",
	}
	for _, pass := range []Pass{ConstFold{}, CopyProp{}, Algebra{}, DropUnreachable{}, FuseStraightline{}, DSE{}} {
		fn := buildFromTAC(t, tac)
		pass.Apply(fn)
		if pass.Apply(fn) {
			t.Errorf("%s is not idempotent: second application still reported a change", pass.Name())
		}
	}
}
