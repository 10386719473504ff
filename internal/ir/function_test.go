package ir

import "testing"

func build(t *testing.T, lines []string) *Function {
	t.Helper()
	instrs, _, diags := ParseTAC(lines)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return BuildFunction("f", instrs)
}

func TestBuildFunctionEveryBlockEndsInTerminator(t *testing.T) {
	fn := build(t, []string{
		"x = 1",
		"L0:",
		"x = x + 1",
		"ifFalse x goto L0",
		"return x",
	})
	for _, b := range fn.Blocks {
		last := b.LastInstr()
		if last == nil || !last.IsTerminator() {
			t.Fatalf("block %s does not end in a terminator: %#v", b.Label, last)
		}
		for _, ins := range b.Instrs[:len(b.Instrs)-1] {
			if ins.IsTerminator() {
				t.Fatalf("block %s has a terminator mid-block: %#v", b.Label, ins)
			}
		}
	}
}

func TestBuildFunctionBridgesLabelWithJmp(t *testing.T) {
	// The instruction before L1 is not a terminator, so the builder must
	// close _entry with an explicit jmp to L1.
	fn := build(t, []string{
		"x = 1",
		"L1:",
		"return x",
	})
	entry := fn.BlockByLabel("_entry")
	if entry == nil {
		t.Fatal("missing _entry block")
	}
	j, ok := entry.LastInstr().(JmpInstr)
	if !ok || j.TLabel != "L1" {
		t.Fatalf("expected _entry to be closed with jmp L1, got %#v", entry.LastInstr())
	}
}

func TestBuildFunctionResolvesFallthroughSentinel(t *testing.T) {
	fn := build(t, []string{
		"ifFalse x goto L1",
		"x = 2",
		"goto L1",
		"L1:",
		"return x",
	})
	br, ok := fn.Blocks[0].LastInstr().(BrInstr)
	if !ok {
		t.Fatalf("expected a br terminator, got %#v", fn.Blocks[0].LastInstr())
	}
	if br.TLabel == FallthroughSentinel {
		t.Fatal("fallthrough sentinel was not resolved")
	}
	if br.TLabel != fn.Blocks[1].Label {
		t.Fatalf("sentinel resolved to %q, want next block %q", br.TLabel, fn.Blocks[1].Label)
	}
}

func TestBuildFunctionTerminatorTargetsResolve(t *testing.T) {
	fn := build(t, []string{
		"ifFalse x goto L2",
		"x = 1",
		"goto L2",
		"L2:",
		"return x",
	})
	for from, targets := range fn.Succ {
		for _, target := range targets {
			if fn.BlockByLabel(target) == nil {
				t.Fatalf("successor %q of %q does not resolve to a block", target, from)
			}
		}
	}
}

func TestBuildFunctionPredIsInverseOfSucc(t *testing.T) {
	fn := build(t, []string{
		"L0:",
		"ifFalse x goto L2",
		"x = 1",
		"goto L0",
		"L2:",
		"return x",
	})
	for u, targets := range fn.Succ {
		for _, v := range targets {
			found := false
			for _, p := range fn.Pred[v] {
				if p == u {
					found = true
				}
			}
			if !found {
				t.Fatalf("pred[%s] missing %s although %s is in succ[%s]", v, u, v, u)
			}
		}
	}
	for v, preds := range fn.Pred {
		for _, u := range preds {
			found := false
			for _, s := range fn.Succ[u] {
				if s == v {
					found = true
				}
			}
			if !found {
				t.Fatalf("succ[%s] missing %s although %s is in pred[%s]", u, v, u, v)
			}
		}
	}
}

func TestBuildFunctionAppendsDefaultRet(t *testing.T) {
	fn := build(t, []string{"x = 1"})
	last := fn.Blocks[len(fn.Blocks)-1].LastInstr()
	if _, ok := last.(RetInstr); !ok {
		t.Fatalf("expected a default ret terminator, got %#v", last)
	}
}

func TestBuildFunctionAnonymousBlockAfterTerminator(t *testing.T) {
	// The mov after `return` has no label, so the builder opens a synthetic
	// _Basic-Block for it.
	fn := build(t, []string{
		"return x",
		"y = 1",
	})
	if len(fn.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(fn.Blocks))
	}
	if fn.Blocks[1].Label == "_entry" || fn.Blocks[1].Label == "" {
		t.Fatalf("expected a synthetic label, got %q", fn.Blocks[1].Label)
	}
}
