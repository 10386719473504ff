package tacgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/internal/ir"
	"minic/internal/parser"
)

func generate(t *testing.T, src string) Output {
	t.Helper()
	prog, err := parser.ParseSource("test.c", src)
	require.NoError(t, err)
	outs := Generate(prog)
	require.Len(t, outs, 1)
	return outs[0]
}

func TestGenerateStraightLineAssignment(t *testing.T) {
	out := generate(t, `int f() { int x; x = 1 + 2; return x; }`)
	assert.Equal(t, "f", out.Function.Name)

	text := strings.Join(ir.Render(out.Function, out.HeaderComments), "\n")
	assert.Contains(t, text, "# function f (int)")
	assert.Contains(t, text, "# decl int x")
	assert.Contains(t, text, "x = t1")
}

func TestGenerateIfWithoutElse(t *testing.T) {
	out := generate(t, `
int f() {
  int x;
  x = 0;
  if (x == 0) {
    x = 1;
  }
  return x;
}`)
	text := strings.Join(ir.Render(out.Function, nil), "\n")
	assert.Contains(t, text, "ifFalse")
	assert.Contains(t, text, "goto Lend1")
}

func TestGenerateIfElseJoinsAtEnd(t *testing.T) {
	out := generate(t, `
int f() {
  int x;
  if (x == 0) {
    x = 1;
  } else {
    x = 2;
  }
  return x;
}`)
	var labels []string
	for _, b := range out.Function.Blocks {
		labels = append(labels, b.Label)
	}
	assert.Contains(t, labels, "Lelse1")
	assert.Contains(t, labels, "Lend2")
}

func TestGenerateWhileLoopsBack(t *testing.T) {
	out := generate(t, `
int f() {
  int x;
  x = 0;
  while (x != 10) {
    x = x + 1;
  }
  return x;
}`)
	var sawJumpToStart bool
	for _, b := range out.Function.Blocks {
		for _, ins := range b.Instrs {
			if j, ok := ins.(ir.JmpInstr); ok && strings.HasPrefix(j.TLabel, "Lstart") {
				sawJumpToStart = true
			}
		}
	}
	assert.True(t, sawJumpToStart, "while loop body must jump back to its condition label")
}

// TestLogicalAndShortCircuitDefinesResultOnBothPaths: both the
// short-circuit path and the evaluated path must write the SAME
// destination temp, otherwise the result is read uninitialized whenever
// the right-hand side is skipped.
func TestLogicalAndShortCircuitDefinesResultOnBothPaths(t *testing.T) {
	out := generate(t, `
int f() {
  int x, y, z;
  x = 1;
  y = 2;
  z = x && y;
  return z;
}`)

	var dest string
	destWrites := 0
	for _, b := range out.Function.Blocks {
		for _, ins := range b.Instrs {
			if mv, ok := ins.(ir.MovInstr); ok && ir.IsTemp(mv.Dst.Name) {
				if dest == "" {
					dest = mv.Dst.Name
				}
				if mv.Dst.Name == dest {
					destWrites++
				} else {
					t.Fatalf("logical-and result written to two different temps: %s and %s", dest, mv.Dst.Name)
				}
			}
		}
	}
	assert.Equal(t, 2, destWrites, "both the short-circuit and evaluated paths must write the same temp")
}

func TestLogicalOrShortCircuitDefinesResultOnBothPaths(t *testing.T) {
	out := generate(t, `
int f() {
  int x, y, z;
  x = 1;
  y = 2;
  z = x || y;
  return z;
}`)

	var dest string
	destWrites := 0
	for _, b := range out.Function.Blocks {
		for _, ins := range b.Instrs {
			if mv, ok := ins.(ir.MovInstr); ok && ir.IsTemp(mv.Dst.Name) {
				if dest == "" {
					dest = mv.Dst.Name
				}
				if mv.Dst.Name == dest {
					destWrites++
				} else {
					t.Fatalf("logical-or result written to two different temps: %s and %s", dest, mv.Dst.Name)
				}
			}
		}
	}
	assert.Equal(t, 2, destWrites, "both the short-circuit and evaluated paths must write the same temp")
}

func TestGenerateBareReturnTerminatesFunction(t *testing.T) {
	out := generate(t, `int f() { return; }`)
	last := out.Function.Blocks[len(out.Function.Blocks)-1]
	ret, ok := last.LastInstr().(ir.RetInstr)
	require.True(t, ok)
	assert.Nil(t, ret.A)
}

func TestGenerateUnaryOperators(t *testing.T) {
	out := generate(t, `int f() { int x; x = 1; return !x; }`)
	var sawNot bool
	for _, b := range out.Function.Blocks {
		for _, ins := range b.Instrs {
			if u, ok := ins.(ir.UnopInstr); ok && u.Op == "!" {
				sawNot = true
			}
		}
	}
	assert.True(t, sawNot)
}
