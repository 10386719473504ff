package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/internal/ast"
)

func TestParseSourceSimpleFunction(t *testing.T) {
	src := `
int main() {
  int x, y;
  x = 1 + 2 * 3;
  return x;
}
`
	prog, err := ParseSource("test.c", src)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 3)

	decl, ok := fn.Body.Stmts[0].(*ast.DeclStmt)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, decl.Names)

	assign, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)

	bin, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	mul, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)

	ret, ok := fn.Body.Stmts[2].(*ast.ReturnStmt)
	require.True(t, ok)
	require.NotNil(t, ret.Value)
}

func TestParseSourceBinaryIsLeftAssociative(t *testing.T) {
	prog, err := ParseSource("test.c", `int f() { return 1 - 2 - 3; }`)
	require.NoError(t, err)

	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "-", top.Op)

	// (1 - 2) - 3: the left child is itself a Binary, the right is the literal 3.
	left, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "-", left.Op)
	_, leftIsLit := left.Left.(*ast.IntLit)
	assert.True(t, leftIsLit)

	_, rightIsLit := top.Right.(*ast.IntLit)
	assert.True(t, rightIsLit)
}

func TestParseSourcePrecedenceAndLogicalOps(t *testing.T) {
	prog, err := ParseSource("test.c", `int f() { return a && b || c == d + e * 2; }`)
	require.NoError(t, err)

	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "||", top.Op, "|| binds loosest and must be the root")

	left, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", left.Op)

	right, ok := top.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "==", right.Op)

	add, ok := right.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseSourceIfElseAndWhile(t *testing.T) {
	src := `
int main() {
  int x;
  x = 0;
  if (x < 10) {
    x = x + 1;
  } else {
    x = 0;
  }
  while (x != 0) {
    x = x - 1;
  }
  return 0;
}
`
	prog, err := ParseSource("test.c", src)
	require.NoError(t, err)
	stmts := prog.Functions[0].Body.Stmts

	ifStmt, ok := stmts[2].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)

	whileStmt, ok := stmts[3].(*ast.WhileStmt)
	require.True(t, ok)
	assert.Len(t, whileStmt.Body.Stmts, 1)
}

func TestParseSourceUnaryNesting(t *testing.T) {
	prog, err := ParseSource("test.c", `int f() { return !!-x; }`)
	require.NoError(t, err)

	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	not1, ok := ret.Value.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, "!", not1.Op)

	not2, ok := not1.Operand.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, "!", not2.Op)

	neg, ok := not2.Operand.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, "-", neg.Op)

	_, identOk := neg.Operand.(*ast.Ident)
	assert.True(t, identOk)
}

func TestParseSourceRejectsGarbage(t *testing.T) {
	_, err := ParseSource("test.c", `int main() { x = ; }`)
	assert.Error(t, err)
}

func TestParseSourceBareReturn(t *testing.T) {
	prog, err := ParseSource("test.c", `int f() { return; }`)
	require.NoError(t, err)
	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	assert.Nil(t, ret.Value)
}
