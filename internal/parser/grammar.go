// Package parser implements the front end's grammar for the C-like subset,
// built end to end from a single participle grammar: the operator set is
// small enough for one cascading precedence-level grammar with no ambiguity
// participle's lookahead can't resolve.
package parser

import "github.com/alecthomas/participle/v2/lexer"

// programNode is the grammar's start symbol: zero or more function
// definitions (a `decl`-only or empty program is accepted by the grammar;
// semantic analysis, not parsing, decides whether that is meaningful).
type programNode struct {
	Pos       lexer.Position
	Functions []*functionNode `@@*`
}

// functionNode is `"int" name "(" ")" Block`. Parameters are never
// expressible (no calls, no parameters, per Non-goals).
type functionNode struct {
	Pos  lexer.Position
	Name string     `"int" @Ident "(" ")"`
	Body *blockNode `@@`
}

type blockNode struct {
	Pos   lexer.Position
	Items []*blockItemNode `"{" @@* "}"`
}

type blockItemNode struct {
	Decl *declNode `  @@`
	Stmt *stmtNode `| @@`
}

// declNode is `"int" name { "," name } ";"`.
type declNode struct {
	Pos   lexer.Position
	Names []string `"int" @Ident { "," @Ident } ";"`
}

// stmtNode disjuncts over every statement form. Assign and Expr both start
// with an identifier; the parser is built with enough lookahead (the
// UseLookahead option in parser.go) to tell `x = ...` from a bare expression statement without
// backtracking past consumed tokens.
type stmtNode struct {
	If     *ifStmtNode     `  @@`
	While  *whileStmtNode  `| @@`
	Return *returnStmtNode `| @@`
	Block  *blockNode      `| @@`
	Assign *assignStmtNode `| @@`
	Expr   *exprStmtNode   `| @@`
}

type ifStmtNode struct {
	Pos  lexer.Position
	Cond *orExprNode `"if" "(" @@ ")"`
	Then *blockNode  `@@`
	Else *blockNode  `[ "else" @@ ]`
}

type whileStmtNode struct {
	Pos  lexer.Position
	Cond *orExprNode `"while" "(" @@ ")"`
	Body *blockNode  `@@`
}

// returnStmtNode is `"return" [ expr ] ";"`: a bare `return;` has Value nil.
type returnStmtNode struct {
	Pos   lexer.Position
	Value *orExprNode `"return" [ @@ ] ";"`
}

type assignStmtNode struct {
	Pos   lexer.Position
	Name  string      `@Ident "="`
	Value *orExprNode `@@ ";"`
}

// exprStmtNode is an expression evaluated for its side effect and
// discarded; unreachable for any well-formed program in this call-free
// language but kept so the grammar (and internal/ast) matches a real front
// end's shape rather than special-casing assignment as the only statement
// that can start with an identifier.
type exprStmtNode struct {
	Pos   lexer.Position
	Value *orExprNode `@@ ";"`
}

// Binary precedence cascades low to high: ||, &&, equality, relational,
// additive, multiplicative, unary, primary. Each level is right-recursive
// (participle cannot parse left recursion); parser.go folds the Head/Tail
// shape into a left-associative ast.Binary chain.

type orExprNode struct {
	Pos  lexer.Position
	Head *andExprNode  `@@`
	Tail []*orTailNode `@@*`
}

type orTailNode struct {
	Op    string       `@"||"`
	Right *andExprNode `@@`
}

type andExprNode struct {
	Pos  lexer.Position
	Head *eqExprNode    `@@`
	Tail []*andTailNode `@@*`
}

type andTailNode struct {
	Op    string      `@"&&"`
	Right *eqExprNode `@@`
}

type eqExprNode struct {
	Pos  lexer.Position
	Head *relExprNode  `@@`
	Tail []*eqTailNode `@@*`
}

type eqTailNode struct {
	Op    string       `@("==" | "!=")`
	Right *relExprNode `@@`
}

type relExprNode struct {
	Pos  lexer.Position
	Head *addExprNode   `@@`
	Tail []*relTailNode `@@*`
}

type relTailNode struct {
	Op    string       `@("<=" | ">=" | "<" | ">")`
	Right *addExprNode `@@`
}

type addExprNode struct {
	Pos  lexer.Position
	Head *mulExprNode   `@@`
	Tail []*addTailNode `@@*`
}

type addTailNode struct {
	Op    string       `@("+" | "-")`
	Right *mulExprNode `@@`
}

type mulExprNode struct {
	Pos  lexer.Position
	Head *unaryExprNode `@@`
	Tail []*mulTailNode `@@*`
}

type mulTailNode struct {
	Op    string         `@("*" | "/" | "%")`
	Right *unaryExprNode `@@`
}

// unaryExprNode is right-recursive to allow arbitrary nesting (`!!x`,
// `--x`), not just a single prefix operator.
type unaryExprNode struct {
	Pos     lexer.Position
	Op      string           `(  @("+" | "-" | "!")`
	Inner   *unaryExprNode   `   @@ )`
	Primary *primaryExprNode `| @@`
}

type primaryExprNode struct {
	Pos   lexer.Position
	Int   *string     `  @Int`
	Ident *string     `| @Ident`
	Paren *orExprNode `| "(" @@ ")"`
}
