package parser

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	plex "github.com/alecthomas/participle/v2/lexer"

	"minic/internal/ast"
	minilex "minic/internal/lexer"
)

var build, buildErr = participle.Build[programNode](
	participle.Lexer(minilex.Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseSource parses a complete source file into an *ast.Program. filename
// is used only for diagnostic positions.
func ParseSource(filename, src string) (*ast.Program, error) {
	if buildErr != nil {
		return nil, fmt.Errorf("failed to build parser: %w", buildErr)
	}
	prog, err := build.ParseString(filename, src)
	if err != nil {
		return nil, err
	}
	return toProgram(prog), nil
}

func toPos(p plex.Position) ast.Position {
	return ast.Position{Line: p.Line, Column: p.Column}
}

func toProgram(n *programNode) *ast.Program {
	p := &ast.Program{Position: toPos(n.Pos)}
	for _, fn := range n.Functions {
		p.Functions = append(p.Functions, toFunction(fn))
	}
	return p
}

func toFunction(n *functionNode) *ast.Function {
	return &ast.Function{
		Position: toPos(n.Pos),
		Name:     n.Name,
		Body:     toBlock(n.Body),
	}
}

func toBlock(n *blockNode) *ast.Block {
	b := &ast.Block{Position: toPos(n.Pos)}
	for _, item := range n.Items {
		switch {
		case item.Decl != nil:
			b.Stmts = append(b.Stmts, toDecl(item.Decl))
		case item.Stmt != nil:
			b.Stmts = append(b.Stmts, toStmt(item.Stmt))
		}
	}
	return b
}

func toDecl(n *declNode) *ast.DeclStmt {
	return &ast.DeclStmt{Position: toPos(n.Pos), Names: n.Names}
}

func toStmt(n *stmtNode) ast.Stmt {
	switch {
	case n.If != nil:
		return toIf(n.If)
	case n.While != nil:
		return toWhile(n.While)
	case n.Return != nil:
		return toReturn(n.Return)
	case n.Block != nil:
		return toBlock(n.Block)
	case n.Assign != nil:
		return toAssign(n.Assign)
	case n.Expr != nil:
		return toExprStmt(n.Expr)
	default:
		panic("parser: empty stmtNode alternation")
	}
}

func toIf(n *ifStmtNode) *ast.IfStmt {
	s := &ast.IfStmt{
		Position: toPos(n.Pos),
		Cond:     toOr(n.Cond),
		Then:     toBlock(n.Then),
	}
	if n.Else != nil {
		s.Else = toBlock(n.Else)
	}
	return s
}

func toWhile(n *whileStmtNode) *ast.WhileStmt {
	return &ast.WhileStmt{
		Position: toPos(n.Pos),
		Cond:     toOr(n.Cond),
		Body:     toBlock(n.Body),
	}
}

func toReturn(n *returnStmtNode) *ast.ReturnStmt {
	s := &ast.ReturnStmt{Position: toPos(n.Pos)}
	if n.Value != nil {
		s.Value = toOr(n.Value)
	}
	return s
}

func toAssign(n *assignStmtNode) *ast.AssignStmt {
	return &ast.AssignStmt{
		Position: toPos(n.Pos),
		Name:     n.Name,
		Value:    toOr(n.Value),
	}
}

func toExprStmt(n *exprStmtNode) *ast.ExprStmt {
	return &ast.ExprStmt{Position: toPos(n.Pos), Value: toOr(n.Value)}
}

// toOr and the levels below fold each precedence level's Head/Tail shape
// into a left-associative ast.Binary chain.

func toOr(n *orExprNode) ast.Expr {
	left := toAnd(n.Head)
	for _, t := range n.Tail {
		left = &ast.Binary{Position: left.Pos(), Op: t.Op, Left: left, Right: toAnd(t.Right)}
	}
	return left
}

func toAnd(n *andExprNode) ast.Expr {
	left := toEq(n.Head)
	for _, t := range n.Tail {
		left = &ast.Binary{Position: left.Pos(), Op: t.Op, Left: left, Right: toEq(t.Right)}
	}
	return left
}

func toEq(n *eqExprNode) ast.Expr {
	left := toRel(n.Head)
	for _, t := range n.Tail {
		left = &ast.Binary{Position: left.Pos(), Op: t.Op, Left: left, Right: toRel(t.Right)}
	}
	return left
}

func toRel(n *relExprNode) ast.Expr {
	left := toAdd(n.Head)
	for _, t := range n.Tail {
		left = &ast.Binary{Position: left.Pos(), Op: t.Op, Left: left, Right: toAdd(t.Right)}
	}
	return left
}

func toAdd(n *addExprNode) ast.Expr {
	left := toMul(n.Head)
	for _, t := range n.Tail {
		left = &ast.Binary{Position: left.Pos(), Op: t.Op, Left: left, Right: toMul(t.Right)}
	}
	return left
}

func toMul(n *mulExprNode) ast.Expr {
	left := toUnary(n.Head)
	for _, t := range n.Tail {
		left = &ast.Binary{Position: left.Pos(), Op: t.Op, Left: left, Right: toUnary(t.Right)}
	}
	return left
}

func toUnary(n *unaryExprNode) ast.Expr {
	if n.Op != "" {
		return &ast.Unary{Position: toPos(n.Pos), Op: n.Op, Operand: toUnary(n.Inner)}
	}
	return toPrimary(n.Primary)
}

func toPrimary(n *primaryExprNode) ast.Expr {
	pos := toPos(n.Pos)
	switch {
	case n.Int != nil:
		v, err := strconv.ParseInt(*n.Int, 10, 64)
		if err != nil {
			panic(fmt.Sprintf("parser: invalid integer literal %q: %v", *n.Int, err))
		}
		return &ast.IntLit{Position: pos, Value: v}
	case n.Ident != nil:
		return &ast.Ident{Position: pos, Name: *n.Ident}
	case n.Paren != nil:
		return toOr(n.Paren)
	default:
		panic("parser: empty primaryExprNode alternation")
	}
}
