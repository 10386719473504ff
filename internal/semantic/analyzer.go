package semantic

import (
	minierrors "minic/internal/errors"

	"minic/internal/ast"
)

// FuncInfo and VarInfo are the symtab-printer's row shapes: one row per
// function, one row per variable in declaration order.
type FuncInfo struct {
	Name string
	Pos  ast.Position
}

type VarInfo struct {
	Function string
	Name     string
	Depth    int
	Pos      ast.Position
}

// Result is everything semantic analysis produces for a well-formed
// program: the symbol rows for --symtab, alongside the checks themselves.
type Result struct {
	Functions []FuncInfo
	Variables []VarInfo
}

// Analyze walks prog enforcing declare-before-use scoping (shadowing
// allowed across nested blocks, redeclaration within one block rejected),
// use of only declared names, and that every function returns on every
// control path. It stops at the first error.
func Analyze(prog *ast.Program) (*Result, error) {
	a := &analyzer{result: &Result{}}
	seen := make(map[string]bool)
	for _, fn := range prog.Functions {
		if seen[fn.Name] {
			return nil, duplicateFunctionErr(fn)
		}
		seen[fn.Name] = true
		a.result.Functions = append(a.result.Functions, FuncInfo{Name: fn.Name, Pos: fn.Position})
		if err := a.checkFunction(fn); err != nil {
			return nil, err
		}
	}
	return a.result, nil
}

type analyzer struct {
	result      *Result
	currentFunc string
}

func (a *analyzer) checkFunction(fn *ast.Function) error {
	a.currentFunc = fn.Name
	root := newScope(nil)
	if err := a.checkBlock(fn.Body, root, 0); err != nil {
		return err
	}
	if !blockAlwaysReturns(fn.Body) {
		return missingReturnErr(fn)
	}
	return nil
}

func (a *analyzer) checkBlock(b *ast.Block, parent *Scope, depth int) error {
	scope := newScope(parent)
	for _, stmt := range b.Stmts {
		if err := a.checkStmt(stmt, scope, depth); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) checkStmt(stmt ast.Stmt, scope *Scope, depth int) error {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		for _, name := range s.Names {
			sym := &Symbol{Name: name, Pos: s.Position}
			if !scope.DefineLocal(sym) {
				return redeclarationErr(a.currentFunc, name, s.Position)
			}
			a.result.Variables = append(a.result.Variables, VarInfo{
				Function: a.currentFunc, Name: name, Depth: depth, Pos: s.Position,
			})
		}
	case *ast.AssignStmt:
		if _, ok := scope.Lookup(s.Name); !ok {
			return undefinedVariableErr(s.Name, s.Position)
		}
		if err := a.checkExpr(s.Value, scope); err != nil {
			return err
		}
	case *ast.IfStmt:
		if err := a.checkExpr(s.Cond, scope); err != nil {
			return err
		}
		if err := a.checkBlock(s.Then, scope, depth+1); err != nil {
			return err
		}
		if s.Else != nil {
			if err := a.checkBlock(s.Else, scope, depth+1); err != nil {
				return err
			}
		}
	case *ast.WhileStmt:
		if err := a.checkExpr(s.Cond, scope); err != nil {
			return err
		}
		if err := a.checkBlock(s.Body, scope, depth+1); err != nil {
			return err
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			if err := a.checkExpr(s.Value, scope); err != nil {
				return err
			}
		}
	case *ast.ExprStmt:
		if err := a.checkExpr(s.Value, scope); err != nil {
			return err
		}
	case *ast.Block:
		return a.checkBlock(s, scope, depth+1)
	default:
		return minierrors.Newf(minierrors.SemanticError, minierrors.Code(minierrors.SemanticError, 99),
			"unhandled statement node %T", stmt)
	}
	return nil
}

func (a *analyzer) checkExpr(expr ast.Expr, scope *Scope) error {
	switch e := expr.(type) {
	case *ast.IntLit:
		return nil
	case *ast.Ident:
		if _, ok := scope.Lookup(e.Name); !ok {
			return undefinedVariableErr(e.Name, e.Position)
		}
		return nil
	case *ast.Unary:
		return a.checkExpr(e.Operand, scope)
	case *ast.Binary:
		if err := a.checkExpr(e.Left, scope); err != nil {
			return err
		}
		return a.checkExpr(e.Right, scope)
	default:
		return minierrors.Newf(minierrors.SemanticError, minierrors.Code(minierrors.SemanticError, 99),
			"unhandled expression node %T", expr)
	}
}

// blockAlwaysReturns is a structural, syntactic all-paths-return check: a
// while loop is never assumed to run, so a return only inside its body does
// not count, but an if/else where both arms return does.
func blockAlwaysReturns(b *ast.Block) bool {
	for _, stmt := range b.Stmts {
		if stmtAlwaysReturns(stmt) {
			return true
		}
	}
	return false
}

func stmtAlwaysReturns(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.Block:
		return blockAlwaysReturns(s)
	case *ast.IfStmt:
		return s.Else != nil && blockAlwaysReturns(s.Then) && blockAlwaysReturns(s.Else)
	default:
		return false
	}
}

func undefinedVariableErr(name string, pos ast.Position) error {
	return minierrors.Newf(minierrors.SemanticError, minierrors.Code(minierrors.SemanticError, 1),
		"undefined variable %q", name).At(pos.Line, pos.Column)
}

func redeclarationErr(fn, name string, pos ast.Position) error {
	return minierrors.Newf(minierrors.SemanticError, minierrors.Code(minierrors.SemanticError, 2),
		"%q already declared in this scope (function %s)", name, fn).At(pos.Line, pos.Column)
}

func duplicateFunctionErr(fn *ast.Function) error {
	return minierrors.Newf(minierrors.SemanticError, minierrors.Code(minierrors.SemanticError, 3),
		"function %q already defined", fn.Name).At(fn.Position.Line, fn.Position.Column)
}

func missingReturnErr(fn *ast.Function) error {
	return minierrors.Newf(minierrors.SemanticError, minierrors.Code(minierrors.SemanticError, 4),
		"function %q does not return on all paths", fn.Name).At(fn.Position.Line, fn.Position.Column)
}
