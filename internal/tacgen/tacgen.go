// Package tacgen lowers a checked *ast.Program into the three-address-code
// instruction streams the ir package builds basic blocks and CFGs from. It
// emits ir.Instr values directly rather than TAC text: the text form is
// only the boundary contract between this front end and a TAC file on
// disk, exercised at the CLI's --tac-in/--tac flags, not the in-process
// path from parser to backend.
package tacgen

import (
	"fmt"

	"minic/internal/ast"
	"minic/internal/ir"
)

// Output is one function's generated TAC: the built Function plus its
// header comments (a `# function NAME (int)` banner and one
// `# decl int ...` line per declaration walked past). ir.Instr has no
// comment variant, so declaration comments are hoisted to the top of the
// function's rendering rather than kept inline at each declaration's
// point of occurrence.
type Output struct {
	Function       *ir.Function
	HeaderComments []string
}

// Generate lowers every function in prog, in order.
func Generate(prog *ast.Program) []Output {
	outs := make([]Output, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		outs = append(outs, generateFunction(fn))
	}
	return outs
}

// emitter is one function's lowering state: its temp/label counters and
// the linear instruction stream under construction.
type emitter struct {
	tempN   int
	labelN  int
	instrs  []ir.Instr
	headers []string
}

func generateFunction(fn *ast.Function) Output {
	e := &emitter{}
	e.headers = append(e.headers, fmt.Sprintf("# function %s (int)", fn.Name))
	e.block(fn.Body)
	if last := e.lastInstr(); last == nil || !last.IsTerminator() {
		e.emit(ir.RetInstr{})
	}
	built := ir.BuildFunction(fn.Name, e.instrs)
	return Output{Function: built, HeaderComments: e.headers}
}

func (e *emitter) lastInstr() ir.Instr {
	if len(e.instrs) == 0 {
		return nil
	}
	return e.instrs[len(e.instrs)-1]
}

func (e *emitter) newTemp() ir.Var {
	e.tempN++
	return ir.Var{Name: fmt.Sprintf("t%d", e.tempN)}
}

func (e *emitter) newLabel(prefix string) string {
	e.labelN++
	return fmt.Sprintf("%s%d", prefix, e.labelN)
}

func (e *emitter) emit(ins ir.Instr) { e.instrs = append(e.instrs, ins) }

func (e *emitter) block(b *ast.Block) {
	for _, s := range b.Stmts {
		e.stmt(s)
	}
}

func (e *emitter) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		names := ""
		for i, n := range s.Names {
			if i > 0 {
				names += ", "
			}
			names += n
		}
		e.headers = append(e.headers, fmt.Sprintf("# decl int %s", names))
	case *ast.AssignStmt:
		v := e.expr(s.Value)
		e.emit(ir.MovInstr{Dst: ir.Var{Name: s.Name}, A: v})
	case *ast.IfStmt:
		e.ifStmt(s)
	case *ast.WhileStmt:
		e.whileStmt(s)
	case *ast.ReturnStmt:
		if s.Value == nil {
			e.emit(ir.RetInstr{})
			return
		}
		v := e.expr(s.Value)
		e.emit(ir.RetInstr{A: v})
	case *ast.ExprStmt:
		e.expr(s.Value)
	case *ast.Block:
		e.block(s)
	default:
		panic(fmt.Sprintf("tacgen: unhandled statement node %T", stmt))
	}
}

// ifStmt: a single-branch if emits `ifFalse cond goto Lend`, then the
// then-block, then Lend; a two-branch if routes the false path to Lelse
// and joins at Lend after the then-block's unconditional jump over the
// else-block.
func (e *emitter) ifStmt(s *ast.IfStmt) {
	cond := e.expr(s.Cond)
	if s.Else == nil {
		lend := e.newLabel("Lend")
		e.emit(ir.BrInstr{A: cond, TLabel: ir.FallthroughSentinel, FLabel: lend})
		e.block(s.Then)
		e.emit(ir.LabelInstr{Label: lend})
		return
	}
	lelse := e.newLabel("Lelse")
	lend := e.newLabel("Lend")
	e.emit(ir.BrInstr{A: cond, TLabel: ir.FallthroughSentinel, FLabel: lelse})
	e.block(s.Then)
	e.emit(ir.JmpInstr{TLabel: lend})
	e.emit(ir.LabelInstr{Label: lelse})
	e.block(s.Else)
	e.emit(ir.LabelInstr{Label: lend})
}

// whileStmt: Lstart re-evaluates the condition every iteration, ifFalse
// exits to Lend, the body ends with an unconditional jump back to Lstart.
func (e *emitter) whileStmt(s *ast.WhileStmt) {
	lstart := e.newLabel("Lstart")
	lend := e.newLabel("Lend")
	e.emit(ir.LabelInstr{Label: lstart})
	cond := e.expr(s.Cond)
	e.emit(ir.BrInstr{A: cond, TLabel: ir.FallthroughSentinel, FLabel: lend})
	e.block(s.Body)
	e.emit(ir.JmpInstr{TLabel: lstart})
	e.emit(ir.LabelInstr{Label: lend})
}

func (e *emitter) expr(expr ast.Expr) ir.Value {
	switch ex := expr.(type) {
	case *ast.IntLit:
		return ir.Const{Val: ex.Value}
	case *ast.Ident:
		return ir.Var{Name: ex.Name}
	case *ast.Unary:
		a := e.expr(ex.Operand)
		dst := e.newTemp()
		e.emit(ir.UnopInstr{Dst: dst, Op: ex.Op, A: a})
		return dst
	case *ast.Binary:
		switch ex.Op {
		case "&&":
			return e.logicalAnd(ex.Left, ex.Right)
		case "||":
			return e.logicalOr(ex.Left, ex.Right)
		default:
			a := e.expr(ex.Left)
			b := e.expr(ex.Right)
			dst := e.newTemp()
			e.emit(ir.BinopInstr{Dst: dst, Op: ex.Op, A: a, B: b})
			return dst
		}
	default:
		panic(fmt.Sprintf("tacgen: unhandled expression node %T", expr))
	}
}

// asBool normalizes an arbitrary value to 0/1 via a `!= 0` comparison
// before a logical operator's result is stored.
func (e *emitter) asBool(v ir.Value) ir.Value {
	dst := e.newTemp()
	e.emit(ir.BinopInstr{Dst: dst, Op: "!=", A: v, B: ir.Const{Val: 0}})
	return dst
}

// logicalAnd lowers `a && b` with short-circuit control flow: if a is
// false, b is never evaluated and the result is 0. One destination temp is
// allocated up front and written from both branches, so the result is
// defined no matter which path is taken; allocating a temp per branch and
// returning the last one would leave the result unwritten on the
// short-circuit path.
func (e *emitter) logicalAnd(left, right ast.Expr) ir.Value {
	dst := e.newTemp()
	lfalse := e.newLabel("Land_false")
	lend := e.newLabel("Land_end")

	l := e.expr(left)
	e.emit(ir.BrInstr{A: l, TLabel: ir.FallthroughSentinel, FLabel: lfalse})
	r := e.expr(right)
	e.emit(ir.MovInstr{Dst: dst, A: e.asBool(r)})
	e.emit(ir.JmpInstr{TLabel: lend})
	e.emit(ir.LabelInstr{Label: lfalse})
	e.emit(ir.MovInstr{Dst: dst, A: ir.Const{Val: 0}})
	e.emit(ir.LabelInstr{Label: lend})
	return dst
}

// logicalOr lowers `a || b` symmetrically to logicalAnd: if a is true, b
// is never evaluated and the result is 1. Same single-destination-temp
// rule applies.
func (e *emitter) logicalOr(left, right ast.Expr) ir.Value {
	dst := e.newTemp()
	lrhs := e.newLabel("Lor_rhs")
	lend := e.newLabel("Lor_end")

	l := e.expr(left)
	e.emit(ir.BrInstr{A: l, TLabel: ir.FallthroughSentinel, FLabel: lrhs})
	e.emit(ir.MovInstr{Dst: dst, A: ir.Const{Val: 1}})
	e.emit(ir.JmpInstr{TLabel: lend})
	e.emit(ir.LabelInstr{Label: lrhs})
	r := e.expr(right)
	e.emit(ir.MovInstr{Dst: dst, A: e.asBool(r)})
	e.emit(ir.LabelInstr{Label: lend})
	return dst
}
