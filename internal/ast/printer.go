package ast

import (
	"fmt"
	"strings"
)

func indentBlock(s string) string {
	return "  " + strings.ReplaceAll(strings.TrimSuffix(s, "\n"), "\n", "\n  ")
}

func (p *Program) String() string {
	var b strings.Builder
	for _, fn := range p.Functions {
		b.WriteString(fn.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *Function) String() string {
	return fmt.Sprintf("int %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body.String())
}

func (b *Block) String() string {
	if len(b.Stmts) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString(indentBlock(s.String()) + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (d *DeclStmt) String() string {
	return fmt.Sprintf("int %s;", strings.Join(d.Names, ", "))
}

func (a *AssignStmt) String() string {
	return fmt.Sprintf("%s = %s;", a.Name, a.Value.String())
}

func (i *IfStmt) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond.String(), i.Then.String())
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", w.Cond.String(), w.Body.String())
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value.String())
}

func (e *ExprStmt) String() string { return e.Value.String() + ";" }

func (i *IntLit) String() string { return fmt.Sprintf("%d", i.Value) }

func (i *Ident) String() string { return i.Name }

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Operand.String())
}
