package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Function as human-readable IR text: an indent level
// and a strings.Builder accumulated through small write helpers rather
// than ad hoc string concatenation.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter returns a Printer ready to render.
func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) writeIndent() {
	p.output.WriteString(strings.Repeat("  ", p.indent))
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.output, format, args...)
	p.output.WriteByte('\n')
}

// PrintFunction renders fn's blocks and instructions, one line per
// instruction. When withCFG is true each block gets a trailing successor
// list line.
func (p *Printer) PrintFunction(fn *Function, withCFG bool) string {
	p.output.Reset()
	p.writeLine("# function %s (IR blocks)", fn.Name)
	for _, b := range fn.Blocks {
		p.writeLine("%s:", b.Label)
		p.indent++
		for _, ins := range b.Instrs {
			if ins.Kind() == KindLabel {
				continue
			}
			p.writeLine("%s", dumpLine(ins))
		}
		if withCFG {
			p.writeLine(";; succ: [%s]", strings.Join(fn.Succ[b.Label], ", "))
		}
		p.indent--
	}
	return p.output.String()
}

func dumpLine(ins Instr) string {
	switch t := ins.(type) {
	case LabelInstr:
		return t.Label + ":"
	case MovInstr:
		return fmt.Sprintf("%s = %s", t.Dst, t.A)
	case BinopInstr:
		return fmt.Sprintf("%s = %s %s %s", t.Dst, t.A, t.Op, t.B)
	case UnopInstr:
		return fmt.Sprintf("%s = %s %s", t.Dst, t.Op, t.A)
	case BrInstr:
		return fmt.Sprintf("br %s ? %s : %s", t.A, t.TLabel, t.FLabel)
	case JmpInstr:
		return fmt.Sprintf("jmp %s", t.TLabel)
	case RetInstr:
		if t.A == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", t.A)
	default:
		return fmt.Sprintf(";; %T", ins)
	}
}

// PrintProgram renders every function in order, separated by a blank line.
func PrintProgram(fns []*Function, withCFG bool) string {
	p := NewPrinter()
	var parts []string
	for _, fn := range fns {
		parts = append(parts, p.PrintFunction(fn, withCFG))
	}
	return strings.Join(parts, "\n")
}
