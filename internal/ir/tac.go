package ir

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic records a TAC line the adapter could not classify. The
// adapter is forgiving: unrecognized lines are skipped, not fatal, but each
// skip is recorded here so a caller can surface it.
type Diagnostic struct {
	LineNo int
	Text   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("tac: unrecognized line %d: %q", d.LineNo, d.Text)
}

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	labelLine    = regexp.MustCompile(`^([A-Za-z_][\w-]*):$`)
	ifFalseLine  = regexp.MustCompile(`^ifFalse\s+(\S+)\s+goto\s+([A-Za-z_][\w-]*)$`)
	gotoLine     = regexp.MustCompile(`^goto\s+([A-Za-z_][\w-]*)$`)
	returnLine   = regexp.MustCompile(`^return(?:\s+(\S+))?$`)
	assignLine   = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*(.+)$`)
)

// parseValue converts a TAC value token to a Const (optionally negative
// integer literal) or a Var (identifier).
func parseValue(tok string) (Value, bool) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Const{Val: n}, true
	}
	if identPattern.MatchString(tok) {
		return Var{Name: tok}, true
	}
	return nil, false
}

// ParseTAC classifies each line of a TAC program into a linear instruction
// stream, plus any header comment lines (preserved verbatim for
// re-emission) and a diagnostic for every line the adapter could not
// classify.
func ParseTAC(lines []string) (instrs []Instr, headerComments []string, diags []Diagnostic) {
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			headerComments = append(headerComments, line)
			continue
		}
		if ins, ok := parseTACLine(line); ok {
			instrs = append(instrs, ins)
			continue
		}
		diags = append(diags, Diagnostic{LineNo: i + 1, Text: raw})
	}
	return instrs, headerComments, diags
}

func parseTACLine(line string) (Instr, bool) {
	if m := labelLine.FindStringSubmatch(line); m != nil {
		return LabelInstr{Label: m[1]}, true
	}
	if m := ifFalseLine.FindStringSubmatch(line); m != nil {
		cond, ok := parseValue(m[1])
		if !ok {
			return nil, false
		}
		return BrInstr{A: cond, TLabel: FallthroughSentinel, FLabel: m[2]}, true
	}
	if m := gotoLine.FindStringSubmatch(line); m != nil {
		return JmpInstr{TLabel: m[1]}, true
	}
	if m := returnLine.FindStringSubmatch(line); m != nil {
		if m[1] == "" {
			return RetInstr{}, true
		}
		v, ok := parseValue(m[1])
		if !ok {
			return nil, false
		}
		return RetInstr{A: v}, true
	}
	if m := assignLine.FindStringSubmatch(line); m != nil {
		dst := Var{Name: m[1]}
		rhs := strings.Fields(m[2])
		switch len(rhs) {
		case 1:
			a, ok := parseValue(rhs[0])
			if !ok {
				return nil, false
			}
			return MovInstr{Dst: dst, A: a}, true
		case 2:
			if !UnopOps[rhs[0]] {
				return nil, false
			}
			a, ok := parseValue(rhs[1])
			if !ok {
				return nil, false
			}
			return UnopInstr{Dst: dst, Op: rhs[0], A: a}, true
		case 3:
			if !BinopOps[rhs[1]] {
				return nil, false
			}
			a, ok1 := parseValue(rhs[0])
			b, ok2 := parseValue(rhs[2])
			if !ok1 || !ok2 {
				return nil, false
			}
			return BinopInstr{Dst: dst, Op: rhs[1], A: a, B: b}, true
		default:
			return nil, false
		}
	}
	return nil, false
}

// Render renders fn back to TAC text: header
// comments first, then one label line per block followed by its
// instructions. A leading "_entry" block gets no label line, since
// BuildFunction opens that block itself when the text is parsed again.
// Labels may contain '-' (as in "_Basic-Block1"), which ParseTAC accepts
// in label, ifFalse and goto lines. A br is only representable in TAC's ifFalse form, so this
// assumes (as holds for any Function built by BuildFunction without block
// reordering) that every br's TLabel is the label of the block immediately
// following it; FLabel is always printable as the ifFalse goto target.
func Render(fn *Function, headerComments []string) []string {
	var out []string
	out = append(out, headerComments...)
	for i, b := range fn.Blocks {
		if i > 0 || b.Label != "_entry" {
			out = append(out, b.Label+":")
		}
		for _, ins := range b.Instrs {
			out = append(out, renderInstr(ins))
		}
	}
	return out
}

func renderInstr(ins Instr) string {
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
		return fmt.Sprintf("ifFalse %s goto %s", t.A, t.FLabel)
	case JmpInstr:
		return fmt.Sprintf("goto %s", t.TLabel)
	case RetInstr:
		if t.A == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", t.A)
	default:
		return fmt.Sprintf(";; unknown instruction %T", ins)
	}
}
