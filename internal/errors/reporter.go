package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorReporter renders CompilerErrors against a named source so the caller
// sees a caret pointing at the offending column, the way a Rust-style
// diagnostic does.
type ErrorReporter struct {
	Filename string
	lines    []string
}

// NewErrorReporter snapshots source split into lines for later context
// rendering.
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{Filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders err as a multi-line, colorized diagnostic: a bold header
// naming the kind and code, the offending source line (when a position is
// known and resolves into the snapshot), and a caret line under the
// column.
func (r *ErrorReporter) Format(err *CompilerError) string {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", red.Sprint("error:"), bold.Sprint(err.Message))
	fmt.Fprintf(&b, "  %s %s [%s]\n", dim.Sprint("-->"), r.location(err), err.Code)

	if err.Pos != nil && err.Pos.Line >= 1 && err.Pos.Line <= len(r.lines) {
		line := r.lines[err.Pos.Line-1]
		width := len(fmt.Sprintf("%d", err.Pos.Line))
		fmt.Fprintf(&b, "%s %s\n", strings.Repeat(" ", width), dim.Sprint("|"))
		fmt.Fprintf(&b, "%d %s %s\n", err.Pos.Line, dim.Sprint("|"), line)
		col := err.Pos.Column
		if col < 1 {
			col = 1
		}
		marker := strings.Repeat(" ", width+3+col-1) + red.Sprint("^")
		fmt.Fprintln(&b, marker)
	}
	return b.String()
}

func (r *ErrorReporter) location(err *CompilerError) string {
	if err.Pos == nil || err.Pos.Line == 0 {
		return r.Filename
	}
	return fmt.Sprintf("%s:%s", r.Filename, err.Pos)
}
