package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Keep assertions on plain text.
	color.NoColor = true
}

func TestCodeRanges(t *testing.T) {
	cases := []struct {
		kind Kind
		n    int
		want string
	}{
		{LexerError, 1, "E0001"},
		{ParserError, 12, "E1012"},
		{SemanticError, 4, "E2004"},
		{UnsupportedOperation, 1, "E3001"},
		{InvalidIR, 2, "E4002"},
		{AllocatorFailure, 1, "E5001"},
	}
	for _, c := range cases {
		if got := Code(c.kind, c.n); got != c.want {
			t.Errorf("Code(%v, %d) = %q, want %q", c.kind, c.n, got, c.want)
		}
	}
}

func TestCompilerErrorStringWithPosition(t *testing.T) {
	err := Newf(SemanticError, Code(SemanticError, 1), "undefined variable %q", "y").At(3, 10)
	msg := err.Error()
	if !strings.Contains(msg, "E2001") || !strings.Contains(msg, "3:10") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestCompilerErrorStringWithoutPosition(t *testing.T) {
	err := New(AllocatorFailure, Code(AllocatorFailure, 1), "no color assignable")
	if strings.Contains(err.Error(), " at ") {
		t.Fatalf("positionless error should not render a location: %q", err.Error())
	}
}

func TestReporterFormatPointsAtColumn(t *testing.T) {
	src := "int main() {\n  return y;\n}"
	r := NewErrorReporter("test.c", src)
	err := New(SemanticError, Code(SemanticError, 1), `undefined variable "y"`).At(2, 10)

	out := r.Format(err)
	if !strings.Contains(out, "test.c:2:10") {
		t.Fatalf("expected location in output:\n%s", out)
	}
	if !strings.Contains(out, "return y;") {
		t.Fatalf("expected offending source line in output:\n%s", out)
	}

	lines := strings.Split(out, "\n")
	var srcLine, caretLine string
	for i, l := range lines {
		if strings.Contains(l, "return y;") && i+1 < len(lines) {
			srcLine, caretLine = l, lines[i+1]
		}
	}
	if srcLine == "" || !strings.Contains(caretLine, "^") {
		t.Fatalf("expected a caret under the source line:\n%s", out)
	}
	if strings.Index(caretLine, "^") != strings.Index(srcLine, "y") {
		t.Fatalf("caret misaligned:\n%s\n%s", srcLine, caretLine)
	}
}

func TestReporterFormatOutOfRangePosition(t *testing.T) {
	r := NewErrorReporter("test.c", "int main() {}")
	err := New(ParserError, Code(ParserError, 1), "unexpected end of input").At(99, 1)
	out := r.Format(err)
	if !strings.Contains(out, "unexpected end of input") {
		t.Fatalf("header must still render for unresolvable positions:\n%s", out)
	}
}
