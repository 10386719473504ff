// Command minic compiles a single C-like source file (or a hand-written
// TAC file, via --tac-in) down to pseudo-x86 assembly text. Staged the way
// a small teaching compiler's driver usually is: each early-exit flag
// stops the pipeline right after the stage it names and prints that
// stage's output, so the whole front end through back end can be inspected
// one piece at a time.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"minic/internal/asm"
	minierrors "minic/internal/errors"
	"minic/internal/frame"
	"minic/internal/ir"
	minilex "minic/internal/lexer"
	"minic/internal/lower"
	"minic/internal/parser"
	"minic/internal/passes"
	"minic/internal/regalloc"
	"minic/internal/semantic"
	"minic/internal/tacgen"
)

type options struct {
	lexOnly         bool
	parseOnly       bool
	symtab          bool
	semanticOnly    bool
	tacOnly         bool
	optLevel        int
	dumpBlocks      bool
	dumpBlocksAfter bool
	dumpCFG         bool
	frameMode       string
	output          string
	tacIn           string
}

func main() {
	fs := flag.NewFlagSet("minic", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: minic [flags] <source.c>")
		fs.PrintDefaults()
	}

	var opt options
	fs.BoolVar(&opt.lexOnly, "l", false, "lex the input and print its token stream, then stop")
	fs.BoolVar(&opt.parseOnly, "p", false, "parse the input and print its syntax tree, then stop")
	fs.BoolVar(&opt.symtab, "symtab", false, "print the function and variable symbol tables, then stop")
	fs.BoolVar(&opt.semanticOnly, "s", false, "run semantic analysis only, then stop")
	fs.BoolVar(&opt.tacOnly, "tac", false, "print the generated three-address code, then stop")
	o0 := fs.Bool("O0", false, "disable optimization (default)")
	o1 := fs.Bool("O1", false, "local dataflow optimizations: constant propagation/folding, dead-store elimination")
	o2 := fs.Bool("O2", false, "O1 plus copy propagation")
	o3 := fs.Bool("O3", false, "O2 plus algebraic simplification")
	fs.BoolVar(&opt.dumpBlocks, "dump-blocks", false, "print IR basic blocks before optimization")
	fs.BoolVar(&opt.dumpBlocksAfter, "dump-blocks-after", false, "print IR basic blocks after optimization")
	fs.BoolVar(&opt.dumpCFG, "dump-cfg", false, "include successor lists in block dumps")
	fs.StringVar(&opt.frameMode, "frame", "stack", "frame addressing mode for named locals: off, symbolic, stack")
	fs.StringVar(&opt.output, "o", "", "output file for the final assembly (default stdout)")
	fs.StringVar(&opt.tacIn, "tac-in", "", "read three-address code directly from this file, bypassing the front end")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	opt.optLevel = pickOptLevel(*o0, *o1, *o2, *o3)

	var path string
	if opt.tacIn == "" {
		if fs.NArg() != 1 {
			fs.Usage()
			os.Exit(2)
		}
		path = fs.Arg(0)
	}

	if err := run(path, &opt); err != nil {
		color.Red("minic: %s", err)
		os.Exit(1)
	}
}

func pickOptLevel(o0, o1, o2, o3 bool) int {
	switch {
	case o3:
		return 3
	case o2:
		return 2
	case o1:
		return 1
	case o0:
		return 0
	default:
		return 0
	}
}

func run(path string, opt *options) (err error) {
	// An allocator failure is an internal bug and panics with a
	// *errors.CompilerError; translate it into a reportable error here
	// instead of crashing with a bare stack trace.
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*minierrors.CompilerError)
			if !ok {
				panic(r)
			}
			err = minierrors.WithStack(ce)
		}
	}()

	mode, err := parseFrameMode(opt.frameMode)
	if err != nil {
		return err
	}

	if opt.tacIn != "" {
		fn, headers, err := loadTACFile(opt.tacIn)
		if err != nil {
			return err
		}
		return compileFunctions([]tacgen.Output{{Function: fn, HeaderComments: headers}}, opt, mode)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return minierrors.Wrap(err, "reading "+path)
	}

	if opt.lexOnly {
		return printTokens(path, string(src))
	}

	prog, err := parser.ParseSource(path, string(src))
	if err != nil {
		reportParseError(string(src), err)
		return fmt.Errorf("parsing failed")
	}
	if opt.parseOnly {
		fmt.Println(prog.String())
		return nil
	}

	result, err := semantic.Analyze(prog)
	if err != nil {
		return err
	}
	if opt.symtab {
		fmt.Print(result.FormatFunctionTable())
		fmt.Println()
		fmt.Print(result.FormatVariableTable())
		return nil
	}
	if opt.semanticOnly {
		color.Green("✅ %s: no semantic errors", path)
		return nil
	}

	outs := tacgen.Generate(prog)
	if opt.tacOnly {
		printTAC(outs)
		return nil
	}

	return compileFunctions(outs, opt, mode)
}

func parseFrameMode(s string) (frame.Mode, error) {
	switch frame.Mode(s) {
	case frame.Off, frame.Symbolic, frame.Stack:
		return frame.Mode(s), nil
	default:
		return "", fmt.Errorf("invalid --frame mode %q (want off, symbolic, or stack)", s)
	}
}

func loadTACFile(path string) (*ir.Function, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, minierrors.Wrap(err, "reading "+path)
	}
	lines := strings.Split(string(data), "\n")
	instrs, headers, diags := ir.ParseTAC(lines)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	name := "main"
	if len(headers) > 0 {
		if parsed, ok := parseFunctionHeaderName(headers[0]); ok {
			name = parsed
		}
	}
	return ir.BuildFunction(name, instrs), headers, nil
}

func parseFunctionHeaderName(header string) (string, bool) {
	fields := strings.Fields(strings.TrimPrefix(header, "#"))
	if len(fields) >= 2 && fields[0] == "function" {
		return fields[1], true
	}
	return "", false
}

func printTAC(outs []tacgen.Output) {
	for i, out := range outs {
		if i > 0 {
			fmt.Println()
		}
		for _, line := range ir.Render(out.Function, out.HeaderComments) {
			fmt.Println(line)
		}
	}
}

func compileFunctions(outs []tacgen.Output, opt *options, mode frame.Mode) error {
	var lines []string
	pipeline := passes.Pipeline{}

	for i, out := range outs {
		fn := out.Function
		if opt.dumpBlocks {
			fmt.Print(ir.NewPrinter().PrintFunction(fn, opt.dumpCFG))
		}

		pipeline.Run(fn, opt.optLevel)

		if opt.dumpBlocksAfter {
			fmt.Print(ir.NewPrinter().PrintFunction(fn, opt.dumpCFG))
		}

		var layout *frame.Layout
		if mode == frame.Stack {
			layout = frame.BuildFrameLayout(fn)
		}

		lowered, err := lower.Function(fn, mode, layout)
		if err != nil {
			return fmt.Errorf("function %s: %w", fn.Name, err)
		}

		allocated := regalloc.Allocate(lowered)

		if mode == frame.Stack {
			allocated = frame.RemapSpills(allocated, layout)
			allocated = frame.EmitPrologueEpilogue(allocated, mode, layout)
		}
		allocated = frame.PeepholeRetRax(allocated)

		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, out.HeaderComments...)
		lines = append(lines, "function "+fn.Name)
		lines = append(lines, asm.NewPrinter().Print(allocated)...)
	}

	text := strings.Join(lines, "\n") + "\n"

	if opt.output == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(opt.output, []byte(text), 0o644); err != nil {
		return minierrors.Wrap(err, "writing "+opt.output)
	}
	color.Green("✅ wrote %s", opt.output)
	return nil
}

func printTokens(path, src string) error {
	toks, err := minilex.Tokenize(path, src)
	if err != nil {
		return fmt.Errorf("lexing %s: %w", path, err)
	}
	for _, t := range toks {
		fmt.Printf("%d:%d\t%s\n", t.Line, t.Column, t.String())
	}
	return nil
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("→ %s\n", pe.Message())
}
