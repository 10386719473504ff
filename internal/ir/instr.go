package ir

// FallthroughSentinel is the placeholder target the TAC adapter assigns to
// an ifFalse branch's taken label; the CFG builder resolves it to the
// textually next block's label (or "" if there is none).
const FallthroughSentinel = "__FALLTHRU__"

// Kind discriminates the instruction variants named in the data model.
type Kind int

const (
	KindLabel Kind = iota
	KindMov
	KindBinop
	KindUnop
	KindBr
	KindJmp
	KindRet
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindMov:
		return "mov"
	case KindBinop:
		return "binop"
	case KindUnop:
		return "unop"
	case KindBr:
		return "br"
	case KindJmp:
		return "jmp"
	case KindRet:
		return "ret"
	default:
		return "unknown"
	}
}

// Instr is the tagged-union instruction interface; Kind() replaces a
// kind-string switch with an exhaustive type switch at call sites.
type Instr interface {
	Kind() Kind
	// IsTerminator reports whether this instruction ends a basic block.
	IsTerminator() bool
}

// LabelInstr is a pseudo-instruction marking a block start. It is redundant
// once instructions are organized into Blocks and is dropped by the CFG
// builder, surviving only in the linear stream the TAC adapter produces.
type LabelInstr struct{ Label string }

func (LabelInstr) Kind() Kind          { return KindLabel }
func (LabelInstr) IsTerminator() bool  { return false }

// MovInstr copies a Value into a destination Var.
type MovInstr struct {
	Dst Var
	A   Value
}

func (MovInstr) Kind() Kind         { return KindMov }
func (MovInstr) IsTerminator() bool { return false }

// BinopOps is the set of valid binary operators.
var BinopOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

// UnopOps is the set of valid unary operators.
var UnopOps = map[string]bool{"+": true, "-": true, "!": true}

// BinopInstr computes `Dst = A Op B`.
type BinopInstr struct {
	Dst  Var
	Op   string
	A, B Value
}

func (BinopInstr) Kind() Kind         { return KindBinop }
func (BinopInstr) IsTerminator() bool { return false }

// UnopInstr computes `Dst = Op A`.
type UnopInstr struct {
	Dst Var
	Op  string
	A   Value
}

func (UnopInstr) Kind() Kind         { return KindUnop }
func (UnopInstr) IsTerminator() bool { return false }

// BrInstr takes TLabel if A is nonzero, otherwise FLabel.
type BrInstr struct {
	A              Value
	TLabel, FLabel string
}

func (BrInstr) Kind() Kind         { return KindBr }
func (BrInstr) IsTerminator() bool { return true }

// JmpInstr is an unconditional jump.
type JmpInstr struct{ TLabel string }

func (JmpInstr) Kind() Kind         { return KindJmp }
func (JmpInstr) IsTerminator() bool { return true }

// RetInstr returns from the function, optionally with a value. A is nil for
// a bare `return`.
type RetInstr struct{ A Value }

func (RetInstr) Kind() Kind         { return KindRet }
func (RetInstr) IsTerminator() bool { return true }

// IsTerminator reports whether ins is a br, jmp, or ret.
func IsTerminator(ins Instr) bool { return ins.IsTerminator() }
