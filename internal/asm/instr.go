package asm

// Instr is the pseudo-x86 instruction tagged union.
type Instr interface{ isInstr() }

// Program is an ordered instruction sequence, the unit this package prints
// and the register allocator/frame layout operate on.
type Program []Instr

type LabelDef struct{ Label Label }
type Mov struct{ Dst, Src Operand }
type Add struct{ Dst, Src Operand }
type Sub struct{ Dst, Src Operand }
type IMul struct{ Dst, Src Operand }
type Cmp struct{ A, B Operand }
type Idiv struct{ Src Operand }
type Jcc struct {
	CC     string
	Target Label
}
type Jmp struct{ Target Label }

// Ret's Val is nil for a bare `ret`.
type Ret struct{ Val Operand }
type Push struct{ Reg Operand }
type Pop struct{ Reg Operand }

func (LabelDef) isInstr() {}
func (Mov) isInstr()      {}
func (Add) isInstr()      {}
func (Sub) isInstr()      {}
func (IMul) isInstr()     {}
func (Cmp) isInstr()      {}
func (Idiv) isInstr()     {}
func (Jcc) isInstr()      {}
func (Jmp) isInstr()      {}
func (Ret) isInstr()      {}
func (Push) isInstr()     {}
func (Pop) isInstr()      {}
