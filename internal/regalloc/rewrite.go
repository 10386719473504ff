package regalloc

import (
	"minic/internal/asm"
	"minic/internal/errors"
)

func spillMem(vname string) asm.Mem { return asm.Mem{Name: "spill_" + vname} }

// phys maps a virtual register to its assigned physical register. A virtual
// register with neither a color nor a spill slot means the allocator lost
// track of a node, an internal bug, so this panics rather than emitting it.
func phys(o asm.Operand, colors map[string]string) asm.Operand {
	if r, ok := o.(asm.Reg); ok && isVReg(r) {
		c, ok := colors[r.Name]
		if !ok {
			panic(errors.Newf(errors.AllocatorFailure, errors.Code(errors.AllocatorFailure, 1),
				"virtual register %s has neither a color nor a spill slot", r.Name))
		}
		return asm.Reg{Name: c}
	}
	return o
}

func isSpilled(o asm.Operand, spills map[string]bool) (string, bool) {
	r, ok := o.(asm.Reg)
	if !ok || !isVReg(r) {
		return "", false
	}
	return r.Name, spills[r.Name]
}

// rewriteWithSpills replaces every virtual register with its assigned
// physical register, or, for a spilled vreg, a load/store through
// SpillScratch around a symbolic spill_<name> memory operand. A spilled
// Cmp right operand and a spilled arithmetic source stay as plain memory
// (those positions can address one memory operand), as does a spilled Mov
// destination whose source is a register or immediate; every other spilled
// operand position, including a Mov between two memory operands, goes
// through an explicit scratch round-trip.
func rewriteWithSpills(prog asm.Program, colors map[string]string, spills map[string]bool) asm.Program {
	scratch := asm.Reg{Name: SpillScratch}
	var out asm.Program

	for _, ins := range prog {
		switch t := ins.(type) {
		case asm.LabelDef:
			out = append(out, t)

		case asm.Ret:
			if name, ok := isSpilled(t.Val, spills); ok {
				out = append(out, asm.Mov{Dst: scratch, Src: spillMem(name)})
				out = append(out, asm.Ret{Val: scratch})
			} else if t.Val != nil {
				out = append(out, asm.Ret{Val: phys(t.Val, colors)})
			} else {
				out = append(out, asm.Ret{})
			}

		case asm.Idiv:
			if name, ok := isSpilled(t.Src, spills); ok {
				out = append(out, asm.Mov{Dst: scratch, Src: spillMem(name)})
				out = append(out, asm.Idiv{Src: scratch})
			} else {
				out = append(out, asm.Idiv{Src: phys(t.Src, colors)})
			}

		case asm.Cmp:
			var ap asm.Operand
			if name, ok := isSpilled(t.A, spills); ok {
				out = append(out, asm.Mov{Dst: scratch, Src: spillMem(name)})
				ap = scratch
			} else {
				ap = phys(t.A, colors)
			}
			var bp asm.Operand
			if name, ok := isSpilled(t.B, spills); ok {
				bp = spillMem(name)
			} else {
				bp = phys(t.B, colors)
			}
			out = append(out, asm.Cmp{A: ap, B: bp})

		case asm.Mov:
			out = append(out, rewriteMov(t, scratch, colors, spills)...)

		case asm.Add:
			out = append(out, rewriteArith(t.Dst, t.Src, scratch, colors, spills, func(d, s asm.Operand) asm.Instr { return asm.Add{Dst: d, Src: s} })...)
		case asm.Sub:
			out = append(out, rewriteArith(t.Dst, t.Src, scratch, colors, spills, func(d, s asm.Operand) asm.Instr { return asm.Sub{Dst: d, Src: s} })...)
		case asm.IMul:
			out = append(out, rewriteArith(t.Dst, t.Src, scratch, colors, spills, func(d, s asm.Operand) asm.Instr { return asm.IMul{Dst: d, Src: s} })...)

		default:
			out = append(out, ins)
		}
	}
	return out
}

func rewriteMov(m asm.Mov, scratch asm.Reg, colors map[string]string, spills map[string]bool) []asm.Instr {
	dstName, dstSpilled := isSpilled(m.Dst, spills)
	srcName, srcSpilled := isSpilled(m.Src, spills)

	if dstSpilled {
		if srcSpilled {
			return []asm.Instr{
				asm.Mov{Dst: scratch, Src: spillMem(srcName)},
				asm.Mov{Dst: spillMem(dstName), Src: scratch},
			}
		}
		switch m.Src.(type) {
		case asm.Mem, asm.FrameRef:
			return []asm.Instr{
				asm.Mov{Dst: scratch, Src: m.Src},
				asm.Mov{Dst: spillMem(dstName), Src: scratch},
			}
		}
		return []asm.Instr{asm.Mov{Dst: spillMem(dstName), Src: phys(m.Src, colors)}}
	}
	pdst := phys(m.Dst, colors)
	if srcSpilled {
		return []asm.Instr{
			asm.Mov{Dst: scratch, Src: spillMem(srcName)},
			asm.Mov{Dst: pdst, Src: scratch},
		}
	}
	return []asm.Instr{asm.Mov{Dst: pdst, Src: phys(m.Src, colors)}}
}

func rewriteArith(dst, src asm.Operand, scratch asm.Reg, colors map[string]string, spills map[string]bool, build func(d, s asm.Operand) asm.Instr) []asm.Instr {
	dstName, dstSpilled := isSpilled(dst, spills)
	srcName, srcSpilled := isSpilled(src, spills)

	if dstSpilled {
		var sOp asm.Operand
		if srcSpilled {
			sOp = spillMem(srcName)
		} else {
			sOp = phys(src, colors)
		}
		return []asm.Instr{
			asm.Mov{Dst: scratch, Src: spillMem(dstName)},
			build(scratch, sOp),
			asm.Mov{Dst: spillMem(dstName), Src: scratch},
		}
	}
	pdst := phys(dst, colors)
	var sOp asm.Operand
	if srcSpilled {
		sOp = spillMem(srcName)
	} else {
		sOp = phys(src, colors)
	}
	return []asm.Instr{build(pdst, sOp)}
}
