package frame

import "minic/internal/asm"

// EmitPrologueEpilogue wraps prog with the stack-mode calling convention:
// a prologue of push rbp; mov rbp, rsp; sub rsp, size (sub omitted when
// size is 0), and an epilogue of add rsp, size; pop rbp (add omitted when
// size is 0) inserted immediately before every ret. Off and Symbolic modes
// return prog unchanged: there is no frame to set up.
func EmitPrologueEpilogue(prog asm.Program, mode Mode, layout *Layout) asm.Program {
	if mode != Stack {
		return prog
	}
	var out asm.Program
	out = append(out, asm.Push{Reg: asm.Reg{Name: "rbp"}})
	out = append(out, asm.Mov{Dst: asm.Reg{Name: "rbp"}, Src: asm.Reg{Name: "rsp"}})
	if layout.Size != 0 {
		out = append(out, asm.Sub{Dst: asm.Reg{Name: "rsp"}, Src: asm.Imm{Value: int64(layout.Size)}})
	}
	for _, ins := range prog {
		if _, ok := ins.(asm.Ret); ok {
			if layout.Size != 0 {
				out = append(out, asm.Add{Dst: asm.Reg{Name: "rsp"}, Src: asm.Imm{Value: int64(layout.Size)}})
			}
			out = append(out, asm.Pop{Reg: asm.Reg{Name: "rbp"}})
		}
		out = append(out, ins)
	}
	return out
}

// PeepholeRetRax runs the two return-path peepholes: dropping a no-op
// `mov rax, rax`, and the structural rewrite that elides a redundant
// "stash rax in a scratch, then move it back" pair that can appear right
// before an (optional) epilogue and a ret. The rewrite works on the
// instruction list, not printed lines, so it still recognizes the pattern
// across intervening epilogue instructions.
func PeepholeRetRax(prog asm.Program) asm.Program {
	prog = dropNoOpRaxMov(prog)
	return dropRedundantRaxShuffle(prog)
}

func dropNoOpRaxMov(prog asm.Program) asm.Program {
	out := make(asm.Program, 0, len(prog))
	for _, ins := range prog {
		if m, ok := ins.(asm.Mov); ok {
			if dst, ok1 := m.Dst.(asm.Reg); ok1 && dst.Name == "rax" {
				if src, ok2 := m.Src.(asm.Reg); ok2 && src.Name == "rax" {
					continue
				}
			}
		}
		out = append(out, ins)
	}
	return out
}

// dropRedundantRaxShuffle finds `mov Rt, rax` immediately followed by
// `mov rax, Rt` (same Rt) and, if the remainder of the sequence up to and
// including the next ret consists only of epilogue instructions (add rsp /
// pop rbp) and that ret, drops the two redundant moves while preserving
// everything from the epilogue onward.
func dropRedundantRaxShuffle(prog asm.Program) asm.Program {
	out := make(asm.Program, 0, len(prog))
	for i := 0; i < len(prog); i++ {
		if i+1 < len(prog) && matchesRaxShuffle(prog[i], prog[i+1]) && restIsEpilogueThenRet(prog[i+2:]) {
			i++ // skip both shuffle instructions
			continue
		}
		out = append(out, prog[i])
	}
	return out
}

func matchesRaxShuffle(a, b asm.Instr) bool {
	m1, ok1 := a.(asm.Mov)
	m2, ok2 := b.(asm.Mov)
	if !ok1 || !ok2 {
		return false
	}
	rt, ok3 := m1.Dst.(asm.Reg)
	raxSrc, ok4 := m1.Src.(asm.Reg)
	raxDst, ok5 := m2.Dst.(asm.Reg)
	rt2, ok6 := m2.Src.(asm.Reg)
	return ok3 && ok4 && ok5 && ok6 && raxSrc.Name == "rax" && raxDst.Name == "rax" && rt.Name == rt2.Name && rt.Name != "rax"
}

func restIsEpilogueThenRet(rest asm.Program) bool {
	for _, ins := range rest {
		switch t := ins.(type) {
		case asm.Add:
			if r, ok := t.Dst.(asm.Reg); !ok || r.Name != "rsp" {
				return false
			}
		case asm.Pop:
			if r, ok := t.Reg.(asm.Reg); !ok || r.Name != "rbp" {
				return false
			}
		case asm.Ret:
			return true
		default:
			return false
		}
	}
	return false
}
