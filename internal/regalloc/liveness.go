package regalloc

import "minic/internal/asm"

// successors builds the instruction-indexed control-flow successor sets of
// a flat program: straight-line instructions fall through to the next
// index, Jmp targets its label, Jcc targets both the fallthrough and the
// label, and Ret has none.
func successors(prog asm.Program) [][]int {
	labelIdx := map[string]int{}
	for i, ins := range prog {
		if l, ok := ins.(asm.LabelDef); ok {
			labelIdx[l.Label.Name] = i
		}
	}
	succ := make([][]int, len(prog))
	for i, ins := range prog {
		var next []int
		if i+1 < len(prog) {
			next = []int{i + 1}
		}
		switch t := ins.(type) {
		case asm.Ret:
			succ[i] = nil
		case asm.Jmp:
			succ[i] = []int{labelIdx[t.Target.Name]}
		case asm.Jcc:
			succ[i] = append(next, labelIdx[t.Target.Name])
		default:
			succ[i] = next
		}
	}
	return succ
}

// liveness runs the standard backward fixpoint: IN[i] = R[i] | (OUT[i] -
// W[i]), OUT[i] = union of IN[j] over successors j.
func liveness(prog asm.Program) (in, out []map[string]bool, reads, writes []map[string]bool) {
	succ := successors(prog)
	reads = make([]map[string]bool, len(prog))
	writes = make([]map[string]bool, len(prog))
	in = make([]map[string]bool, len(prog))
	out = make([]map[string]bool, len(prog))
	for i, ins := range prog {
		reads[i], writes[i] = readsWrites(ins)
		in[i], out[i] = map[string]bool{}, map[string]bool{}
	}
	changed := true
	for changed {
		changed = false
		for i := len(prog) - 1; i >= 0; i-- {
			newOut := map[string]bool{}
			for _, j := range succ[i] {
				for v := range in[j] {
					newOut[v] = true
				}
			}
			newIn := map[string]bool{}
			for v := range reads[i] {
				newIn[v] = true
			}
			for v := range newOut {
				if !writes[i][v] {
					newIn[v] = true
				}
			}
			if !setsEqual(newIn, in[i]) || !setsEqual(newOut, out[i]) {
				changed = true
			}
			in[i], out[i] = newIn, newOut
		}
	}
	return in, out, reads, writes
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
