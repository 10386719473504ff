package regalloc

import "minic/internal/asm"

// Allocate runs the full C9 pipeline over a lowered program: liveness,
// interference, greedy coloring with RAX/RDX precolored to their physical
// names, and spill rewriting. The result contains only physical registers
// and (for spilled vregs) spill_<name> memory operands, ready for frame
// layout to assign those spill slots a real stack offset.
func Allocate(prog asm.Program) asm.Program {
	in, out, reads, writes := liveness(prog)
	g := buildInterference(prog, in, out, reads, writes)
	precolored := map[string]string{"RAX": "rax", "RDX": "rdx"}
	colors, spills := greedyColor(g, precolored)
	return rewriteWithSpills(prog, colors, spills)
}
