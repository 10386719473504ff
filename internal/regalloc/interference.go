package regalloc

import "minic/internal/asm"

// graph is an adjacency-set interference graph over virtual register names.
type graph map[string]map[string]bool

func (g graph) touch(v string) {
	if g[v] == nil {
		g[v] = map[string]bool{}
	}
}

func (g graph) edge(a, b string) {
	if a == b {
		return
	}
	g.touch(a)
	g.touch(b)
	g[a][b] = true
	g[b][a] = true
}

func (g graph) degree(v string) int { return len(g[v]) }

// buildInterference adds a write-vs-live-out edge for every instruction,
// plus the RAX/RDX exclusivity edges an Idiv imposes against everything
// live across it (including RAX-RDX against each other).
func buildInterference(prog asm.Program, in, out, reads, writes []map[string]bool) graph {
	g := graph{}
	for i, ins := range prog {
		for v := range reads[i] {
			g.touch(v)
		}
		for v := range writes[i] {
			g.touch(v)
		}
		for x := range writes[i] {
			for y := range out[i] {
				if y != x {
					g.edge(x, y)
				}
			}
		}
		if _, ok := ins.(asm.Idiv); ok {
			live := map[string]bool{}
			for v := range in[i] {
				live[v] = true
			}
			for v := range out[i] {
				live[v] = true
			}
			for _, fx := range []string{"RAX", "RDX"} {
				g.touch(fx)
				for y := range live {
					if y != fx {
						g.edge(fx, y)
					}
				}
			}
			g.edge("RAX", "RDX")
		}
	}
	return g
}
