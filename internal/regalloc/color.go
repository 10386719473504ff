package regalloc

import "sort"

// pool returns CallerSaved with SpillScratch removed, the colors the
// simplify/select phase may assign.
func pool() []string {
	out := make([]string, 0, len(CallerSaved))
	for _, r := range CallerSaved {
		if r != SpillScratch {
			out = append(out, r)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// greedyColor runs Chaitin-style simplify/select: repeatedly push a node of
// degree below the pool size onto the stack, or, if none qualifies, spill
// the highest-degree remaining node (ties broken by name for determinism);
// then pop the stack, assigning each node the first pool color none of its
// already-colored neighbors holds, preferring non-RAX/RDX colors, falling
// back to marking it spilled if every color is taken.
func greedyColor(g graph, precolored map[string]string) (colors map[string]string, spills map[string]bool) {
	p := pool()
	nodes := map[string]bool{}
	for v := range g {
		nodes[v] = true
	}
	for v := range precolored {
		nodes[v] = true
	}

	var stack []string
	spills = map[string]bool{}
	work := map[string]bool{}
	for v := range nodes {
		if precolored[v] == "" {
			work[v] = true
		}
	}

	for len(work) > 0 {
		var pick string
		found := false
		for _, v := range sortedKeys(work) {
			if g.degree(v) < len(p) {
				pick = v
				found = true
				break
			}
		}
		if !found {
			best, bestDeg := "", -1
			for _, v := range sortedKeys(work) {
				if g.degree(v) > bestDeg {
					best, bestDeg = v, g.degree(v)
				}
			}
			pick = best
			spills[pick] = true
		}
		stack = append(stack, pick)
		delete(work, pick)
	}

	colors = map[string]string{}
	for k, v := range precolored {
		colors[k] = v
	}
	for i := len(stack) - 1; i >= 0; i-- {
		v := stack[i]
		used := map[string]bool{}
		for n := range g[v] {
			if c, ok := colors[n]; ok {
				used[c] = true
			}
		}
		var tryFirst, tryThen []string
		for _, r := range p {
			if r == "rax" || r == "rdx" {
				tryThen = append(tryThen, r)
			} else {
				tryFirst = append(tryFirst, r)
			}
		}
		chosen := ""
		for _, r := range append(tryFirst, tryThen...) {
			if !used[r] {
				chosen = r
				break
			}
		}
		if chosen == "" {
			spills[v] = true
			delete(colors, v)
		} else {
			colors[v] = chosen
			delete(spills, v) // optimistic: a simplify-time candidate that found a color is not spilled
		}
	}
	return colors, spills
}
