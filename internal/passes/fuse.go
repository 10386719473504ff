package passes

import "minic/internal/ir"

// FuseStraightline splices a block S into its sole predecessor B when B
// ends in `jmp S`. A self-loop block `L: ...; jmp L` is trivially its own
// sole predecessor, and fusing it into itself while also removing it from
// the block list would corrupt the block slice mid-scan, so S == B is
// explicitly skipped.
type FuseStraightline struct{}

func (FuseStraightline) Name() string { return "fuse_straightline" }

func (FuseStraightline) Apply(fn *ir.Function) bool {
	changed := false
	for {
		fn.BuildCFG()
		fused := false
		for _, b := range fn.Blocks {
			j, ok := b.LastInstr().(ir.JmpInstr)
			if !ok {
				continue
			}
			target := j.TLabel
			if target == "" || target == b.Label {
				continue
			}
			if len(fn.Pred[target]) != 1 || fn.Pred[target][0] != b.Label {
				continue
			}
			s := fn.BlockByLabel(target)
			if s == nil {
				continue
			}
			b.Instrs = b.Instrs[:len(b.Instrs)-1]
			for _, ins := range s.Instrs {
				if ins.Kind() == ir.KindLabel {
					continue
				}
				b.Instrs = append(b.Instrs, ins)
			}
			fn.Blocks = removeBlock(fn.Blocks, target)
			fn.BuildCFG()
			fused = true
			changed = true
			break
		}
		if !fused {
			break
		}
	}
	return changed
}

func removeBlock(blocks []*ir.Block, label string) []*ir.Block {
	out := make([]*ir.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Label != label {
			out = append(out, b)
		}
	}
	return out
}
