package regalloc

import (
	"strings"
	"testing"

	"minic/internal/asm"
)

func render(t *testing.T, prog asm.Program) []string {
	t.Helper()
	return asm.NewPrinter().Print(prog)
}

func TestAllocateSimpleNoSpill(t *testing.T) {
	prog := asm.Program{
		asm.LabelDef{Label: asm.Label{Name: "_entry"}},
		asm.Mov{Dst: asm.Reg{Name: "R1"}, Src: asm.Imm{Value: 2}},
		asm.Add{Dst: asm.Reg{Name: "R1"}, Src: asm.Imm{Value: 3}},
		asm.Mov{Dst: asm.Reg{Name: "RAX"}, Src: asm.Reg{Name: "R1"}},
		asm.Ret{Val: asm.Reg{Name: "RAX"}},
	}
	out := Allocate(prog)
	for _, ins := range out {
		walkOperands(ins, func(o asm.Operand) {
			if r, ok := o.(asm.Reg); ok && r.IsVirtual() {
				t.Fatalf("found unallocated virtual register %v in %v", r, ins)
			}
		})
	}
	got := strings.Join(render(t, out), "\n")
	if !strings.Contains(got, "ret") {
		t.Fatalf("expected a ret in output, got:\n%s", got)
	}
}

func TestAllocateIdivPrecolorsRAXRDX(t *testing.T) {
	prog := asm.Program{
		asm.LabelDef{Label: asm.Label{Name: "_entry"}},
		asm.Mov{Dst: asm.Reg{Name: "RAX"}, Src: asm.Reg{Name: "R1"}},
		asm.Idiv{Src: asm.Reg{Name: "R2"}},
		asm.Mov{Dst: asm.Reg{Name: "R3"}, Src: asm.Reg{Name: "RAX"}},
		asm.Ret{Val: asm.Reg{Name: "R3"}},
	}
	out := Allocate(prog)
	for _, ins := range out {
		if m, ok := ins.(asm.Mov); ok {
			if r, ok := m.Dst.(asm.Reg); ok && r.Name == "RAX" {
				t.Fatalf("RAX virtual should have been colored to rax, got %v", m)
			}
		}
	}
}

func TestAllocateSpillsUnderRegisterPressure(t *testing.T) {
	// 9 simultaneously live vregs, one more than the 8-color pool
	// (CallerSaved minus the reserved spill scratch), forcing a spill.
	names := []string{"R1", "R2", "R3", "R4", "R5", "R6", "R7", "R8", "R9"}
	var prog asm.Program
	prog = append(prog, asm.LabelDef{Label: asm.Label{Name: "_entry"}})
	for i, n := range names {
		prog = append(prog, asm.Mov{Dst: asm.Reg{Name: n}, Src: asm.Imm{Value: int64(i)}})
	}
	acc := asm.Reg{Name: names[0]}
	for _, n := range names[1:] {
		prog = append(prog, asm.Add{Dst: acc, Src: asm.Reg{Name: n}})
	}
	prog = append(prog, asm.Ret{Val: acc})

	out := Allocate(prog)
	foundSpill := false
	for _, ins := range out {
		walkOperands(ins, func(o asm.Operand) {
			if m, ok := o.(asm.Mem); ok && strings.HasPrefix(m.Name, "spill_") {
				foundSpill = true
			}
		})
	}
	if !foundSpill {
		t.Fatal("expected at least one spill_ operand under this register pressure")
	}
}

// walkOperands visits every operand position of an instruction for test
// assertions; it is intentionally separate from rewrite's per-kind dispatch
// since it only needs to observe, not transform.
func walkOperands(ins asm.Instr, visit func(asm.Operand)) {
	switch t := ins.(type) {
	case asm.Mov:
		visit(t.Dst)
		visit(t.Src)
	case asm.Add:
		visit(t.Dst)
		visit(t.Src)
	case asm.Sub:
		visit(t.Dst)
		visit(t.Src)
	case asm.IMul:
		visit(t.Dst)
		visit(t.Src)
	case asm.Cmp:
		visit(t.A)
		visit(t.B)
	case asm.Idiv:
		visit(t.Src)
	case asm.Ret:
		if t.Val != nil {
			visit(t.Val)
		}
	}
}
