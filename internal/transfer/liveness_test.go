package transfer

import (
	"testing"

	"sendcheck/internal/ir"
	"sendcheck/internal/region"
)

func ref(block ir.BlockID, index int32) region.InstRef {
	return region.InstRef{Block: block, Index: index}
}

func req(block ir.BlockID, index int32) Require {
	return Require{Inst: ref(block, index)}
}

func sendAt(block ir.BlockID, index int32) region.TransferSite {
	return region.TransferSite{Inst: ref(block, index)}
}

// block builds a block whose only interesting property is its
// terminator; the reducer never looks at instructions.
func block(id ir.BlockID, succs ...ir.BlockID) ir.Block {
	b := ir.Block{ID: id}
	switch len(succs) {
	case 0:
		b.Term = ir.Terminator{Kind: ir.TermReturn}
	case 1:
		b.Term = ir.Terminator{Kind: ir.TermGoto, Goto: ir.GotoTerm{Target: succs[0]}}
	default:
		b.Term = ir.Terminator{Kind: ir.TermIf, If: ir.IfTerm{Then: succs[0], Else: succs[1]}}
	}
	return b
}

func TestReduceDominanceShortcut(t *testing.T) {
	// bb0 -> bb1; the use after the send inside bb0 is the unique answer
	// and downstream candidates must not even be considered.
	f := &ir.Func{
		Name:   "shortcut",
		Blocks: []ir.Block{block(0, 1), block(1)},
	}
	r := newReducer(f)

	got := r.reduce(sendAt(0, 1), []Require{req(0, 3), req(1, 0)})
	if len(got) != 1 {
		t.Fatalf("got %d requires, want 1", len(got))
	}
	if got[0] != req(0, 3) {
		t.Errorf("got %v, want the in-block use at bb0[3]", got[0])
	}
}

func TestReduceFirstUsePerPath(t *testing.T) {
	// bb0 -> (bb1 | bb2) -> bb3 with uses on both branches and at the
	// join: each branch's first use is reported, the join's is pruned.
	f := &ir.Func{
		Name:   "paths",
		Blocks: []ir.Block{block(0, 1, 2), block(1, 3), block(2, 3), block(3)},
	}
	r := newReducer(f)

	got := r.reduce(sendAt(0, 0), []Require{req(1, 0), req(2, 1), req(3, 0)})
	if len(got) != 2 {
		t.Fatalf("got %v, want one use per branch", got)
	}
	seen := map[Require]bool{}
	for _, g := range got {
		seen[g] = true
	}
	if !seen[req(1, 0)] || !seen[req(2, 1)] {
		t.Errorf("got %v, want bb1[0] and bb2[1]", got)
	}
}

func TestReduceEarliestInBlockWins(t *testing.T) {
	f := &ir.Func{
		Name:   "earliest",
		Blocks: []ir.Block{block(0, 1), block(1)},
	}
	r := newReducer(f)

	got := r.reduce(sendAt(0, 0), []Require{req(1, 4), req(1, 1), req(1, 7)})
	if len(got) != 1 || got[0] != req(1, 1) {
		t.Errorf("got %v, want only bb1[1]", got)
	}
}

func TestReduceBackEdge(t *testing.T) {
	// The only use sits before the send in the send's own block; it is
	// reachable again around the loop.
	f := &ir.Func{
		Name:   "backedge",
		Blocks: []ir.Block{block(0, 0, 1), block(1)},
	}
	r := newReducer(f)

	got := r.reduce(sendAt(0, 2), []Require{req(0, 0)})
	if len(got) != 1 || got[0] != req(0, 0) {
		t.Errorf("got %v, want the before-send use at bb0[0]", got)
	}
}

func TestReduceUseAtSendIndexIsNotDominating(t *testing.T) {
	// A use recorded at the send instruction's own index fires only when
	// a back edge carries the transfer around; the earlier loop use must
	// win, not the send's own observation.
	f := &ir.Func{
		Name:   "selfuse",
		Blocks: []ir.Block{block(0, 0, 1), block(1)},
	}
	r := newReducer(f)

	got := r.reduce(sendAt(0, 1), []Require{req(0, 0), req(0, 1)})
	if len(got) != 1 || got[0] != req(0, 0) {
		t.Errorf("got %v, want the first loop use at bb0[0]", got)
	}
}

func TestReduceUnreachableUseDropsOut(t *testing.T) {
	// bb0 -> (bb1 | bb2), send in bb1, use only in bb0: nothing is
	// reachable from the send, so the reduction is empty and the caller
	// escalates.
	f := &ir.Func{
		Name:   "unreachable",
		Blocks: []ir.Block{block(0, 1, 2), block(1), block(2)},
	}
	r := newReducer(f)

	got := r.reduce(sendAt(1, 0), []Require{req(0, 0)})
	if len(got) != 0 {
		t.Errorf("got %v, want empty reduction", got)
	}
}

func TestReduceGenerationsDoNotLeak(t *testing.T) {
	f := &ir.Func{
		Name:   "generations",
		Blocks: []ir.Block{block(0, 1), block(1)},
	}
	r := newReducer(f)

	first := r.reduce(sendAt(0, 0), []Require{req(1, 2)})
	if len(first) != 1 {
		t.Fatalf("first reduction = %v, want one use", first)
	}

	// Second send with no uses at all: stale slots from the first run
	// must not resurface.
	second := r.reduce(sendAt(0, 0), nil)
	if len(second) != 0 {
		t.Errorf("second reduction = %v, want empty", second)
	}
}
