package transfer

import (
	"sendcheck/internal/ir"
	"sendcheck/internal/region"
)

// reducer narrows the conflicting uses recorded against one send down
// to the first reachable use per control flow path; everything after
// the first use on a path is downstream noise.
//
// The per-block scratch slots are reused across sends through a
// generation counter instead of being cleared.
type reducer struct {
	f *ir.Func

	gen         uint32
	earliestGen []uint32
	earliest    []Require
	seenGen     []uint32
}

func newReducer(f *ir.Func) *reducer {
	n := len(f.Blocks)
	return &reducer{
		f:           f,
		earliestGen: make([]uint32, n),
		earliest:    make([]Require, n),
		seenGen:     make([]uint32, n),
	}
}

// reduce selects the final uses to report for one send site. The result
// is a subset of reqs; an empty result means every recorded use turned
// out to be unreachable from the send, which callers must escalate
// rather than drop.
func (r *reducer) reduce(site region.TransferSite, reqs []Require) []Require {
	r.gen++

	tb := site.Inst.Block
	ti := site.Inst.Index

	// A use strictly after the send in its own block dominates every
	// path out of it; nothing else can be first anywhere.
	if req, ok := earliestAt(reqs, tb, func(i int32) bool { return i > ti }); ok {
		return []Require{req}
	}

	// A use at or before the send in its own block is reachable only
	// around a back edge (the send instruction's own use fires only when
	// the loop carries the transfer back in). Seed it so the walk below
	// can accept it on re-entry.
	if req, ok := earliestAt(reqs, tb, func(i int32) bool { return i <= ti }); ok {
		r.seed(tb, req)
	}
	for _, req := range reqs {
		if req.Inst.Block == tb {
			continue
		}
		r.seed(req.Inst.Block, req)
	}

	// Breadth-first from the send's successors. A block with a seeded
	// use is accepted and not explored further: its use is first on
	// every path through it.
	var out []Require
	var queue []ir.BlockID
	mark := func(id ir.BlockID) {
		if r.seenGen[id] != r.gen {
			r.seenGen[id] = r.gen
			queue = append(queue, id)
		}
	}
	for _, succ := range r.f.Blocks[tb].Term.Successors() {
		mark(succ)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if r.earliestGen[id] == r.gen {
			out = append(out, r.earliest[id])
			continue
		}
		for _, succ := range r.f.Blocks[id].Term.Successors() {
			mark(succ)
		}
	}
	return out
}

func (r *reducer) seed(id ir.BlockID, req Require) {
	if r.earliestGen[id] == r.gen && r.earliest[id].Inst.Index <= req.Inst.Index {
		return
	}
	r.earliestGen[id] = r.gen
	r.earliest[id] = req
}

// earliestAt returns the lowest-indexed use in block b whose index
// satisfies pred.
func earliestAt(reqs []Require, b ir.BlockID, pred func(int32) bool) (Require, bool) {
	var best Require
	found := false
	for _, req := range reqs {
		if req.Inst.Block != b || !pred(req.Inst.Index) {
			continue
		}
		if !found || req.Inst.Index < best.Inst.Index {
			best = req
			found = true
		}
	}
	return best, found
}
