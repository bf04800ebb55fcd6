package region

import (
	"sendcheck/internal/ir"
)

// BlockState is the converged dataflow state of one block.
type BlockState struct {
	// Live is set for blocks reachable from the entry. Dead blocks are
	// never replayed and never produce findings.
	Live bool

	// Entry is the converged partition at the block's start, nil for
	// dead blocks.
	Entry *Partition
}

// Solve runs the forward fixed-point over the function's operation
// logs and returns the converged entry partition of every block.
//
// Joins are monotone (grouping only grows, transfers only accumulate)
// and the element space is finite, so the loop terminates. Blocks are
// drained in first-in order so results do not depend on map iteration.
func Solve(f *ir.Func, tr *Translation) []BlockState {
	states := make([]BlockState, len(f.Blocks))
	if len(f.Blocks) == 0 {
		return states
	}

	// The prologue runs once, before the entry block. Seeding it here
	// keeps parameter regions stable when a back edge targets the entry
	// block: joins only add to the seed, replay never re-runs it.
	entry := int(f.Entry)
	seed := ReplayBlock(NewPartition(), tr.Prologue, tr.Values, NopHandler{})
	states[entry] = BlockState{Live: true, Entry: seed}

	queue := []ir.BlockID{f.Entry}
	queued := make([]bool, len(f.Blocks))
	queued[entry] = true

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		b := &f.Blocks[id]
		exit := ReplayBlock(states[id].Entry, tr.Ops[id], tr.Values, NopHandler{})

		for _, succ := range b.Term.Successors() {
			s := &states[succ]
			var next *Partition
			if s.Entry == nil {
				next = exit.Clone()
			} else {
				next = s.Entry.Join(exit)
				if next.Equal(s.Entry) {
					continue
				}
			}
			s.Live = true
			s.Entry = next
			if !queued[succ] {
				queue = append(queue, succ)
				queued[succ] = true
			}
		}
	}
	return states
}

// ReplayBlock applies one block's operation log to a clone of entry,
// reporting violations through h, and returns the exit partition. The
// input partition is not mutated.
func ReplayBlock(entry *Partition, ops []Op, values *ValueMap, h Handler) *Partition {
	work := entry.Clone()
	ev := &Evaluator{Part: work, Values: values, Handler: h}
	for _, op := range ops {
		ev.Apply(op)
	}
	return work
}
