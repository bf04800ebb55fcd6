package diag

import (
	"sort"

	"sendcheck/internal/source"
)

// Bag collects the diagnostics of one check run. The driver gives every
// function its own bag and merges them in function order, so a bag never
// needs locking.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag creates a bag that keeps at most limit diagnostics.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, limit),
		limit: limit,
	}
}

// Add appends a diagnostic and reports whether it was kept. Past the
// limit everything is dropped; a truncated run still fails the check
// through the diagnostics already kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any kept diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any kept diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Len returns the number of kept diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the kept diagnostics. The slice aliases the bag's
// storage; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends another bag's diagnostics, growing the limit so
// per-function findings are never dropped at the merge point.
func (b *Bag) Merge(other *Bag) {
	if total := len(b.items) + len(other.items); total > b.limit {
		b.limit = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, span, severity (errors first) and
// code, so output is deterministic no matter how many workers analyzed
// the module.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

type bagKey struct {
	code Code
	span source.Span
}

// Dedup drops repeated findings with the same code and primary span.
// Distinct sends of one region can resolve to the same use site; the
// reader needs it once.
func (b *Bag) Dedup() {
	seen := make(map[bagKey]bool, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := bagKey{code: d.Code, span: d.Primary}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
