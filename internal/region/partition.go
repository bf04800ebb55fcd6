package region

import (
	"fmt"
	"sort"
	"strings"
)

// Partition maps elements to regions and tracks which regions carry
// outstanding transfers. All mutation goes through the evaluator; the
// solver stores converged entry partitions and the replay layer clones
// them before applying a block's operations.
type Partition struct {
	elemToRegion map[Element]Region
	transfers    map[Region][]TransferSite
	next         Region
}

// NewPartition creates an empty partition.
func NewPartition() *Partition {
	return &Partition{
		elemToRegion: make(map[Element]Region),
		transfers:    make(map[Region][]TransferSite),
		next:         1,
	}
}

// Clone returns a deep copy.
func (p *Partition) Clone() *Partition {
	out := &Partition{
		elemToRegion: make(map[Element]Region, len(p.elemToRegion)),
		transfers:    make(map[Region][]TransferSite, len(p.transfers)),
		next:         p.next,
	}
	for e, r := range p.elemToRegion {
		out.elemToRegion[e] = r
	}
	for r, sites := range p.transfers {
		out.transfers[r] = append([]TransferSite(nil), sites...)
	}
	return out
}

// Tracks reports whether the element is present.
func (p *Partition) Tracks(e Element) bool {
	_, ok := p.elemToRegion[e]
	return ok
}

// RegionOf returns the region of e.
func (p *Partition) RegionOf(e Element) (Region, bool) {
	r, ok := p.elemToRegion[e]
	return r, ok
}

// AssignFresh places e into a new singleton region, leaving any
// previous region behind.
func (p *Partition) AssignFresh(e Element) {
	p.elemToRegion[e] = p.next
	p.next++
}

// Assign rebinds dst into src's region. A missing src is treated as
// fresh for both.
func (p *Partition) Assign(dst, src Element) {
	r, ok := p.elemToRegion[src]
	if !ok {
		p.AssignFresh(src)
		r = p.elemToRegion[src]
	}
	p.elemToRegion[dst] = r
}

// Merge unions the regions of a and b. The smaller region id survives
// so repeated runs produce identical partitions.
func (p *Partition) Merge(a, b Element) {
	ra, ok := p.elemToRegion[a]
	if !ok {
		p.AssignFresh(a)
		ra = p.elemToRegion[a]
	}
	rb, ok := p.elemToRegion[b]
	if !ok {
		p.AssignFresh(b)
		rb = p.elemToRegion[b]
	}
	p.mergeRegions(ra, rb)
}

func (p *Partition) mergeRegions(a, b Region) {
	if a == b {
		return
	}
	into, from := a, b
	if from < into {
		into, from = from, into
	}
	for e, r := range p.elemToRegion {
		if r == from {
			p.elemToRegion[e] = into
		}
	}
	if sites := p.transfers[from]; len(sites) > 0 {
		p.transfers[into] = appendNewSites(p.transfers[into], sites)
		delete(p.transfers, from)
	}
}

func appendNewSites(dst, src []TransferSite) []TransferSite {
	for _, s := range src {
		seen := false
		for _, d := range dst {
			if d == s {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, s)
		}
	}
	return dst
}

// Transfer marks e's region as handed off at site.
func (p *Partition) Transfer(e Element, site TransferSite) {
	r, ok := p.elemToRegion[e]
	if !ok {
		p.AssignFresh(e)
		r = p.elemToRegion[e]
	}
	p.transfers[r] = appendNewSites(p.transfers[r], []TransferSite{site})
}

// UndoTransfer clears outstanding transfers of e's region.
func (p *Partition) UndoTransfer(e Element) {
	if r, ok := p.elemToRegion[e]; ok {
		delete(p.transfers, r)
	}
}

// TransferSites returns the outstanding transfers of e's region.
func (p *Partition) TransferSites(e Element) []TransferSite {
	r, ok := p.elemToRegion[e]
	if !ok {
		return nil
	}
	return p.transfers[r]
}

// RegionMembers returns all elements sharing e's region, sorted.
func (p *Partition) RegionMembers(e Element) []Element {
	r, ok := p.elemToRegion[e]
	if !ok {
		return nil
	}
	var out []Element
	for member, mr := range p.elemToRegion {
		if mr == r {
			out = append(out, member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Elements returns all tracked elements, sorted.
func (p *Partition) Elements() []Element {
	out := make([]Element, 0, len(p.elemToRegion))
	for e := range p.elemToRegion {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// canonical maps every element to the smallest element of its region,
// giving a representation independent of internal region numbering.
func (p *Partition) canonical() map[Element]Element {
	regionMin := make(map[Region]Element, len(p.transfers))
	for e, r := range p.elemToRegion {
		if cur, ok := regionMin[r]; !ok || e < cur {
			regionMin[r] = e
		}
	}
	out := make(map[Element]Element, len(p.elemToRegion))
	for e, r := range p.elemToRegion {
		out[e] = regionMin[r]
	}
	return out
}

// Equal reports whether two partitions group the same elements into the
// same regions with the same outstanding transfers.
func (p *Partition) Equal(other *Partition) bool {
	if len(p.elemToRegion) != len(other.elemToRegion) {
		return false
	}
	c1, c2 := p.canonical(), other.canonical()
	for e, rep := range c1 {
		if c2[e] != rep {
			return false
		}
	}
	// Compare transfer sets keyed by canonical representative.
	t1 := p.canonicalTransfers(c1)
	t2 := other.canonicalTransfers(c2)
	if len(t1) != len(t2) {
		return false
	}
	for rep, sites := range t1 {
		otherSites, ok := t2[rep]
		if !ok || len(sites) != len(otherSites) {
			return false
		}
		for i := range sites {
			if sites[i] != otherSites[i] {
				return false
			}
		}
	}
	return true
}

func (p *Partition) canonicalTransfers(canon map[Element]Element) map[Element][]TransferSite {
	out := make(map[Element][]TransferSite, len(p.transfers))
	for e, r := range p.elemToRegion {
		rep := canon[e]
		if rep != e {
			continue
		}
		if sites := p.transfers[r]; len(sites) > 0 {
			sorted := append([]TransferSite(nil), sites...)
			sort.Slice(sorted, func(i, j int) bool {
				a, b := sorted[i], sorted[j]
				if a.Inst.Block != b.Inst.Block {
					return a.Inst.Block < b.Inst.Block
				}
				if a.Inst.Index != b.Inst.Index {
					return a.Inst.Index < b.Inst.Index
				}
				return a.Elem < b.Elem
			})
			out[rep] = sorted
		}
	}
	return out
}

// Join merges the region structure of other into a copy of p: elements
// grouped together in either input are grouped together in the result,
// and outstanding transfers are unioned. Used by the solver at control
// flow joins.
func (p *Partition) Join(other *Partition) *Partition {
	out := p.Clone()
	for _, e := range other.Elements() {
		if !out.Tracks(e) {
			out.AssignFresh(e)
		}
	}
	// Unify groups of other inside out, walking regions in sorted order.
	groups := make(map[Region][]Element)
	for e, r := range other.elemToRegion {
		groups[r] = append(groups[r], e)
	}
	regions := make([]Region, 0, len(groups))
	for r := range groups {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	for _, r := range regions {
		members := groups[r]
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		for _, m := range members[1:] {
			out.Merge(members[0], m)
		}
		if sites := other.transfers[r]; len(sites) > 0 {
			outRegion := out.elemToRegion[members[0]]
			out.transfers[outRegion] = appendNewSites(out.transfers[outRegion], sites)
		}
	}
	return out
}

// String renders the partition for debug output: sorted regions with
// their members, transferred regions marked with '!'.
func (p *Partition) String() string {
	canon := p.canonical()
	groups := make(map[Element][]Element)
	for e, rep := range canon {
		groups[rep] = append(groups[rep], e)
	}
	reps := make([]Element, 0, len(groups))
	for rep := range groups {
		reps = append(reps, rep)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i] < reps[j] })

	var b strings.Builder
	b.WriteByte('{')
	for i, rep := range reps {
		if i > 0 {
			b.WriteByte(' ')
		}
		members := groups[rep]
		sort.Slice(members, func(x, y int) bool { return members[x] < members[y] })
		b.WriteByte('(')
		for j, m := range members {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", m)
		}
		b.WriteByte(')')
		if len(p.transfers[p.elemToRegion[rep]]) > 0 {
			b.WriteByte('!')
		}
	}
	b.WriteByte('}')
	return b.String()
}
