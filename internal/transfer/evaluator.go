package transfer

import (
	"sendcheck/internal/ir"
	"sendcheck/internal/isolation"
	"sendcheck/internal/region"
)

// collector implements region.Handler, recording raw violation
// candidates during the diagnostic replay. Blocks are replayed in
// document order, so everything the collector stores is already
// deterministic; it keeps first-seen order instead of re-sorting.
type collector struct {
	m      *ir.Module
	f      *ir.Func
	values *region.ValueMap

	// requires groups conflicting uses by the send that made them
	// conflicts. siteOrder preserves first-seen site order for
	// deterministic reporting.
	requires  map[region.TransferSite][]Require
	siteOrder []region.TransferSite

	nonTransferrable []NonTransferrable
	inoutAtExit      []InOutAtExit
	unknown          []region.Op
}

func newCollector(m *ir.Module, f *ir.Func, values *region.ValueMap) *collector {
	return &collector{
		m:        m,
		f:        f,
		values:   values,
		requires: make(map[region.TransferSite][]Require),
	}
}

func (c *collector) addRequire(site region.TransferSite, req Require) {
	if _, seen := c.requires[site]; !seen {
		c.siteOrder = append(c.siteOrder, site)
	}
	for _, have := range c.requires[site] {
		if have == req {
			return
		}
	}
	c.requires[site] = append(c.requires[site], req)
}

func (c *collector) UseAfterTransfer(op region.Op, elem region.Element, site region.TransferSite) {
	if c.isSafeProjection(op.Inst) && !site.IsClosureCapture {
		// Reading concurrency-safe data out of a sent container is not a
		// race by itself. Captures are exempt from the exemption: the
		// closure may still mutate the container.
		return
	}
	c.addRequire(site, Require{Inst: op.Inst, Kind: RequireUse})
}

// isSafeProjection reports whether the observing instruction is a field
// projection whose result type is safe to share.
func (c *collector) isSafeProjection(ref region.InstRef) bool {
	in := ref.Instr(c.f)
	if in == nil || in.Kind != ir.InstrField {
		return false
	}
	v := c.f.Value(in.Field.Dst)
	return v != nil && !isolation.IsNonSendableType(c.m, v.Type)
}

func (c *collector) TransferNonTransferrable(op region.Op, elem, conflict region.Element, info isolation.Info) {
	c.nonTransferrable = append(c.nonTransferrable, NonTransferrable{
		Inst:      op.Inst,
		Operand:   op.Operand,
		Conflict:  c.resolveConflict(elem, conflict),
		Isolation: info,
	})
}

// resolveConflict picks what diagnostics point at: the conflicting
// element's representative value when it has one, else the instruction
// that introduced the domain binding, else the sent value itself.
func (c *collector) resolveConflict(elem, conflict region.Element) Conflict {
	if conflict != region.NoElement {
		if v, ok := c.values.MaybeRepresentative(conflict); ok {
			return Conflict{IsValue: true, Value: v}
		}
		if ref, ok := c.values.MaybeDomainIntroducingInst(conflict); ok {
			return Conflict{Inst: ref}
		}
	}
	return Conflict{IsValue: true, Value: c.values.Representative(elem)}
}

func (c *collector) InOutNotDisconnectedAtExit(op region.Op, elem region.Element, info isolation.Info) {
	c.inoutAtExit = append(c.inoutAtExit, InOutAtExit{
		Exit:      op.Inst,
		Elem:      elem,
		Isolation: info,
	})
}

func (c *collector) InOutNotReinitialized(op region.Op, elem region.Element, site region.TransferSite) {
	c.addRequire(site, Require{Inst: op.Inst, Kind: RequireInOutReinit})
}

func (c *collector) UnknownPattern(op region.Op) {
	for _, have := range c.unknown {
		if have == op {
			return
		}
	}
	c.unknown = append(c.unknown, op)
}
