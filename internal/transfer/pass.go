package transfer

import (
	"fmt"

	"sendcheck/internal/diag"
	"sendcheck/internal/ir"
	"sendcheck/internal/region"
)

// Options configure the per-function analysis.
type Options struct {
	// Strict escalates unclassified patterns to hard errors instead of
	// generic findings, so gaps in the analysis cannot pass unnoticed.
	Strict bool
}

// Analyze checks one function and reports findings through r.
//
// Findings never produce an error; the only error is the strict-mode
// escalation of an unclassified pattern. One finding never suppresses
// unrelated findings in the same function.
func Analyze(m *ir.Module, f *ir.Func, r diag.Reporter, opts Options) error {
	if len(f.Blocks) == 0 || f.Block(f.Entry) == nil {
		return nil
	}

	tr := region.Translate(m, f)
	states := region.Solve(f, tr)

	c := newCollector(m, f, tr.Values)
	for bi := range f.Blocks {
		if !states[bi].Live {
			continue
		}
		region.ReplayBlock(states[bi].Entry, tr.Ops[bi], tr.Values, c)
	}

	red := newReducer(f)
	for _, site := range c.siteOrder {
		finals := red.reduce(site, c.requires[site])
		if len(finals) == 0 {
			// Every recorded use fell outside the send's reachable
			// paths. Escalate instead of staying silent: a recorded
			// send must yield a use or an explicit fallback.
			c.UnknownPattern(region.Op{
				Kind:             region.OpTransfer,
				Elem:             site.Elem,
				Inst:             site.Inst,
				Operand:          site.Operand,
				IsClosureCapture: site.IsClosureCapture,
			})
			continue
		}
		for _, req := range finals {
			reportRequire(r, m, f, site, req)
		}
	}

	for _, v := range c.nonTransferrable {
		reportNonTransferrable(r, m, f, v)
	}
	for _, v := range c.inoutAtExit {
		reportInOutAtExit(r, m, f, tr.Values, v)
	}

	if opts.Strict && len(c.unknown) > 0 {
		op := c.unknown[0]
		return fmt.Errorf("%s: unclassified %s operation at %s (%d total)",
			f.Name, op.Kind, op.Inst, len(c.unknown))
	}
	for _, op := range c.unknown {
		reportUnknownPattern(r, f, op)
	}
	return nil
}
