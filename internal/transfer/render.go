package transfer

import (
	"fmt"

	"sendcheck/internal/diag"
	"sendcheck/internal/ir"
	"sendcheck/internal/region"
)

func reportRequire(r diag.Reporter, m *ir.Module, f *ir.Func, site region.TransferSite, req Require) {
	name := f.ValueName(site.Operand)
	sentNote := fmt.Sprintf("'%s' is sent here", name)
	if site.IsClosureCapture {
		sentNote = fmt.Sprintf("'%s' is captured by a concurrency-safe closure here", name)
	}

	switch req.Kind {
	case RequireInOutReinit:
		diag.ReportError(r, diag.IsoInoutNotReinitialized, req.Inst.Span(f),
			fmt.Sprintf("'%s' must be reinitialized before function exit after being sent", name)).
			WithNote(site.Inst.Span(f), sentNote).
			Emit()
	default:
		diag.ReportError(r, diag.IsoUseAfterSend, req.Inst.Span(f),
			fmt.Sprintf("'%s' is used after being sent to another isolation domain", name)).
			WithNote(site.Inst.Span(f), sentNote).
			Emit()
	}
}

func reportNonTransferrable(r diag.Reporter, m *ir.Module, f *ir.Func, v NonTransferrable) {
	b := diag.ReportError(r, diag.IsoSendNonSendable, v.Inst.Span(f),
		fmt.Sprintf("cannot send '%s': its region is %s",
			f.ValueName(v.Operand), v.Isolation.ForDiagnostics(m, f)))
	if v.Conflict.IsValue {
		if rec := f.Value(v.Conflict.Value); rec != nil {
			b.WithNote(rec.Span, fmt.Sprintf("'%s' carries the domain binding", f.ValueName(v.Conflict.Value)))
		}
	} else {
		b.WithNote(v.Conflict.Inst.Span(f), "the domain binding is introduced here")
	}
	b.Emit()
}

func reportInOutAtExit(r diag.Reporter, m *ir.Module, f *ir.Func, values *region.ValueMap, v InOutAtExit) {
	name := f.ValueName(values.Representative(v.Elem))
	diag.ReportError(r, diag.IsoInoutNotDisconnected, v.Exit.Span(f),
		fmt.Sprintf("'%s' must be disconnected at function exit, found %s",
			name, v.Isolation.ForDiagnostics(m, f))).
		Emit()
}

func reportUnknownPattern(r diag.Reporter, f *ir.Func, op region.Op) {
	diag.ReportError(r, diag.IsoUnknownPattern, op.Inst.Span(f),
		fmt.Sprintf("'%s' contains a pattern the isolation analysis does not support; please report this", f.Name)).
		Emit()
}
