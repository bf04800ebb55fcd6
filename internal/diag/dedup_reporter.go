package diag

import "sendcheck/internal/source"

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter filters exact repeats before they reach the underlying
// reporter. The analysis can observe one violation several times (the
// same region conflict seen from more than one send), and repeats with
// identical code, span and message carry no extra information.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]bool
}

// NewDedupReporter wraps next with repeat filtering.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[reportKey]bool),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := reportKey{code: code, sev: sev, span: primary, msg: msg}
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
