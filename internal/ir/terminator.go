package ir

import (
	"sendcheck/internal/source"
)

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermIf
	TermUnreachable
)

type Terminator struct {
	Kind TermKind
	Span source.Span

	Return      ReturnTerm
	Goto        GotoTerm
	If          IfTerm
	Unreachable struct{}
}

type ReturnTerm struct {
	HasValue bool
	Value    ValueID
}

type GotoTerm struct {
	Target BlockID
}

type IfTerm struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

// Successors returns the blocks control can flow to.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermGoto:
		return []BlockID{t.Goto.Target}
	case TermIf:
		return []BlockID{t.If.Then, t.If.Else}
	}
	return nil
}

// ExitsFunction reports whether the terminator leaves the function.
func (t *Terminator) ExitsFunction() bool {
	return t.Kind == TermReturn
}
