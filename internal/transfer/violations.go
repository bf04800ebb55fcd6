package transfer

import (
	"sendcheck/internal/ir"
	"sendcheck/internal/isolation"
	"sendcheck/internal/region"
)

// RequireKind distinguishes how a conflicting use is phrased.
type RequireKind uint8

const (
	// RequireUse is an ordinary observation of a sent value.
	RequireUse RequireKind = iota
	// RequireInOutReinit is an exit-point observation of a by-reference
	// sending parameter that was never reassigned after being sent.
	RequireInOutReinit
)

// Require is one conflicting use recorded against a send site.
type Require struct {
	Inst region.InstRef
	Kind RequireKind
}

// Conflict names what bound a non-sendable region to its domain: a
// concrete value when one exists, otherwise the instruction that
// introduced the binding.
type Conflict struct {
	IsValue bool
	Value   ir.ValueID
	Inst    region.InstRef
}

// NonTransferrable is one attempt to send a domain-bound region.
type NonTransferrable struct {
	Inst      region.InstRef
	Operand   ir.ValueID
	Conflict  Conflict
	Isolation isolation.Info
}

// InOutAtExit is one by-reference sending parameter still domain-bound
// at a function exit.
type InOutAtExit struct {
	Exit      region.InstRef
	Elem      region.Element
	Isolation isolation.Info
}
