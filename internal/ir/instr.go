package ir

import (
	"sendcheck/internal/source"
)

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrAlloc represents a fresh allocation.
	InstrAlloc InstrKind = iota
	// InstrMove represents a move/assignment between values.
	InstrMove
	// InstrField represents a field or enum-payload projection.
	InstrField
	// InstrGlobalAddr represents a reference to process-wide storage.
	InstrGlobalAddr
	// InstrFuncRef represents a reference to a function.
	InstrFuncRef
	// InstrClosure represents closure formation over captured values.
	InstrClosure
	// InstrCall represents a call.
	InstrCall
	// InstrNop represents a no-op instruction.
	InstrNop
)

// Instr represents one instruction.
type Instr struct {
	Kind InstrKind
	Span source.Span

	Alloc      AllocInstr
	Move       MoveInstr
	Field      FieldInstr
	GlobalAddr GlobalAddrInstr
	FuncRef    FuncRefInstr
	Closure    ClosureInstr
	Call       CallInstr
}

// AllocInstr represents a fresh allocation.
type AllocInstr struct {
	Dst ValueID
}

// MoveInstr represents a move/assignment.
type MoveInstr struct {
	Dst ValueID
	Src ValueID
}

// FieldInstr represents a field or enum-payload projection.
type FieldInstr struct {
	Dst    ValueID
	Object ValueID
	Name   string
}

// GlobalAddrInstr represents a reference to process-wide storage.
type GlobalAddrInstr struct {
	Dst    ValueID
	Global GlobalID
}

// FuncRefInstr represents a reference to a function.
type FuncRefInstr struct {
	Dst ValueID
	Fn  FuncID
}

// ClosureContext is the isolation of the context a closure was formed
// in, as resolved by the frontend.
type ClosureContext struct {
	// Domain is the creation context's domain, NoDomain for a
	// nonisolated context.
	Domain DomainID
}

// ClosureInstr represents closure formation.
type ClosureInstr struct {
	Dst      ValueID
	Fn       FuncID
	Captures []ValueID
	Context  ClosureContext
}

// CrossingIso describes one side of an isolation-crossing call.
type CrossingIso struct {
	Nonisolated bool
	Domain      DomainID
}

// Crossing is the isolation-crossing oracle's verdict for a call: it is
// present exactly when caller and callee isolation differ.
type Crossing struct {
	Caller CrossingIso
	Callee CrossingIso
}

// CallArg is one call argument with its callee-side conventions.
type CallArg struct {
	Value ValueID
	// Sending marks an argument whose ownership transfers on call.
	Sending bool
	// Isolated marks the receiver carrying the callee's domain instance.
	Isolated bool
}

// CallInstr represents a call.
type CallInstr struct {
	// Dst is NoValue for calls whose result is unused or void.
	Dst    ValueID
	Callee string
	Args   []CallArg

	// Crossing is nil when the call stays within the caller's domain.
	Crossing *Crossing
}

// Dst returns the value the instruction defines, or NoValue.
func (in *Instr) Dst() ValueID {
	switch in.Kind {
	case InstrAlloc:
		return in.Alloc.Dst
	case InstrMove:
		return in.Move.Dst
	case InstrField:
		return in.Field.Dst
	case InstrGlobalAddr:
		return in.GlobalAddr.Dst
	case InstrFuncRef:
		return in.FuncRef.Dst
	case InstrClosure:
		return in.Closure.Dst
	case InstrCall:
		return in.Call.Dst
	}
	return NoValue
}
