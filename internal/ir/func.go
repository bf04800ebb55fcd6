package ir

import (
	"sendcheck/internal/source"
)

// ParamConv is a bit set of parameter passing conventions.
type ParamConv uint8

const (
	// ConvIsolated marks the parameter that carries the callee's
	// exclusive-access domain instance (including implicit receivers).
	ConvIsolated ParamConv = 1 << iota
	// ConvSending marks a parameter whose ownership is handed to the
	// callee on call.
	ConvSending
	// ConvInoutSending marks a by-reference parameter the callee may
	// send elsewhere; the callee must restore it to a disconnected
	// state on every exit path.
	ConvInoutSending
	// ConvIndirectResult marks an indirect result slot.
	ConvIndirectResult
	// ConvIndirectError marks an indirect error slot.
	ConvIndirectError
	// ConvClosureCapture marks a parameter lowered from a closure capture.
	ConvClosureCapture
)

// Has reports whether all bits of c are set.
func (p ParamConv) Has(c ParamConv) bool {
	return p&c == c
}

// Param binds a function parameter to its value and conventions.
type Param struct {
	Value ValueID
	Conv  ParamConv
}

// ContextKind describes special function contexts that change how
// parameter isolation is derived.
type ContextKind uint8

const (
	// ContextNone is an ordinary function body.
	ContextNone ContextKind = iota
	// ContextAllocator is a constructor/initializer body. The instance
	// whose domain has not been established yet is still under
	// construction there.
	ContextAllocator
	// ContextPropertyInit is a property initializer that runs under the
	// enclosing type's domain.
	ContextPropertyInit
)

// FuncIsolation is the function's declared isolation.
type FuncIsolation struct {
	// Nonisolated is set for functions explicitly marked as crossing no
	// boundary.
	Nonisolated bool

	// Domain is the declared domain, if any. For instance-isolated
	// functions the receiving parameter additionally carries
	// ConvIsolated.
	Domain DomainID
}

// Value describes one tracked SSA value of a function.
type Value struct {
	ID   ValueID
	Name string
	Type TypeID
	Span source.Span
}

// Func is one lowered function.
type Func struct {
	ID   FuncID
	Name string
	Span source.Span

	// TypeSendable is set when the function's own type is safe to share
	// across domains (concurrency-safe closures).
	TypeSendable bool

	Context   ContextKind
	Isolation FuncIsolation

	Params []Param
	// Values is 1-based: index 0 is a sentinel entry.
	Values []Value
	Blocks []Block
	Entry  BlockID
}

// Value returns the value record for id, or nil for invalid ids.
func (f *Func) Value(id ValueID) *Value {
	if f == nil || id == NoValue || int(id) >= len(f.Values) {
		return nil
	}
	return &f.Values[id]
}

// Block returns the block with the given id, or nil when out of range.
func (f *Func) Block(id BlockID) *Block {
	if f == nil || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// IsolatedParam returns the value of the parameter marked ConvIsolated,
// or NoValue when the function has none.
func (f *Func) IsolatedParam() ValueID {
	for _, p := range f.Params {
		if p.Conv.Has(ConvIsolated) {
			return p.Value
		}
	}
	return NoValue
}

// ValueName returns a human-readable name for the value, falling back
// to a positional placeholder.
func (f *Func) ValueName(id ValueID) string {
	if v := f.Value(id); v != nil && v.Name != "" {
		return v.Name
	}
	return "value"
}
