package isolation

import (
	"sendcheck/internal/ir"
)

// IsNonSendableType reports whether values of the type need isolation
// tracking.
//
// The frontend's Sendable verdict is hardened in two ways: raw pointers
// and native handles are always tracked no matter what the type system
// says, and the synchronization token type is never tracked because it
// cannot outlive the function that created it.
func IsNonSendableType(m *ir.Module, id ir.TypeID) bool {
	t := m.Type(id)
	if t == nil {
		return true
	}
	switch t.Kind {
	case ir.TypeRawPtr, ir.TypeHandle:
		return true
	case ir.TypeToken:
		return false
	}
	return !t.Sendable
}
