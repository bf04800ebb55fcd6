package ir

// TypeKind enumerates nominal type categories the checker cares about.
type TypeKind uint8

const (
	// TypeStruct represents a struct type.
	TypeStruct TypeKind = iota
	// TypeEnum represents an enum type.
	TypeEnum
	// TypeActor represents an exclusive-access domain type.
	TypeActor
	// TypeFn represents a function type.
	TypeFn
	// TypeRawPtr represents the builtin raw pointer type.
	TypeRawPtr
	// TypeHandle represents the builtin native handle type.
	TypeHandle
	// TypeToken represents the builtin synchronization token type.
	TypeToken
)

// Type describes a nominal type as resolved by the frontend.
type Type struct {
	Name string
	Kind TypeKind

	// Sendable is the frontend's verdict on whether values of this type
	// are safe to share across isolation domains. The checker hardens
	// this verdict for a few builtins, see isolation.IsNonSendableType.
	Sendable bool

	// Domain is the fixed isolation domain the nominal is declared
	// under, if any. For TypeActor this is the instance domain of the
	// type itself.
	Domain DomainID
}
