package ir

// DomainKind distinguishes process-wide domains from instance domains.
type DomainKind uint8

const (
	// DomainGlobal represents a process-wide exclusive-access domain.
	DomainGlobal DomainKind = iota
	// DomainInstance represents a per-instance exclusive-access domain.
	DomainInstance
)

// Domain describes an isolation domain declared by the frontend.
type Domain struct {
	Name string
	Kind DomainKind
}

// Global describes process-wide storage.
type Global struct {
	Name string
	Type TypeID

	// Domain is the fixed isolation domain guarding the storage, if any.
	Domain DomainID
}
