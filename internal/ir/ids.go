package ir

// FuncID identifies a function within a Module.
type FuncID uint32

// BlockID identifies a basic block within a Func.
type BlockID uint32

// ValueID identifies a value within a Func. Values are 1-based; the
// zero value marks the absence of a value.
type ValueID uint32

// NoValue marks the absence of a value.
const NoValue ValueID = 0

// IsValid reports whether the id references a value.
func (v ValueID) IsValid() bool {
	return v != NoValue
}

// TypeID identifies a type within a Module's type table.
type TypeID uint32

// DomainID identifies an isolation domain. Domains are 1-based; the
// zero value means "no domain".
type DomainID uint32

// NoDomain marks the absence of an isolation domain.
const NoDomain DomainID = 0

// IsValid reports whether the id references a domain.
func (d DomainID) IsValid() bool {
	return d != NoDomain
}

// GlobalID identifies a process-wide storage declaration within a Module.
type GlobalID uint32
