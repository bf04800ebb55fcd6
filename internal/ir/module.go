package ir

// Module is a self-contained unit of lowered functions plus the tables
// they reference.
type Module struct {
	Name string

	// Files maps source.FileID (by index) to frontend file paths.
	Files []string

	Types []Type
	// Domains is 1-based: index 0 is a sentinel entry.
	Domains []Domain
	Globals []Global
	Funcs   []Func
}

// Type returns the type record for id, or nil when out of range.
func (m *Module) Type(id TypeID) *Type {
	if m == nil || int(id) >= len(m.Types) {
		return nil
	}
	return &m.Types[id]
}

// Domain returns the domain record for id, or nil for NoDomain and
// out-of-range ids.
func (m *Module) Domain(id DomainID) *Domain {
	if m == nil || id == NoDomain || int(id) >= len(m.Domains) {
		return nil
	}
	return &m.Domains[id]
}

// GlobalDecl returns the global record for id, or nil when out of range.
func (m *Module) GlobalDecl(id GlobalID) *Global {
	if m == nil || int(id) >= len(m.Globals) {
		return nil
	}
	return &m.Globals[id]
}

// Func returns the function record for id, or nil when out of range.
func (m *Module) Func(id FuncID) *Func {
	if m == nil || int(id) >= len(m.Funcs) {
		return nil
	}
	return &m.Funcs[id]
}

// DomainName returns a printable name for the domain.
func (m *Module) DomainName(id DomainID) string {
	if d := m.Domain(id); d != nil {
		return d.Name
	}
	return "<none>"
}
