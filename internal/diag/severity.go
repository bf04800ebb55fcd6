package diag

// Severity defines how a diagnostic affects the run's outcome: errors
// fail the check, warnings surface degraded analysis (unclassified
// patterns), info is reserved for loader chatter.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError covers findings and load/validation failures; any error
	// in the bag makes the check exit nonzero.
	SevError
)

// String returns the uppercase form used in logs and test failures.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lowercase form rendered in diagnostics output.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}
