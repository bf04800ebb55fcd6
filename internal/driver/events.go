package driver

// Stage identifies a phase of the checking pipeline.
type Stage uint8

const (
	// StageLoad covers reading and decoding the module file.
	StageLoad Stage = iota
	// StageValidate covers structural validation of the decoded module.
	StageValidate
	// StageAnalyze covers the per-function isolation analysis.
	StageAnalyze
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageValidate:
		return "validate"
	case StageAnalyze:
		return "analyze"
	}
	return "unknown"
}

// Event is one progress notification. Analyze events carry the function
// just finished and the running done/total counters.
type Event struct {
	Stage Stage
	Func  string
	Done  int
	Total int
}

// Sink consumes progress events. A nil sink drops them. Analyze events
// arrive from worker goroutines; sinks must be safe for concurrent use.
type Sink func(Event)

func (s Sink) emit(e Event) {
	if s != nil {
		s(e)
	}
}
