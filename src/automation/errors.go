package automation

import "fmt"

// Kind classifies a conversion failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotInstalled
	KindAlreadyRunning
	KindLaunch
	KindReadinessTimeout
	KindTriggerFailed
	KindFieldPopulation
	KindSaveTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotInstalled:
		return "not installed"
	case KindAlreadyRunning:
		return "already running"
	case KindLaunch:
		return "launch failure"
	case KindReadinessTimeout:
		return "readiness timeout"
	case KindTriggerFailed:
		return "trigger failed"
	case KindFieldPopulation:
		return "field population failure"
	case KindSaveTimeout:
		return "save timeout"
	default:
		return "unexpected fault"
	}
}

// Failure is a typed conversion error carrying a human-readable cause.
// Components return *Failure instead of letting faults escape; the
// orchestrator converts it to the terminal Outcome.
type Failure struct {
	Kind Kind
	Msg  string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Msg, f.Err)
	}
	return f.Msg
}

func (f *Failure) Unwrap() error { return f.Err }

func failf(kind Kind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
