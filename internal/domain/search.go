package domain

// SearchRequest is one dispatched username search. It is built once by the
// dispatcher and never mutated afterwards.
type SearchRequest struct {
	RawUsername string `validate:"required,sherlock_username"`
	Similar     bool
	Platform    Platform
	RequesterID string
	RequestID   string
}

// ProcessOutcome is the captured result of one tool invocation
type ProcessOutcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Succeeded reports whether the tool exited cleanly
func (o ProcessOutcome) Succeeded() bool {
	return o.ExitCode == 0 && !o.TimedOut
}

// FoundEntry is a single "found" line reported by the tool
type FoundEntry struct {
	PlatformLabel string
	URL           string
}
