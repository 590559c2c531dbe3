package driver

import "time"

// PhaseStatus reports whether a job started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a job has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a job boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Err is the job failure, set only on PhaseEnd.
	Err error
}

// PhaseObserver receives job events emitted during Compile. It must be safe
// for concurrent use.
type PhaseObserver func(PhaseEvent)

// Emit calls o; a nil observer ignores the event.
func (o PhaseObserver) Emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
