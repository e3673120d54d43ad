package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/atmodyn/internal/grid"
)

// RunState is the orchestrator state machine.
type RunState int

const (
	Idle RunState = iota
	Running
	Completed
	Aborted
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

// Domain errors for run control.
var (
	// ErrFinished indicates a step request on a completed or aborted run.
	ErrFinished = errors.New("sim: run already finished")

	// ErrAborted indicates the run stopped on an external abort signal.
	ErrAborted = errors.New("sim: run aborted")
)

// StepError wraps a solver fault with the step it occurred on. The grid
// still holds the state of the last fully completed step.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.2fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }

// Clock tracks simulation time. Mutated only by the engine.
type Clock struct {
	Time float64 // seconds since run start
	Step int     // completed steps
	Dt   float64 // last step size
}

// Warning records a recoverable solver condition (Poisson non-convergence).
type Warning struct {
	Step    int
	Message string
}

// StepResult reports one completed step.
type StepResult struct {
	Step     int
	Dt       float64
	Warnings []Warning
}

// FinalStatus reports a finished run.
type FinalStatus struct {
	State          RunState
	StepsCompleted int
	Warnings       []Warning
	Metrics        map[string]float64
	Err            error
}

// Metric observes the evolving state once per completed step.
type Metric interface {
	Name() string
	Observe(g *grid.Grid, c Clock)
	Value() float64
	Reset()
}

// Observer receives a callback after every completed step.
type Observer interface {
	OnStep(g *grid.Grid, c Clock)
}
