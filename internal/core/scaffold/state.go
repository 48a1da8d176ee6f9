package scaffold

import "errors"

// ErrInvalidTransition is returned when the orchestrator is asked to move to
// a state other than the one directly after its current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// State is a phase of a scaffolding run. States are strictly sequential.
type State int

const (
	// StateInit loads the existing descriptor and preset answers.
	StateInit State = iota
	// StateCollecting asks for every field not already known.
	StateCollecting
	// StateValidating applies defaults and checks the complete Props.
	StateValidating
	// StateSynthesizing resolves dependencies, config artifacts and render jobs.
	StateSynthesizing
	// StateEmitting hands artifacts and jobs to the Emitter.
	StateEmitting
	// StateInstallingRuntime installs runtime dependencies.
	StateInstallingRuntime
	// StateInstallingDev installs development dependencies.
	StateInstallingDev
	// StateDone is terminal. It is reached only when every phase succeeded.
	StateDone
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCollecting:
		return "collecting"
	case StateValidating:
		return "validating"
	case StateSynthesizing:
		return "synthesizing"
	case StateEmitting:
		return "emitting"
	case StateInstallingRuntime:
		return "installing-runtime"
	case StateInstallingDev:
		return "installing-dev"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
