package submission

// State is the transient UI state of one form instance.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name so JSON payloads stay readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Transition records a single state change.
type Transition struct {
	From State
	To   State
}

// Observer receives every transition of a Handler.
type Observer func(Transition)

func allowedTransition(from, to State) bool {
	switch {
	case from == StateIdle && to == StateSubmitting:
		return true
	case from == StateSubmitting && (to == StateSuccess || to == StateIdle):
		return true
	case from == StateSuccess && to == StateIdle:
		return true
	default:
		return false
	}
}
