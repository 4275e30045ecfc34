package fluentify

// Phase is the lifecycle position of a generation session.
type Phase int

const (
	PhaseIdle       Phase = iota // No session has been started, or Reset was called.
	PhaseConnecting              // Start called; waiting for the first byte.
	PhaseStreaming               // At least one read succeeded.
	PhaseComplete                // course_complete received.
	PhaseErrored                 // Error frame, transport failure, or early EOF.
	PhaseCancelled               // Superseded by Start or Reset, or closed.
)

// Terminal reports whether no further state changes can come from a
// session in this phase.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseErrored || p == PhaseCancelled
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseStreaming:
		return "streaming"
	case PhaseComplete:
		return "complete"
	case PhaseErrored:
		return "errored"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
