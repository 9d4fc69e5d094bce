package browser

// State is the local lifecycle state of a browser handle. It is advanced
// only by the handle's owner; the lifecycle is single-writer by design.
type State int

const (
	// StateNew means Start has not been called.
	StateNew State = iota

	// StateCreating means the remote session is being requested.
	StateCreating

	// StateWaiting means the session exists and is being polled for
	// readiness.
	StateWaiting

	// StateReady means the browser connection is established and usable.
	StateReady

	// StateFailed means Start failed; the handle can only be closed.
	StateFailed

	// StateClosing means teardown is in progress.
	StateClosing

	// StateClosed means all local resources are released. Terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateCreating:
		return "CREATING"
	case StateWaiting:
		return "WAITING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
