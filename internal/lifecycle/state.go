package lifecycle

// State tracks progress through the request lifecycle. Transitions are
// strictly forward; StateEnded is terminal.
type State uint8

const (
	StateCreated State = iota
	StateInitialized
	StateBeforeRequest
	StateProcessing
	StateAfterRequest
	StateEnded
)

// String renders the state label used in logs and errors.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateBeforeRequest:
		return "beforeRequest"
	case StateProcessing:
		return "processing"
	case StateAfterRequest:
		return "afterRequest"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}
