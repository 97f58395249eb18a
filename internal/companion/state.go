package companion

// State is the lifecycle position of a Server. It only moves forward:
// Listening, then Connected, then Closed.
type State int32

const (
	StateListening State = iota
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
