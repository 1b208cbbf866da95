package wsconn

// ConnectionState describes where a connection is in its lifecycle.
// States only move forward: Connecting -> Connected -> Disconnecting -> Disconnected.
// A connection that reached Disconnected is inert and cannot be reused.
type ConnectionState byte

const (
	// StateConnecting is the initial state, set at construction before the
	// handshake completes.
	StateConnecting ConnectionState = iota

	// StateConnected means the connection is established and the receive
	// loop is running.
	StateConnected

	// StateDisconnecting means an explicit close is in progress.
	StateDisconnecting

	// StateDisconnected is terminal. No further events are produced.
	StateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

func (s ConnectionState) Is(other ConnectionState) bool {
	return s == other
}
