package wsconn

import "fmt"

type EventType byte

const (
	// EventConnected is always the first event on the stream.
	EventConnected EventType = iota + 1

	// EventMessage carries one inbound message.
	EventMessage

	// EventDisconnected is the terminal event of an orderly close.
	EventDisconnected

	// EventError is the terminal event of an unrecoverable receive failure.
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventMessage:
		return "message"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further events follow this one.
func (t EventType) IsTerminal() bool {
	return t == EventDisconnected || t == EventError
}

// Event is one entry of the connection's ordered event stream. The Type
// tag selects which of the remaining fields carry data: Message for
// EventMessage, Code and Reason for EventDisconnected, Err for EventError.
type Event struct {
	Type    EventType
	Message Message
	Code    CloseCode
	Reason  string
	Err     error
}

func (e Event) String() string {
	switch e.Type {
	case EventMessage:
		return fmt.Sprintf("Event{type=%s,message=%s}", e.Type, e.Message)
	case EventDisconnected:
		return fmt.Sprintf("Event{type=%s,code=%d,reason=%s}", e.Type, e.Code, e.Reason)
	case EventError:
		return fmt.Sprintf("Event{type=%s,err=%s}", e.Type, e.Err)
	default:
		return fmt.Sprintf("Event{type=%s}", e.Type)
	}
}

func newConnectedEvent() Event {
	return Event{Type: EventConnected}
}

func newMessageEvent(m Message) Event {
	return Event{Type: EventMessage, Message: m}
}

func newDisconnectedEvent(code CloseCode, reason string) Event {
	return Event{Type: EventDisconnected, Code: code, Reason: reason}
}

func newErrorEvent(err error) Event {
	return Event{Type: EventError, Err: err}
}
