package wsconn

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/fasthttp/websocket"
)

type (
	// OpenParams carries everything needed to begin a connection.
	OpenParams struct {
		URL          url.URL
		Header       http.Header
		Subprotocols []string

		// Dialer configures the underlying websocket transport. Nil uses
		// the library default.
		Dialer *websocket.Dialer

		// SubscriberBuffer is the per-subscriber event buffer size. Zero
		// uses the default.
		SubscriberBuffer int

		// LogWriter enables logging when set. Nil disables it.
		LogWriter io.Writer
	}

	// WebSocketConnection owns one physical connection: its state, its
	// transport handle and its event stream. State moves forward only and
	// the stream carries exactly one terminal event, either Disconnected
	// or Error. Instances are not reusable after reaching Disconnected.
	//
	// All methods are safe for concurrent use. The mutex guards the state
	// and is never held across transport I/O; the stream serializes its
	// own termination so that the terminal event is always last.
	WebSocketConnection struct {
		mu   sync.Mutex
		st   ConnectionState
		sink *eventStream

		transport  Transport
		recvCancel context.CancelFunc
		logger     logger
	}
)

// Open begins a connection towards params.URL over the websocket transport,
// marks it connected, emits the Connected event and starts the receive
// cycle. Connection initiation counts as success for state purposes; the
// transport reports handshake refusal as a dial error.
func Open(ctx context.Context, params OpenParams) (*WebSocketConnection, error) {
	lg := logger(noopLogger{})
	if params.LogWriter != nil {
		lg = newWriterLogger(params.LogWriter)
	}
	return OpenWithDialer(ctx, NewWebsocketDialer(params.Dialer, lg), params)
}

// OpenWithDialer is Open with a caller-supplied transport dialer. The
// returned connection exclusively owns the transport handle; no other
// component may operate on it.
func OpenWithDialer(ctx context.Context, dial Dialer, params OpenParams) (*WebSocketConnection, error) {
	lg := logger(noopLogger{})
	if params.LogWriter != nil {
		lg = newWriterLogger(params.LogWriter).WithField("url", params.URL.String())
	}

	c := &WebSocketConnection{
		st:     StateConnecting,
		logger: lg,
	}
	c.sink = newEventStream(params.SubscriberBuffer, func() {
		c.logger.Infoln("last event consumer detached, tearing down")
		c.Close(CloseGoingAway, "going away")
	})

	transport, err := dial(ctx, params.URL, params.Header, params.Subprotocols)
	if err != nil {
		c.logger.Errorf("dial failed: %s", err)
		c.mu.Lock()
		c.st = StateDisconnected
		c.mu.Unlock()
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c.transport = transport
	c.recvCancel = cancel

	c.mu.Lock()
	c.st = StateConnected
	c.mu.Unlock()

	c.sink.Publish(newConnectedEvent())
	go c.receiveLoop(loopCtx)

	return c, nil
}

// State returns the current connection state.
func (c *WebSocketConnection) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// Events subscribes to the connection's ordered event stream. The first
// event is Connected, followed by zero or more Message events and exactly
// one terminal Disconnected or Error event, after which the channel
// closes. Cancelling ctx detaches the subscriber; when the last subscriber
// detaches the connection is torn down with a going-away close. After
// termination Events returns an already-closed channel.
func (c *WebSocketConnection) Events(ctx context.Context) <-chan Event {
	ch, detach := c.sink.Subscribe()

	go func() {
		select {
		case <-ctx.Done():
			detach()
		case <-c.sink.Done():
		}
	}()

	return ch
}

// Send forwards one message to the transport. It does not change the
// connection state; a failed send surfaces as ErrTransportFailure to the
// caller only. Safe for concurrent use.
func (c *WebSocketConnection) Send(ctx context.Context, m Message) error {
	c.mu.Lock()
	st := c.st
	c.mu.Unlock()

	if st == StateConnecting {
		return ErrNotConnected
	}

	frame := Frame{Kind: FrameText, Payload: m.Data()}
	if m.Type().IsBinary() {
		frame.Kind = FrameBinary
	}

	return c.transport.Send(ctx, frame)
}

// Close tears the connection down: cancels the transport with the given
// close code and reason, moves the state to Disconnected and emits the
// terminal Disconnected event. A zero code falls back to the process-wide
// default; unrecognized codes collapse to normal closure. Idempotent:
// once teardown has begun, further calls return immediately.
func (c *WebSocketConnection) Close(code CloseCode, reason string) {
	c.mu.Lock()
	if c.st >= StateDisconnecting {
		c.mu.Unlock()
		return
	}
	c.st = StateDisconnecting
	c.mu.Unlock()

	code = resolveCloseCode(code)
	c.logger.Infof("closing with code %d", code)

	c.recvCancel()
	if err := c.transport.Cancel(code, []byte(reason)); err != nil {
		c.logger.Warnf("transport cancel failed: %s", err)
	}

	c.mu.Lock()
	c.st = StateDisconnected
	c.mu.Unlock()

	c.sink.Terminate(newDisconnectedEvent(code, reason))
}

// receiveLoop awaits inbound frames and re-arms after every delivered
// message. It exits only on transport failure or cancellation; text and
// binary frames become Message events, anything else is dropped.
func (c *WebSocketConnection) receiveLoop(ctx context.Context) {
	for {
		frame, err := c.transport.Recv(ctx)
		if err != nil {
			c.fail(err)
			return
		}

		switch frame.Kind {
		case FrameText:
			c.deliver(NewTextMessage(string(frame.Payload)))
		case FrameBinary:
			c.deliver(NewBinaryMessage(frame.Payload))
		default:
			c.logger.Debugln("dropping unsupported frame")
		}
	}
}

func (c *WebSocketConnection) deliver(m Message) {
	c.sink.Publish(newMessageEvent(m))
}

// fail is the unsolicited-termination path, entered when the receive cycle
// hits an unrecoverable error. It races with Close; whoever moves the
// state first owns the teardown and the loser backs off.
func (c *WebSocketConnection) fail(cause error) {
	c.mu.Lock()
	if c.st != StateConnected {
		c.mu.Unlock()
		return
	}
	c.st = StateDisconnected
	c.mu.Unlock()

	c.logger.Errorf("receive failed: %s", cause)

	c.recvCancel()
	_ = c.transport.Cancel(CloseGoingAway, nil)

	c.sink.Terminate(newErrorEvent(cause))
}
