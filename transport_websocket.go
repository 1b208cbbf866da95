package wsconn

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/fasthttp/websocket"
)

const wsWriteTimeout = 5 * time.Second

// wsTransport adapts a fasthttp websocket connection to the Transport
// contract. Writes are serialized through sendMu since the underlying
// connection does not tolerate concurrent writers.
type wsTransport struct {
	conn       *websocket.Conn
	logger     logger
	sendMu     sync.Mutex
	cancelOnce sync.Once
}

// NewWebsocketDialer returns a Dialer backed by the given websocket dialer.
// A nil dialer uses the library default.
func NewWebsocketDialer(dialer *websocket.Dialer, logger logger) Dialer {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	if logger == nil {
		logger = noopLogger{}
	}

	return func(ctx context.Context, endpoint url.URL, header http.Header, subprotocols []string) (Transport, error) {
		d := *dialer
		if len(subprotocols) > 0 {
			d.Subprotocols = subprotocols
		}

		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(ErrTransportFailure, err.Error())
		}

		conn, resp, err := d.Dial(endpoint.String(), header)
		if err != nil {
			return nil, wrapDialError(resp, err)
		}

		return &wsTransport{
			conn:   conn,
			logger: logger.WithField("net", "ws_transport"),
		}, nil
	}
}

func (t *wsTransport) Recv(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, errors.Wrap(ErrTransportFailure, err.Error())
	}

	messageType, bts, err := t.conn.ReadMessage()
	if err != nil {
		return Frame{}, errors.Wrap(ErrTransportFailure, err.Error())
	}

	// ReadMessage only yields data frames; control frames are answered by
	// the connection's handlers.
	switch messageType {
	case websocket.TextMessage:
		t.logger.Debugln("<= [TEXT]")
		return Frame{Kind: FrameText, Payload: bts}, nil
	case websocket.BinaryMessage:
		t.logger.Debugln("<= [BIN]")
		return Frame{Kind: FrameBinary, Payload: bts}, nil
	default:
		t.logger.Debugf("<= unsupported frame kind %d", messageType)
		return Frame{Kind: FrameOther, Payload: bts}, nil
	}
}

func (t *wsTransport) Send(ctx context.Context, f Frame) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	deadline := time.Now().Add(wsWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = t.conn.SetWriteDeadline(deadline)

	var messageType int
	switch f.Kind {
	case FrameBinary:
		t.logger.Debugln("=> [BIN]")
		messageType = websocket.BinaryMessage
	default:
		t.logger.Debugf("=> [TEXT] %s", f.Payload)
		messageType = websocket.TextMessage
	}

	if err := t.conn.WriteMessage(messageType, f.Payload); err != nil {
		return errors.Wrap(ErrTransportFailure, err.Error())
	}
	return nil
}

// Cancel writes a close frame and tears the connection down. Only the
// first call has effect.
func (t *wsTransport) Cancel(code CloseCode, reason []byte) error {
	t.cancelOnce.Do(func() {
		deadline := time.Now().Add(wsWriteTimeout)
		frame := websocket.FormatCloseMessage(int(code), string(reason))
		if err := t.conn.WriteControl(websocket.CloseMessage, frame, deadline); err != nil {
			t.logger.Debugf("close frame write failed: %s", err)
		}
		_ = t.conn.Close()
	})
	return nil
}

func wrapDialError(resp *http.Response, err error) error {
	var msg string
	if resp != nil {
		if resp.Body != nil {
			if bts, rerr := io.ReadAll(resp.Body); rerr == nil {
				msg = string(bts)
			}
		}
		if msg == "" {
			msg = resp.Status
		}
	}
	if msg != "" {
		return errors.Wrapf(ErrTransportFailure, "%s: %s", err, msg)
	}
	return errors.Wrap(ErrTransportFailure, err.Error())
}
