package wsconn

import (
	"context"
	"net/http"
	"net/url"
)

type (
	// FrameKind discriminates the payload of one transport frame. Kinds
	// other than text and binary exist on the wire (ping, pong, close);
	// the connection drops them without surfacing an event.
	FrameKind byte

	// Frame is one discrete unit received from or written to the transport.
	Frame struct {
		Kind    FrameKind
		Payload []byte
	}

	// Transport is the underlying network primitive providing framed
	// bidirectional message exchange. It is exclusively owned by the
	// WebSocketConnection that dialed it.
	Transport interface {
		// Recv blocks until the next inbound frame or a failure. A failed
		// Recv is unrecoverable; the transport must not be read again.
		Recv(ctx context.Context) (Frame, error)

		// Send writes one frame. Safe for concurrent use; writes from a
		// single caller are delivered in order.
		Send(ctx context.Context, f Frame) error

		// Cancel tears the transport down with a close code and optional
		// reason bytes. Subsequent Recv and Send calls fail.
		Cancel(code CloseCode, reason []byte) error
	}

	// Dialer begins a connection towards an endpoint and returns the
	// transport handle once connection setup has been initiated.
	Dialer func(ctx context.Context, endpoint url.URL, header http.Header, subprotocols []string) (Transport, error)
)

const (
	FrameText FrameKind = iota + 1
	FrameBinary
	FrameOther
)
