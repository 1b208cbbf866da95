package wsconn

import (
	"github.com/pkg/errors"
)

var (
	// ErrTransportFailure signals that the underlying transport failed to
	// connect, send or receive. Wraps the originating failure.
	ErrTransportFailure = errors.New("transport failure")

	// ErrNotConnected signals an operation on a connection that never
	// reached the connected state.
	ErrNotConnected = errors.New("connection not established")

	// ErrDecodeFailure signals that a message payload could not be
	// interpreted as the requested shape.
	ErrDecodeFailure = errors.New("message decode failed")

	// ErrEncodeFailure signals that a value could not be serialized into
	// a message payload.
	ErrEncodeFailure = errors.New("message encode failed")
)
