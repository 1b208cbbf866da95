package wsconn

import (
	"sync/atomic"

	"github.com/fasthttp/websocket"
)

// CloseCode is a numeric close code from the standard WebSocket
// close-code space, exchanged during connection teardown.
type CloseCode int

const (
	CloseNormalClosure   CloseCode = websocket.CloseNormalClosure
	CloseGoingAway       CloseCode = websocket.CloseGoingAway
	CloseProtocolError   CloseCode = websocket.CloseProtocolError
	CloseUnsupportedData CloseCode = websocket.CloseUnsupportedData
	CloseInvalidPayload  CloseCode = websocket.CloseInvalidFramePayloadData
	ClosePolicyViolation CloseCode = websocket.ClosePolicyViolation
	CloseMessageTooBig   CloseCode = websocket.CloseMessageTooBig
	CloseInternalErr     CloseCode = websocket.CloseInternalServerErr
)

// Valid reports whether the code belongs to the registered close-code
// space: the assigned 1xxx codes plus the 3000-4999 application range.
func (c CloseCode) Valid() bool {
	switch {
	case c >= CloseNormalClosure && c <= CloseUnsupportedData:
		return true
	case c >= CloseInvalidPayload && c <= websocket.CloseTryAgainLater:
		return true
	case c >= 3000 && c <= 4999:
		return true
	default:
		return false
	}
}

var defaultCloseCode atomic.Int64

func init() {
	defaultCloseCode.Store(int64(CloseNormalClosure))
}

// DefaultCloseCode returns the process-wide close code used when Close is
// called with a zero code.
func DefaultCloseCode() CloseCode {
	return CloseCode(defaultCloseCode.Load())
}

// SetDefaultCloseCode overrides the process-wide default close code.
// Codes outside the registered space fall back to normal closure.
func SetDefaultCloseCode(code CloseCode) {
	if !code.Valid() {
		code = CloseNormalClosure
	}
	defaultCloseCode.Store(int64(code))
}

// resolveCloseCode applies the default-and-validate policy: zero means the
// configured default, unrecognized codes collapse to normal closure.
func resolveCloseCode(code CloseCode) CloseCode {
	if code == 0 {
		code = DefaultCloseCode()
	}
	if !code.Valid() {
		code = CloseNormalClosure
	}
	return code
}
