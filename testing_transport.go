package wsconn

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Recv(ctx context.Context) (Frame, error) {
	args := m.Called(ctx)
	return args.Get(0).(Frame), args.Error(1)
}

func (m *mockTransport) Send(ctx context.Context, f Frame) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockTransport) Cancel(code CloseCode, reason []byte) error {
	args := m.Called(code, reason)
	return args.Error(0)
}

type recvStep struct {
	frame Frame
	err   error
}

// scriptedTransport replays a fixed sequence of receive outcomes, then
// blocks until cancelled. Sends and the cancel call are recorded.
type scriptedTransport struct {
	steps      chan recvStep
	cancelC    chan struct{}
	cancelOnce sync.Once

	mu           sync.Mutex
	sent         []Frame
	sendErr      error
	cancelCode   CloseCode
	cancelReason []byte
	cancelled    bool
}

func newScriptedTransport(steps ...recvStep) *scriptedTransport {
	c := make(chan recvStep, len(steps))
	for _, s := range steps {
		c <- s
	}
	return &scriptedTransport{
		steps:   c,
		cancelC: make(chan struct{}),
	}
}

func (t *scriptedTransport) Recv(ctx context.Context) (Frame, error) {
	select {
	case s := <-t.steps:
		return s.frame, s.err
	case <-t.cancelC:
		return Frame{}, errors.Wrap(ErrTransportFailure, "transport cancelled")
	case <-ctx.Done():
		return Frame{}, errors.Wrap(ErrTransportFailure, ctx.Err().Error())
	}
}

func (t *scriptedTransport) Send(_ context.Context, f Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled {
		return errors.Wrap(ErrTransportFailure, "transport cancelled")
	}
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, f)
	return nil
}

func (t *scriptedTransport) Cancel(code CloseCode, reason []byte) error {
	t.cancelOnce.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		t.cancelCode = code
		t.cancelReason = reason
		t.mu.Unlock()
		close(t.cancelC)
	})
	return nil
}

func (t *scriptedTransport) setSendErr(err error) {
	t.mu.Lock()
	t.sendErr = err
	t.mu.Unlock()
}

func (t *scriptedTransport) sentFrames() []Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Frame, len(t.sent))
	copy(out, t.sent)
	return out
}

func (t *scriptedTransport) cancelledWith() (CloseCode, []byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelCode, t.cancelReason, t.cancelled
}

// gatedTransport holds back receives until the gate channel closes, so a
// test can attach subscribers before any frame flows.
type gatedTransport struct {
	*scriptedTransport
	gate <-chan struct{}
}

func (g gatedTransport) Recv(ctx context.Context) (Frame, error) {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return Frame{}, errors.Wrap(ErrTransportFailure, ctx.Err().Error())
	}
	return g.scriptedTransport.Recv(ctx)
}

func staticDialer(t Transport) Dialer {
	return func(context.Context, url.URL, http.Header, []string) (Transport, error) {
		return t, nil
	}
}
