package wsconn

import "context"

// noopTransport never yields frames and accepts everything. Recv blocks
// until the context is cancelled.
type noopTransport struct{}

func (noopTransport) Recv(ctx context.Context) (Frame, error) {
	<-ctx.Done()
	return Frame{}, ctx.Err()
}

func (noopTransport) Send(context.Context, Frame) error { return nil }

func (noopTransport) Cancel(CloseCode, []byte) error { return nil }
