package wsconn

import (
	"sync"
)

const defaultSubscriberBuffer = 16

// eventStream is a single-producer broadcast channel. Events are published
// in order to every subscriber; the stream terminates exactly once, after
// which subscriber channels are closed and late subscribers receive an
// already-closed channel.
//
// Events published before the first subscriber ever attaches are kept in a
// backlog and flushed to that first subscriber, so the stream can be
// consumed lazily from its beginning. Subscribers attaching later observe
// only the remaining events.
//
// A subscriber whose buffer is full is detached rather than block the
// producer; it observes the stream as terminated.
type eventStream struct {
	mu      sync.Mutex
	subs    map[uint64]chan Event
	nextID  uint64
	backlog []Event
	closed  bool
	everSub bool
	bufSize int

	// onIdle fires when the last subscriber detaches while the stream is
	// still live. Never fires before the first subscription.
	onIdle func()

	done chan struct{}
}

func newEventStream(bufSize int, onIdle func()) *eventStream {
	if bufSize <= 0 {
		bufSize = defaultSubscriberBuffer
	}
	return &eventStream{
		subs:    make(map[uint64]chan Event),
		bufSize: bufSize,
		onIdle:  onIdle,
		done:    make(chan struct{}),
	}
}

// Subscribe registers a new listener and returns its channel together with
// a detach function. Detaching is idempotent.
func (s *eventStream) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()

	if s.closed {
		// The stream already terminated. The first-ever subscriber still
		// drains the backlog; anyone else gets an empty closed channel.
		ch := make(chan Event, len(s.backlog))
		for _, ev := range s.backlog {
			ch <- ev
		}
		s.backlog = nil
		s.everSub = true
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}

	size := s.bufSize
	if n := len(s.backlog); n > 0 {
		size += n
	}
	ch := make(chan Event, size)
	for _, ev := range s.backlog {
		ch <- ev
	}
	s.backlog = nil

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.everSub = true
	s.mu.Unlock()

	return ch, func() { s.detach(id) }
}

func (s *eventStream) detach(id uint64) {
	s.mu.Lock()

	ch, found := s.subs[id]
	if !found {
		s.mu.Unlock()
		return
	}
	delete(s.subs, id)
	close(ch)

	idle := len(s.subs) == 0 && !s.closed
	s.mu.Unlock()

	if idle && s.onIdle != nil {
		s.onIdle()
	}
}

// Publish fans the event out to every subscriber; per-subscriber delivery
// order is the publish order. With no subscriber yet, the event goes to
// the backlog. Force-detaching a slow subscriber counts as a detach: if it
// empties the stream, the idle hook fires just as it does for a voluntary
// detach.
func (s *eventStream) Publish(ev Event) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}
	dropped := s.fanOut(ev)
	idle := dropped && len(s.subs) == 0
	s.mu.Unlock()

	if idle && s.onIdle != nil {
		s.onIdle()
	}
}

// Terminate publishes the final event and closes the stream in one step,
// so no other event can be observed after it. Only the first call has
// effect.
func (s *eventStream) Terminate(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.fanOut(ev)
	s.closed = true

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	close(s.done)
}

// fanOut requires s.mu held. Reports whether any subscriber was
// force-detached for falling behind.
func (s *eventStream) fanOut(ev Event) bool {
	if !s.everSub {
		s.backlog = append(s.backlog, ev)
		return false
	}

	var dropped bool
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Slow consumer: cut it loose instead of blocking the
			// receive loop. It sees the stream as terminated.
			delete(s.subs, id)
			close(ch)
			dropped = true
		}
	}
	return dropped
}

// Done returns a channel closed when the stream terminates.
func (s *eventStream) Done() <-chan struct{} {
	return s.done
}
