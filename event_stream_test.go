package wsconn

import (
	"testing"
)

func TestStreamBacklogFlushedToFirstSubscriber(t *testing.T) {
	s := newEventStream(0, nil)

	s.Publish(newConnectedEvent())
	s.Publish(newMessageEvent(NewTextMessage("early")))

	ch, detach := s.Subscribe()
	defer detach()

	ev := <-ch
	if ev.Type != EventConnected {
		t.Fatalf("expected connected from backlog, got %s", ev)
	}
	ev = <-ch
	if ev.Type != EventMessage {
		t.Fatalf("expected message from backlog, got %s", ev)
	}
}

func TestStreamLateSubscriberSeesOnlyRemaining(t *testing.T) {
	s := newEventStream(0, nil)

	first, detachFirst := s.Subscribe()
	defer detachFirst()
	s.Publish(newMessageEvent(NewTextMessage("one")))

	second, detachSecond := s.Subscribe()
	defer detachSecond()
	s.Publish(newMessageEvent(NewTextMessage("two")))

	if ev := <-first; ev.Message == nil {
		t.Fatalf("expected message, got %s", ev)
	}
	if ev := <-first; ev.Message == nil {
		t.Fatalf("expected message, got %s", ev)
	}

	ev := <-second
	if text, _ := ev.Message.Text(); text != "two" {
		t.Fatalf("late subscriber should only see 'two', got %q", text)
	}
}

func TestStreamTerminateOnlyOnce(t *testing.T) {
	s := newEventStream(0, nil)
	ch, _ := s.Subscribe()

	s.Terminate(newDisconnectedEvent(CloseNormalClosure, "done"))
	s.Terminate(newErrorEvent(ErrTransportFailure))
	s.Publish(newMessageEvent(NewTextMessage("after")))

	ev := <-ch
	if ev.Type != EventDisconnected {
		t.Fatalf("expected the first terminal, got %s", ev)
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected the channel to be closed after the terminal event")
	}

	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done to be closed after termination")
	}
}

func TestStreamSubscribeAfterTermination(t *testing.T) {
	s := newEventStream(0, nil)
	ch, _ := s.Subscribe()
	s.Terminate(newDisconnectedEvent(CloseNormalClosure, ""))
	<-ch

	late, _ := s.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("expected an already-closed channel for late subscribers")
	}
}

func TestStreamIdleHookFiresOnLastDetach(t *testing.T) {
	fired := 0
	s := newEventStream(0, func() { fired++ })

	_, detachA := s.Subscribe()
	_, detachB := s.Subscribe()

	detachA()
	if fired != 0 {
		t.Fatal("idle hook must not fire while subscribers remain")
	}
	detachB()
	if fired != 1 {
		t.Fatalf("expected idle hook to fire once, got %d", fired)
	}
	detachB()
	if fired != 1 {
		t.Fatalf("detach must be idempotent, hook fired %d times", fired)
	}
}

func TestStreamIdleHookFiresWhenSlowSubscriberDropped(t *testing.T) {
	fired := 0
	s := newEventStream(1, func() { fired++ })

	_, _ = s.Subscribe()

	s.Publish(newMessageEvent(NewTextMessage("fits")))
	if fired != 0 {
		t.Fatal("idle hook must not fire while the subscriber keeps up")
	}

	// The overflow detaches the only subscriber; that leaves no readers,
	// so the idle hook must fire exactly as it does for a voluntary detach.
	s.Publish(newMessageEvent(NewTextMessage("overflows")))
	if fired != 1 {
		t.Fatalf("expected idle hook to fire once after the forced detach, got %d", fired)
	}
}

func TestStreamSlowSubscriberIsDetached(t *testing.T) {
	s := newEventStream(1, nil)
	ch, _ := s.Subscribe()

	s.Publish(newMessageEvent(NewTextMessage("fits")))
	s.Publish(newMessageEvent(NewTextMessage("overflows")))

	ev, ok := <-ch
	if !ok {
		t.Fatal("expected the buffered event before the close")
	}
	if text, _ := ev.Message.Text(); text != "fits" {
		t.Fatalf("expected 'fits', got %q", text)
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected the slow subscriber channel to be closed")
	}
}
