package wsconn

import (
	"bytes"
	"testing"
)

func TestTextMessageByteForm(t *testing.T) {
	m := NewTextMessage("hello")

	if !m.Type().IsText() {
		t.Fatalf("expected text type, got %d", m.Type())
	}
	if !bytes.Equal(m.Data(), []byte("hello")) {
		t.Fatalf("expected UTF-8 bytes of 'hello', got %v", m.Data())
	}
	if text, ok := m.Text(); !ok || text != "hello" {
		t.Fatalf("expected text 'hello', got %q (ok=%v)", text, ok)
	}
}

func TestBinaryMessageTextView(t *testing.T) {
	m := NewBinaryMessage([]byte("hello"))

	if !m.Type().IsBinary() {
		t.Fatalf("expected binary type, got %d", m.Type())
	}
	if text, ok := m.Text(); !ok || text != "hello" {
		t.Fatalf("expected valid UTF-8 bytes to read back as 'hello', got %q (ok=%v)", text, ok)
	}
}

func TestBinaryMessageWithoutTextRepresentation(t *testing.T) {
	m := NewBinaryMessage([]byte{0xff, 0xfe, 0xfd})

	if _, ok := m.Text(); ok {
		t.Fatal("expected no text representation for invalid UTF-8")
	}
	// The byte form stays total.
	if len(m.Data()) != 3 {
		t.Fatalf("expected 3 bytes, got %d", len(m.Data()))
	}
}

func TestMessageTypePredicates(t *testing.T) {
	if !TextMessage.Is(TextMessage) || TextMessage.Is(BinaryMessage) {
		t.Fatal("message type equivalence is broken")
	}
	if !BinaryMessage.IsBinary() || BinaryMessage.IsText() {
		t.Fatal("binary predicate is broken")
	}
}
