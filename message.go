package wsconn

import (
	"fmt"
	"unicode/utf8"
)

type MessageType byte

const (
	TextMessage   MessageType = 1
	BinaryMessage MessageType = 2
)

func (t MessageType) Is(other MessageType) bool {
	return t == other
}

func (t MessageType) IsText() bool {
	return t.Is(TextMessage)
}

func (t MessageType) IsBinary() bool {
	return t.Is(BinaryMessage)
}

// Message is one immutable payload exchanged over the connection, either
// text or binary. Data is always defined: for text messages it is the
// UTF-8 encoding of the string. Text is partial: binary payloads that are
// not valid UTF-8 have no text representation.
type Message interface {
	Type() MessageType
	Data() []byte
	Text() (string, bool)
	String() string
}

type message struct {
	MessageType MessageType
	MessageData []byte
}

func (m message) Type() MessageType {
	return m.MessageType
}

func (m message) Data() []byte {
	return m.MessageData
}

func (m message) Text() (string, bool) {
	if m.MessageType.IsText() {
		return string(m.MessageData), true
	}
	if !utf8.Valid(m.MessageData) {
		return "", false
	}
	return string(m.MessageData), true
}

func (m message) String() string {
	return fmt.Sprintf("Message{type=%d,data=%s}",
		m.MessageType, m.MessageData)
}

func NewTextMessage(text string) Message {
	return message{MessageType: TextMessage, MessageData: []byte(text)}
}

func NewBinaryMessage(data []byte) Message {
	return message{MessageType: BinaryMessage, MessageData: data}
}
