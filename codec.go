package wsconn

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// NewJSONMessage serializes v and wraps it in a message. Encoder output is
// valid UTF-8 in practice, so the result is a text message; the binary
// fallback guards against payloads that are not.
func NewJSONMessage(v any) (Message, error) {
	bts, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(ErrEncodeFailure, err.Error())
	}
	if !utf8.Valid(bts) {
		return NewBinaryMessage(bts), nil
	}
	return message{MessageType: TextMessage, MessageData: bts}, nil
}

// DecodeJSON deserializes the message payload into v. Text payloads are
// already UTF-8; binary payloads are fed to the decoder as raw bytes.
func DecodeJSON(m Message, v any) error {
	if err := json.Unmarshal(m.Data(), v); err != nil {
		return errors.Wrap(ErrDecodeFailure, err.Error())
	}
	return nil
}
