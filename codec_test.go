package wsconn

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type tickerUpdate struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Depth  []int   `json:"depth,omitempty"`
}

func TestJSONRoundTrip(t *testing.T) {
	in := tickerUpdate{Symbol: "BTC-USD", Price: 42000.5, Depth: []int{1, 2, 3}}

	m, err := NewJSONMessage(in)
	require.NoError(t, err)
	require.True(t, m.Type().IsText(), "encoder output is UTF-8, expected a text message")

	var out tickerUpdate
	require.NoError(t, DecodeJSON(m, &out))
	require.Equal(t, in, out)
}

func TestJSONRoundTripPrimitives(t *testing.T) {
	for _, v := range []any{"plain string", float64(3), true, map[string]any{"k": "v"}} {
		m, err := NewJSONMessage(v)
		require.NoError(t, err)

		var out any
		require.NoError(t, DecodeJSON(m, &out))
		require.Equal(t, v, out)
	}
}

func TestDecodeBinaryJSONPayload(t *testing.T) {
	m := NewBinaryMessage([]byte(`{"symbol":"ETH-USD","price":3100}`))

	var out tickerUpdate
	require.NoError(t, DecodeJSON(m, &out))
	require.Equal(t, "ETH-USD", out.Symbol)
}

func TestDecodeFailure(t *testing.T) {
	m := NewTextMessage("not json at all")

	var out tickerUpdate
	err := DecodeJSON(m, &out)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecodeFailure))
}

func TestEncodeFailure(t *testing.T) {
	_, err := NewJSONMessage(make(chan int))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrEncodeFailure))
}
