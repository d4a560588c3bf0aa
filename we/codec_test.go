package we

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codecState struct {
	Value uint16
	High  int8
	Low   int8
}

func TestBorshCodec(t *testing.T) {
	codec := NewBorshCodec[codecState]()

	t.Run("writes fields in declaration order", func(t *testing.T) {
		data, err := codec.Encode(&codecState{Value: 258, High: 127, Low: -1})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02, 0x01, 0x7f, 0xff}, data)
	})

	t.Run("reads what it writes", func(t *testing.T) {
		state := &codecState{Value: 65535, High: -128, Low: 3}

		data, err := codec.Encode(state)
		require.NoError(t, err)

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, state, decoded)
	})

	t.Run("refuses nil state", func(t *testing.T) {
		_, err := codec.Encode(nil)
		assert.Error(t, err)
	})
}
