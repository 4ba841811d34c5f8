package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_EncodeDecode(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"modelCount":3,"totalUseCount":42}`), 32)

	for _, name := range []string{"nop", "gzip", "brotli", "lz4"} {
		t.Run(name, func(t *testing.T) {
			codec, err := New(name)
			require.NoError(t, err)
			assert.Equal(t, name, codec.Name())

			encoded, err := codec.Encode(payload)
			require.NoError(t, err)
			if name != "nop" {
				assert.Less(t, len(encoded), len(payload))
			}

			decoded, err := codec.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("zstd")
	assert.Error(t, err)
}
