package cache

import (
	"encoding/json"

	"github.com/emrgen/modelhub/internal/compress"
)

// marshal encodes v as compressed json.
func marshal(encoder compress.Compress, v any) ([]byte, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return encoder.Encode(value)
}

func unmarshal(encoder compress.Compress, data []byte, v any) error {
	value, err := encoder.Decode(data)
	if err != nil {
		return err
	}

	return json.Unmarshal(value, v)
}
