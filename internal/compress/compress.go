package compress

import "fmt"

// Compress encodes cached payloads.
type Compress interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

var (
	_ Compress = GZip{}
	_ Compress = Nop{}
	_ Compress = Brotli{}
	_ Compress = LZ4{}
)

// New returns the codec registered under name. An empty name selects Nop.
func New(name string) (Compress, error) {
	switch name {
	case "", "none", "nop":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	}

	return nil, fmt.Errorf("unknown compression %q", name)
}
