package compress

import "github.com/arloliu/splatpack/format"

// NoOpCompressor stores data without compression.
//
// It is useful as a baseline when measuring the effect of the filters and
// the framing overhead on their own.
type NoOpCompressor struct{}

var _ Backend = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (c NoOpCompressor) Type() format.CompressionType { return format.CompressionNone }

func (c NoOpCompressor) Name() string { return "none" }

func (c NoOpCompressor) Levels() []int { return []int{0} }

func (c NoOpCompressor) DefaultLevel() int { return 0 }

// Compress returns a copy of src.
//
// A copy is required because the framer reuses its filter scratch buffer
// across blocks.
func (c NoOpCompressor) Compress(_ int, src []byte, _, _ int) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)

	return out, nil
}

// Decompress copies src into dst.
func (c NoOpCompressor) Decompress(src, dst []byte, _, _ int) error {
	if len(src) != len(dst) {
		return sizeMismatch(c.Name(), len(src), len(dst))
	}
	copy(dst, src)

	return nil
}
