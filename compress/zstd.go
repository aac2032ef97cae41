package compress

import "github.com/arloliu/splatpack/format"

// Zstd levels exposed by the backend. They follow the reference zstd scale;
// the pure-Go encoder maps them onto its four speed tiers.
var zstdLevels = []int{1, 3, 6, 11}

// ZstdCompressor provides Zstandard compression.
//
// Zstd gives the best ratio of the built-in backends and benefits most from
// the byte-delta filter, at the cost of slower compression.
//
// The default build uses github.com/klauspost/compress/zstd. Building with the
// gozstd tag switches to the cgo binding github.com/valyala/gozstd.
type ZstdCompressor struct{}

var _ Backend = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor.
//
// Example:
//
//	backend := compress.NewZstdCompressor()
//	compressed, err := backend.Compress(3, packed, count, stride)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

func (c ZstdCompressor) Type() format.CompressionType { return format.CompressionZstd }

func (c ZstdCompressor) Name() string { return "zstd" }

func (c ZstdCompressor) Levels() []int {
	out := make([]int, len(zstdLevels))
	copy(out, zstdLevels)

	return out
}

func (c ZstdCompressor) DefaultLevel() int { return 3 }
