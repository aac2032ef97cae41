package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/format"
	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains a hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4Levels maps backend levels to LZ4 compression levels. Level 0 is the
// fast block compressor; 1 through 9 use the high-compression search.
var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1,
	lz4.Level2,
	lz4.Level3,
	lz4.Level4,
	lz4.Level5,
	lz4.Level6,
	lz4.Level7,
	lz4.Level8,
	lz4.Level9,
}

// LZ4Compressor compresses blocks with the raw LZ4 block format.
type LZ4Compressor struct{}

var _ Backend = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Type() format.CompressionType { return format.CompressionLZ4 }

func (c LZ4Compressor) Name() string { return "lz4" }

func (c LZ4Compressor) Levels() []int {
	levels := make([]int, len(lz4Levels))
	for i := range levels {
		levels[i] = i
	}

	return levels
}

func (c LZ4Compressor) DefaultLevel() int { return 0 }

// Compress compresses src using LZ4 at the given level.
//
// The destination is sized with lz4.CompressBlockBound so that incompressible
// input is still emitted as literals instead of being rejected.
func (c LZ4Compressor) Compress(level int, src []byte, _, _ int) ([]byte, error) {
	if level < 0 || level >= len(lz4Levels) {
		return nil, CheckLevel(c, level)
	}
	if len(src) == 0 {
		return []byte{}, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(src)))

	var (
		n   int
		err error
	)
	if level == 0 {
		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		n, err = lc.CompressBlock(src, dst)
		lz4CompressorPool.Put(lc)
	} else {
		hc := lz4.CompressorHC{Level: lz4Levels[level]}
		n, err = hc.CompressBlock(src, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:n], nil
}

// Decompress decodes an LZ4 block into dst.
func (c LZ4Compressor) Decompress(src, dst []byte, _, _ int) error {
	if len(dst) == 0 {
		if len(src) != 0 {
			return sizeMismatch(c.Name(), len(src), 0)
		}
		return nil
	}

	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return fmt.Errorf("%w: lz4: %w", errs.ErrCorruptFrame, err)
	}
	if n != len(dst) {
		return sizeMismatch(c.Name(), n, len(dst))
	}

	return nil
}
