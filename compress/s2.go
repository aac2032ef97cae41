package compress

import (
	"fmt"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/format"
	"github.com/klauspost/compress/s2"
)

// S2 effort levels.
const (
	S2LevelDefault = 1 // s2.Encode
	S2LevelBetter  = 2 // s2.EncodeBetter
	S2LevelBest    = 3 // s2.EncodeBest
)

// S2Compressor compresses blocks with the S2 block format.
type S2Compressor struct{}

var _ Backend = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Type() format.CompressionType { return format.CompressionS2 }

func (c S2Compressor) Name() string { return "s2" }

func (c S2Compressor) Levels() []int { return []int{S2LevelDefault, S2LevelBetter, S2LevelBest} }

func (c S2Compressor) DefaultLevel() int { return S2LevelDefault }

// Compress compresses src using S2 at the given level.
func (c S2Compressor) Compress(level int, src []byte, _, _ int) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	switch level {
	case S2LevelDefault:
		return s2.Encode(nil, src), nil
	case S2LevelBetter:
		return s2.EncodeBetter(nil, src), nil
	case S2LevelBest:
		return s2.EncodeBest(nil, src), nil
	default:
		return nil, CheckLevel(c, level)
	}
}

// Decompress decodes an S2 block into dst.
func (c S2Compressor) Decompress(src, dst []byte, _, _ int) error {
	if len(dst) == 0 {
		if len(src) != 0 {
			return sizeMismatch(c.Name(), len(src), 0)
		}
		return nil
	}

	n, err := s2.DecodedLen(src)
	if err != nil {
		return fmt.Errorf("%w: s2: %w", errs.ErrCorruptFrame, err)
	}
	if n != len(dst) {
		return sizeMismatch(c.Name(), n, len(dst))
	}

	out, err := s2.Decode(dst, src)
	if err != nil {
		return fmt.Errorf("%w: s2: %w", errs.ErrCorruptFrame, err)
	}
	copyInto(dst, out)

	return nil
}
