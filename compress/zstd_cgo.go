//go:build gozstd

package compress

import (
	"fmt"

	"github.com/arloliu/splatpack/errs"
	"github.com/valyala/gozstd"
)

// Compress compresses src using the reference zstd library via cgo.
func (c ZstdCompressor) Compress(level int, src []byte, _, _ int) ([]byte, error) {
	if err := CheckLevel(c, level); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return []byte{}, nil
	}

	return gozstd.CompressLevel(nil, src, level), nil
}

// Decompress decodes a Zstandard frame into dst.
func (c ZstdCompressor) Decompress(src, dst []byte, _, _ int) error {
	if len(dst) == 0 {
		if len(src) != 0 {
			return sizeMismatch(c.Name(), len(src), 0)
		}
		return nil
	}

	out, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return fmt.Errorf("%w: zstd: %w", errs.ErrCorruptFrame, err)
	}
	if len(out) != len(dst) {
		return sizeMismatch(c.Name(), len(out), len(dst))
	}
	copyInto(dst, out)

	return nil
}
