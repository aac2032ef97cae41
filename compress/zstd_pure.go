//go:build !gozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/splatpack/errs"
	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse.
// The klauspost/compress/zstd decoder operates without allocations after a
// warmup, so it is kept around between blocks.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			// only reachable with invalid static options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// zstdEncoderPools holds one encoder pool per speed tier.
var zstdEncoderPools = func() map[zstd.EncoderLevel]*sync.Pool {
	pools := make(map[zstd.EncoderLevel]*sync.Pool, len(zstdLevels))
	for _, level := range zstdLevels {
		encLevel := zstd.EncoderLevelFromZstd(level)
		if _, ok := pools[encLevel]; ok {
			continue
		}
		pools[encLevel] = &sync.Pool{
			New: func() any {
				encoder, err := zstd.NewWriter(nil,
					zstd.WithEncoderLevel(encLevel),
					zstd.WithEncoderConcurrency(1),
					zstd.WithEncoderCRC(false),
				)
				if err != nil {
					panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
				}
				return encoder
			},
		}
	}

	return pools
}()

// Compress compresses src using a pooled Zstandard encoder.
func (c ZstdCompressor) Compress(level int, src []byte, _, _ int) ([]byte, error) {
	if err := CheckLevel(c, level); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return []byte{}, nil
	}

	pool := zstdEncoderPools[zstd.EncoderLevelFromZstd(level)]
	encoder, _ := pool.Get().(*zstd.Encoder)
	defer pool.Put(encoder)

	// EncodeAll is stateless, safe with a pooled encoder
	return encoder.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

// Decompress decodes a Zstandard frame into dst using a pooled decoder.
func (c ZstdCompressor) Decompress(src, dst []byte, _, _ int) error {
	if len(dst) == 0 {
		if len(src) != 0 {
			return sizeMismatch(c.Name(), len(src), 0)
		}
		return nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return fmt.Errorf("%w: zstd: %w", errs.ErrCorruptFrame, err)
	}
	if len(out) != len(dst) {
		return sizeMismatch(c.Name(), len(out), len(dst))
	}
	copyInto(dst, out)

	return nil
}
