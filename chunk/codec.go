package chunk

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/splatpack/compress"
	"github.com/arloliu/splatpack/endian"
	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/filter"
	"github.com/arloliu/splatpack/format"
	"github.com/arloliu/splatpack/internal/options"
	"github.com/arloliu/splatpack/internal/pool"
	"golang.org/x/sync/errgroup"
)

// prefixSize is the size of each uint32 block length prefix.
const prefixSize = 4

// Codec frames record buffers as a sequence of filtered, compressed blocks.
//
// Frame layout for chunked block sizes:
//
//	[len0 u32 LE][block0][len1 u32 LE][block1]...
//
// When the framed output would exceed the input size, the frame is instead
// a zero prefix followed by the verbatim input. With format.BlockSizeNone the
// frame is the bare compressed buffer, or the same raw fallback frame when
// compression does not shrink the input.
//
// Frames carry no header. Decode must use a Codec configured with the same
// backend, filter and block size as the one that encoded the frame.
//
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	backend     compress.Backend
	level       int
	filter      filter.Filter
	blockSize   format.BlockSize
	concurrency int
	engine      endian.EndianEngine
}

// NewCodec creates a Codec with the given options.
//
// Defaults: zstd at its default level, byte-delta filter, 256 KiB blocks,
// sequential processing.
//
// Example:
//
//	codec, err := chunk.NewCodec(
//		chunk.WithCompression(format.CompressionLZ4),
//		chunk.WithBlockSize(format.BlockSize1M),
//	)
//	if err != nil {
//		return err
//	}
//	framed, stats, err := codec.Encode(packed, splat.PackedStride)
func NewCodec(opts ...Option) (*Codec, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	level := cfg.backend.DefaultLevel()
	if cfg.levelSet {
		if err := compress.CheckLevel(cfg.backend, cfg.level); err != nil {
			return nil, err
		}
		level = cfg.level
	}

	return &Codec{
		backend:     cfg.backend,
		level:       level,
		filter:      cfg.filter,
		blockSize:   cfg.blockSize,
		concurrency: cfg.concurrency,
		engine:      endian.GetLittleEndianEngine(),
	}, nil
}

// Backend returns the configured compressor.
func (c *Codec) Backend() compress.Backend { return c.backend }

// Level returns the configured compression level.
func (c *Codec) Level() int { return c.level }

// Filter returns the configured byte filter.
func (c *Codec) Filter() filter.Filter { return c.filter }

// BlockSize returns the configured block size.
func (c *Codec) BlockSize() format.BlockSize { return c.blockSize }

// Name returns a label such as "zstd_3-bd-256K" describing the
// configuration. Whole-buffer mode has no block size suffix.
func (c *Codec) Name() string {
	name := fmt.Sprintf("%s_%d", c.backend.Name(), c.level)
	if suffix := c.filter.Name(); suffix != "" {
		name += "-" + suffix
	}
	if c.blockSize != format.BlockSizeNone {
		name += "-" + c.blockSize.String()
	}

	return name
}

// BlockBytes returns the plaintext size of every block but the last for the
// given stride: the configured block size rounded down to a whole number of
// records, and never less than one record. It returns 0 in whole-buffer mode.
func (c *Codec) BlockBytes(stride int) int {
	if c.blockSize == format.BlockSizeNone || stride <= 0 {
		return 0
	}

	return max(stride, c.blockSize.Bytes()/stride*stride)
}

// Encode filters and compresses src, which must hold whole records of size
// stride. The returned frame is newly allocated and never larger than
// len(src)+4 bytes.
func (c *Codec) Encode(src []byte, stride int) ([]byte, Stats, error) {
	if err := checkBuffer(len(src), stride); err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	var (
		frame  []byte
		blocks int
		err    error
	)
	if c.blockSize == format.BlockSizeNone {
		frame, err = c.encodeWhole(src, stride)
		blocks = 1
	} else {
		frame, blocks, err = c.encodeBlocks(src, stride)
	}
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{
		OriginalSize:     len(src),
		FramedSize:       len(frame),
		Blocks:           blocks,
		Fallback:         c.isFallback(frame, len(src)),
		CompressDuration: time.Since(start),
	}
	if stats.Fallback {
		stats.Blocks = 0
	}

	return frame, stats, nil
}

// Decode reconstructs size bytes of records from frame.
func (c *Codec) Decode(frame []byte, size, stride int) ([]byte, Stats, error) {
	if size < 0 {
		return nil, Stats{}, fmt.Errorf("%w: negative size %d", errs.ErrInvalidRecordCount, size)
	}
	dst := make([]byte, size)
	stats, err := c.DecodeInto(frame, dst, stride)
	if err != nil {
		return nil, Stats{}, err
	}

	return dst, stats, nil
}

// DecodeInto reconstructs records from frame into dst, which must be exactly
// the original buffer size. Truncated, oversized or undecodable frames
// return errs.ErrCorruptFrame.
func (c *Codec) DecodeInto(frame, dst []byte, stride int) (Stats, error) {
	if err := checkBuffer(len(dst), stride); err != nil {
		return Stats{}, err
	}

	start := time.Now()
	stats := Stats{OriginalSize: len(dst), FramedSize: len(frame)}

	if c.isFallback(frame, len(dst)) {
		copy(dst, frame[prefixSize:])
		stats.Fallback = true
		stats.DecompressDuration = time.Since(start)

		return stats, nil
	}

	var err error
	if c.blockSize == format.BlockSizeNone {
		err = c.decodeBlock(frame, dst, stride)
		stats.Blocks = 1
	} else {
		stats.Blocks, err = c.decodeBlocks(frame, dst, stride)
	}
	if err != nil {
		return Stats{}, err
	}
	stats.DecompressDuration = time.Since(start)

	return stats, nil
}

func (c *Codec) encodeWhole(src []byte, stride int) ([]byte, error) {
	compressed, err := c.encodeBlock(src, stride)
	if err != nil {
		return nil, err
	}
	if len(compressed) >= len(src) {
		return c.fallback(src), nil
	}

	return compressed, nil
}

// block is the plaintext span [start, end) of one chunk and its compressed form.
type block struct {
	start, end int
	data       []byte
}

func (c *Codec) splitBlocks(size, stride int) []block {
	blockBytes := c.BlockBytes(stride)
	blocks := make([]block, 0, (size+blockBytes-1)/blockBytes)
	for start := 0; start < size; start += blockBytes {
		blocks = append(blocks, block{start: start, end: min(start+blockBytes, size)})
	}

	return blocks
}

func (c *Codec) encodeBlocks(src []byte, stride int) ([]byte, int, error) {
	n := len(src)
	blocks := c.splitBlocks(n, stride)

	if c.concurrency > 1 && len(blocks) > 1 {
		err := c.parallel(len(blocks), func(i int) error {
			data, err := c.encodeBlock(src[blocks[i].start:blocks[i].end], stride)
			blocks[i].data = data

			return err
		})
		if err != nil {
			return nil, 0, err
		}
	}

	frame := make([]byte, 0, n+prefixSize)
	for i := range blocks {
		data := blocks[i].data
		if data == nil {
			var err error
			data, err = c.encodeBlock(src[blocks[i].start:blocks[i].end], stride)
			if err != nil {
				return nil, 0, err
			}
		}
		if len(frame)+prefixSize+len(data) > n {
			return c.fallback(src), 0, nil
		}
		frame = c.engine.AppendUint32(frame, uint32(len(data)))
		frame = append(frame, data...)
	}

	return frame, len(blocks), nil
}

// encodeBlock filters src into pooled scratch and compresses it.
func (c *Codec) encodeBlock(src []byte, stride int) ([]byte, error) {
	scratch, release := pool.GetByteSlice(len(src))
	defer release()

	c.filter.Filter(src, scratch, stride, len(src)/stride)
	compressed, err := c.backend.Compress(c.level, scratch, len(src)/stride, stride)
	if err != nil {
		return nil, fmt.Errorf("%s compress: %w", c.backend.Name(), err)
	}

	return compressed, nil
}

func (c *Codec) decodeBlocks(frame, dst []byte, stride int) (int, error) {
	blocks := c.splitBlocks(len(dst), stride)

	pos := 0
	for i := range blocks {
		if len(frame)-pos < prefixSize {
			return 0, fmt.Errorf("%w: truncated at block %d prefix (offset %d)", errs.ErrCorruptFrame, i, pos)
		}
		size := int(c.engine.Uint32(frame[pos:]))
		pos += prefixSize
		if size == 0 || size > len(frame)-pos {
			return 0, fmt.Errorf("%w: block %d length %d exceeds remaining %d bytes", errs.ErrCorruptFrame, i, size, len(frame)-pos)
		}
		blocks[i].data = frame[pos : pos+size]
		pos += size
	}
	if pos != len(frame) {
		return 0, fmt.Errorf("%w: %d trailing bytes after last block", errs.ErrCorruptFrame, len(frame)-pos)
	}

	work := func(i int) error {
		return c.decodeBlock(blocks[i].data, dst[blocks[i].start:blocks[i].end], stride)
	}
	if c.concurrency > 1 && len(blocks) > 1 {
		if err := c.parallel(len(blocks), work); err != nil {
			return 0, err
		}
	} else {
		for i := range blocks {
			if err := work(i); err != nil {
				return 0, err
			}
		}
	}

	return len(blocks), nil
}

// decodeBlock decompresses src into dst and reverses the filter in place.
func (c *Codec) decodeBlock(src, dst []byte, stride int) error {
	count := len(dst) / stride
	if err := c.backend.Decompress(src, dst, count, stride); err != nil {
		return fmt.Errorf("%s decompress: %w", c.backend.Name(), err)
	}
	c.filter.Unfilter(dst, dst, stride, count)

	return nil
}

// parallel runs fn for every index in [0, n) with at most c.concurrency
// goroutines and returns the first error.
func (c *Codec) parallel(n int, fn func(i int) error) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(c.concurrency)

	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}

	return g.Wait()
}

// fallback returns a zero prefix followed by a copy of src.
func (c *Codec) fallback(src []byte) []byte {
	frame := make([]byte, prefixSize+len(src))
	copy(frame[prefixSize:], src)

	return frame
}

// isFallback reports whether frame is the raw fallback form for size bytes.
func (c *Codec) isFallback(frame []byte, size int) bool {
	if len(frame) != size+prefixSize {
		return false
	}

	return c.engine.Uint32(frame) == 0
}

func checkBuffer(size, stride int) error {
	if stride <= 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidStride, stride)
	}
	if size%stride != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of stride %d", errs.ErrInvalidStride, size, stride)
	}

	return nil
}
