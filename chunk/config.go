package chunk

import (
	"fmt"

	"github.com/arloliu/splatpack/compress"
	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/filter"
	"github.com/arloliu/splatpack/format"
	"github.com/arloliu/splatpack/internal/options"
)

// Default framer settings.
const (
	DefaultBlockSize   = format.BlockSize256K
	DefaultCompression = format.CompressionZstd
	DefaultFilter      = format.FilterByteDelta
)

// Config holds Codec settings.
type Config struct {
	backend     compress.Backend
	level       int
	levelSet    bool
	filter      filter.Filter
	blockSize   format.BlockSize
	concurrency int
}

// Option configures a Codec.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	backend, _ := compress.GetBackend(DefaultCompression)
	f, _ := filter.Create(DefaultFilter)

	return &Config{
		backend:     backend,
		filter:      f,
		blockSize:   DefaultBlockSize,
		concurrency: 1,
	}
}

// WithBackend sets the compressor used for every block.
func WithBackend(backend compress.Backend) Option {
	return options.New(func(c *Config) error {
		if backend == nil {
			return fmt.Errorf("%w: nil backend", errs.ErrUnsupportedCompression)
		}
		c.backend = backend

		return nil
	})
}

// WithCompression selects one of the built-in backends.
func WithCompression(compressionType format.CompressionType) Option {
	return options.New(func(c *Config) error {
		backend, err := compress.GetBackend(compressionType)
		if err != nil {
			return err
		}
		c.backend = backend

		return nil
	})
}

// WithLevel sets the backend effort level. The level is validated against
// the backend when the Codec is built, so option order does not matter.
func WithLevel(level int) Option {
	return options.NoError(func(c *Config) {
		c.level = level
		c.levelSet = true
	})
}

// WithFilter selects the byte filter applied to each block before compression.
func WithFilter(filterType format.FilterType) Option {
	return options.New(func(c *Config) error {
		f, err := filter.Create(filterType)
		if err != nil {
			return err
		}
		c.filter = f

		return nil
	})
}

// WithBlockSize sets the target block size. format.BlockSizeNone compresses
// the whole buffer as one unit.
func WithBlockSize(blockSize format.BlockSize) Option {
	return options.New(func(c *Config) error {
		if !blockSize.IsValid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, blockSize)
		}
		c.blockSize = blockSize

		return nil
	})
}

// WithConcurrency sets how many blocks are processed at once. One means fully
// sequential; the framed bytes do not depend on this setting.
func WithConcurrency(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidConcurrency, n)
		}
		c.concurrency = n

		return nil
	})
}
