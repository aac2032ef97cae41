package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/splatpack/chunk"
	"github.com/arloliu/splatpack/compress"
	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/format"
	"github.com/arloliu/splatpack/internal/options"
	"github.com/arloliu/splatpack/splat"
	"github.com/sirupsen/logrus"
)

// Config holds Pipeline settings.
type Config struct {
	codecOpts    []chunk.Option
	channels     []splat.Channel
	reorder      bool
	restoreOrder bool
	verify       bool
	evaluate     bool
	logger       logrus.FieldLogger
	metrics      *Metrics
}

// Option configures a Pipeline.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	return &Config{
		channels:     splat.FullChannels(),
		reorder:      true,
		restoreOrder: true,
		logger:       discardLogger(),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// WithBackend sets the block compressor.
func WithBackend(backend compress.Backend) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, chunk.WithBackend(backend))
	})
}

// WithCompression selects a built-in block compressor.
func WithCompression(compressionType format.CompressionType) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, chunk.WithCompression(compressionType))
	})
}

// WithLevel sets the compression level.
func WithLevel(level int) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, chunk.WithLevel(level))
	})
}

// WithFilter selects the byte filter applied before compression.
func WithFilter(filterType format.FilterType) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, chunk.WithFilter(filterType))
	})
}

// WithBlockSize sets the framer block size.
func WithBlockSize(blockSize format.BlockSize) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, chunk.WithBlockSize(blockSize))
	})
}

// WithConcurrency sets how many blocks are compressed or decompressed at once.
func WithConcurrency(n int) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, chunk.WithConcurrency(n))
	})
}

// WithChannels selects the channels kept in the packed records. See
// splat.CompactChannels for the layout that drops normals.
func WithChannels(channels []splat.Channel) Option {
	return options.New(func(c *Config) error {
		if len(channels) == 0 {
			return fmt.Errorf("%w: no channels selected", errs.ErrUnknownChannel)
		}
		c.channels = channels

		return nil
	})
}

// WithReorder enables Morton ordering of records before quantization.
// Enabled by default.
func WithReorder(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.reorder = enabled
	})
}

// WithRestoreOrder makes Decode return records in their original order using
// the stored permutation. Enabled by default; when disabled Decode returns
// records in Morton order.
func WithRestoreOrder(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.restoreOrder = enabled
	})
}

// WithVerify makes Encode decode the frame it produced and check that the
// packed records come back byte for byte.
func WithVerify(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.verify = enabled
	})
}

// WithEvaluate makes Encode reconstruct the records and attach an error
// report against the input.
func WithEvaluate(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.evaluate = enabled
	})
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.New(func(c *Config) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		c.logger = logger

		return nil
	})
}

// WithMetrics sets the Prometheus collectors updated on every operation.
func WithMetrics(metrics *Metrics) Option {
	return options.NoError(func(c *Config) {
		c.metrics = metrics
	})
}
