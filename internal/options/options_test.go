package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type frameConfig struct {
	blockSize int
	level     int
	name      string
	calls     []string
}

var errNegative = errors.New("must not be negative")

func withBlockSize(n int) Option[*frameConfig] {
	return New(func(c *frameConfig) error {
		if n < 0 {
			return errNegative
		}
		c.blockSize = n
		c.calls = append(c.calls, "blockSize")

		return nil
	})
}

func withName(name string) Option[*frameConfig] {
	return NoError(func(c *frameConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func TestApply_Order(t *testing.T) {
	cfg := &frameConfig{}

	err := Apply(cfg, withBlockSize(4096), withName("lz4"), withBlockSize(8192))
	require.NoError(t, err)
	require.Equal(t, 8192, cfg.blockSize)
	require.Equal(t, "lz4", cfg.name)
	require.Equal(t, []string{"blockSize", "name", "blockSize"}, cfg.calls)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	cfg := &frameConfig{}

	err := Apply(cfg, withBlockSize(16), withBlockSize(-1), withName("unreached"))
	require.ErrorIs(t, err, errNegative)
	require.Equal(t, 16, cfg.blockSize)
	require.Empty(t, cfg.name)
}

func TestApply_Empty(t *testing.T) {
	cfg := &frameConfig{level: 3}

	require.NoError(t, Apply(cfg))
	require.Equal(t, 3, cfg.level)
}

func TestApply_SkipsNil(t *testing.T) {
	cfg := &frameConfig{}

	require.NoError(t, Apply(cfg, nil, withName("zstd")))
	require.Equal(t, "zstd", cfg.name)
}

func TestNoError_PrimitiveTarget(t *testing.T) {
	var level int
	require.NoError(t, Apply(&level, NoError(func(n *int) { *n = 9 })))
	require.Equal(t, 9, level)
}
