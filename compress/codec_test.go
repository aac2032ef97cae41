package compress

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/format"
	"github.com/stretchr/testify/require"
)

func compressibleData(size int) []byte {
	pattern := []byte("px py pz nx ny nz dc_r dc_g dc_b opacity sx sy sz rot_w")
	data := make([]byte, size)
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}

	return data
}

func randomData(size int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(r.Uint32())
	}

	return data
}

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		typ  format.CompressionType
		name string
	}{
		{format.CompressionNone, "none"},
		{format.CompressionZstd, "zstd"},
		{format.CompressionS2, "s2"},
		{format.CompressionLZ4, "lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			b, err := CreateBackend(tt.typ)
			require.NoError(err)
			require.Equal(tt.typ, b.Type())
			require.Equal(tt.name, b.Name())
			require.Contains(b.Levels(), b.DefaultLevel())

			shared, err := GetBackend(tt.typ)
			require.NoError(err)
			require.Equal(tt.typ, shared.Type())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := CreateBackend(format.CompressionType(0xEE))
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

		_, err = GetBackend(format.CompressionType(0xEE))
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	})
}

func TestBackends_Ordered(t *testing.T) {
	backends := Backends()
	require.Len(t, backends, 4)
	for i := 1; i < len(backends); i++ {
		require.Less(t, backends[i-1].Type(), backends[i].Type())
	}
}

func TestAllBackends_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"compressible": compressibleData(64 * 1024),
		"random":       randomData(8*1024, 7),
		"single_byte":  {0x42},
		"zeros":        make([]byte, 10_000),
	}

	for _, b := range Backends() {
		for _, level := range b.Levels() {
			for name, input := range inputs {
				t.Run(fmt.Sprintf("%s/level_%d/%s", b.Name(), level, name), func(t *testing.T) {
					require := require.New(t)
					orig := bytes.Clone(input)

					compressed, err := b.Compress(level, input, len(input), 1)
					require.NoError(err)
					require.Equal(orig, input, "input must not be modified")

					out := make([]byte, len(input))
					require.NoError(b.Decompress(compressed, out, len(input), 1))
					require.Equal(input, out)
				})
			}
		}
	}
}

func TestAllBackends_Deterministic(t *testing.T) {
	input := compressibleData(32 * 1024)
	for _, b := range Backends() {
		t.Run(b.Name(), func(t *testing.T) {
			first, err := b.Compress(b.DefaultLevel(), input, 0, 0)
			require.NoError(t, err)
			second, err := b.Compress(b.DefaultLevel(), input, 0, 0)
			require.NoError(t, err)
			require.Equal(t, first, second)
		})
	}
}

func TestAllBackends_EmptyData(t *testing.T) {
	for _, b := range Backends() {
		t.Run(b.Name(), func(t *testing.T) {
			require := require.New(t)

			compressed, err := b.Compress(b.DefaultLevel(), []byte{}, 0, 0)
			require.NoError(err)
			require.Empty(compressed)

			require.NoError(b.Decompress(compressed, []byte{}, 0, 0))
			require.ErrorIs(b.Decompress([]byte{1, 2, 3}, []byte{}, 0, 0), errs.ErrCorruptFrame)
		})
	}
}

func TestAllBackends_CompressesRedundantData(t *testing.T) {
	input := make([]byte, 256*1024)
	for _, b := range Backends() {
		if b.Type() == format.CompressionNone {
			continue
		}
		t.Run(b.Name(), func(t *testing.T) {
			compressed, err := b.Compress(b.DefaultLevel(), input, 0, 0)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(input)/10)
		})
	}
}

func TestAllBackends_SizeMismatch(t *testing.T) {
	input := compressibleData(4096)
	for _, b := range Backends() {
		t.Run(b.Name(), func(t *testing.T) {
			require := require.New(t)

			compressed, err := b.Compress(b.DefaultLevel(), input, 0, 0)
			require.NoError(err)

			tooLarge := make([]byte, len(input)+17)
			err = b.Decompress(compressed, tooLarge, 0, 0)
			require.ErrorIs(err, errs.ErrCorruptFrame)
		})
	}
}

func TestAllBackends_CorruptInput(t *testing.T) {
	garbage := randomData(512, 99)
	for _, b := range Backends() {
		if b.Type() == format.CompressionNone {
			continue
		}
		t.Run(b.Name(), func(t *testing.T) {
			out := make([]byte, 4096)
			err := b.Decompress(garbage, out, 0, 0)
			require.Error(t, err)
			require.True(t, errors.Is(err, errs.ErrCorruptFrame), "got %v", err)
		})
	}
}

func TestAllBackends_InvalidLevel(t *testing.T) {
	for _, b := range Backends() {
		if b.Type() == format.CompressionNone {
			continue
		}
		t.Run(b.Name(), func(t *testing.T) {
			_, err := b.Compress(-5, []byte("abc"), 0, 0)
			require.ErrorIs(t, err, errs.ErrInvalidLevel)
		})
	}
}

func TestNoOpCompressor_Copies(t *testing.T) {
	require := require.New(t)

	c := NewNoOpCompressor()
	input := []byte("hello")
	out, err := c.Compress(0, input, 0, 0)
	require.NoError(err)
	require.Equal(input, out)

	out[0] = 'j'
	require.Equal(byte('h'), input[0], "output must not alias input")
}

func TestZstdCompressor_LevelsAffectRatio(t *testing.T) {
	require := require.New(t)

	c := NewZstdCompressor()
	input := compressibleData(128 * 1024)
	copy(input[1000:], randomData(16*1024, 3))

	fast, err := c.Compress(1, input, 0, 0)
	require.NoError(err)
	best, err := c.Compress(11, input, 0, 0)
	require.NoError(err)
	require.LessOrEqual(len(best), len(fast))
}

func TestBackends_ConcurrentUse(t *testing.T) {
	input := compressibleData(16 * 1024)
	for _, b := range Backends() {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			done := make(chan error, 8)
			for range 8 {
				go func() {
					compressed, err := b.Compress(b.DefaultLevel(), input, 0, 0)
					if err != nil {
						done <- err
						return
					}
					out := make([]byte, len(input))
					if err := b.Decompress(compressed, out, 0, 0); err != nil {
						done <- err
						return
					}
					if !bytes.Equal(out, input) {
						done <- errors.New("round trip mismatch")
						return
					}
					done <- nil
				}()
			}
			for range 8 {
				require.NoError(t, <-done)
			}
		})
	}
}
