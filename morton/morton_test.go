package morton

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode3_BitPositions(t *testing.T) {
	require.Equal(t, uint64(1), Encode3(1, 0, 0))
	require.Equal(t, uint64(2), Encode3(0, 1, 0))
	require.Equal(t, uint64(4), Encode3(0, 0, 1))
	require.Equal(t, uint64(8), Encode3(2, 0, 0))
	require.Equal(t, uint64(0x1249249249249249), Encode3(axisMax, 0, 0))
	require.Equal(t, uint64(0x7fffffffffffffff), Encode3(axisMax, axisMax, axisMax))
}

func TestEncode3_IgnoresHighBits(t *testing.T) {
	require.Equal(t, Encode3(5, 6, 7), Encode3(5|1<<21, 6|1<<25, 7|1<<31))
}

func TestEncodeDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 1000 {
		x := uint32(rng.Intn(axisMax + 1))
		y := uint32(rng.Intn(axisMax + 1))
		z := uint32(rng.Intn(axisMax + 1))

		dx, dy, dz := Decode3(Encode3(x, y, z))
		require.Equal(t, x, dx)
		require.Equal(t, y, dy)
		require.Equal(t, z, dz)
	}
}

func TestBounds_Quantize(t *testing.T) {
	b := EmptyBounds()
	b.Extend([3]float32{0, 0, 0})
	b.Extend([3]float32{1, 2, 0})

	require.Equal(t, [3]uint32{0, 0, 0}, b.Quantize([3]float32{0, 0, 0}))
	require.Equal(t, [3]uint32{axisMax, axisMax, 0}, b.Quantize([3]float32{1, 2, 0}))

	mid := b.Quantize([3]float32{0.5, 1, 0})
	require.Equal(t, uint32(axisMax/2), mid[0])
	require.Equal(t, uint32(axisMax/2), mid[1])
	require.Zero(t, mid[2], "zero-extent axis maps to zero")

	nan := float32(math.NaN())
	require.Equal(t, [3]uint32{0, 0, 0}, b.Quantize([3]float32{nan, nan, nan}))
}

func TestBounds_Degenerate(t *testing.T) {
	b := EmptyBounds()
	b.Extend([3]float32{3, 3, 3})

	require.Equal(t, [3]uint32{}, b.Quantize([3]float32{3, 3, 3}))
	require.Zero(t, b.Key([3]float32{3, 3, 3}))
}

func TestBounds_IgnoresNonFinite(t *testing.T) {
	require := require.New(t)

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	b := EmptyBounds()
	for _, p := range [][3]float32{{0, 0, 0}, {1, 1, 1}, {nan, 0.2, 0.2}, {0.5, inf, 0.5}} {
		b.Extend(p)
	}
	require.Equal([3]float32{0, 0, 0}, b.Min)
	require.Equal([3]float32{1, 1, 1}, b.Max)

	c := b.Quantize([3]float32{1, 1, 1})
	require.NotZero(c[0])
	require.NotZero(c[1])
	require.NotZero(c[2])
}
