package quant

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/splat"
	"github.com/stretchr/testify/require"
)

func TestQuantize_Endpoints(t *testing.T) {
	u, ok := Quantize(-2, -2, 6)
	require.True(t, ok)
	require.Equal(t, uint16(0), u)

	u, ok = Quantize(6, -2, 6)
	require.True(t, ok)
	require.Equal(t, uint16(UnormMax), u)

	u, ok = Quantize(2, -2, 6)
	require.True(t, ok)
	require.Equal(t, uint16(32768), u) // 0.5*65535 rounds up

	require.Equal(t, float32(-2), Dequantize(0, -2, 6))
	require.Equal(t, float32(6), Dequantize(UnormMax, -2, 6))
}

func TestQuantize_OutOfRange(t *testing.T) {
	_, ok := Quantize(1.5, 0, 1)
	require.False(t, ok)

	_, ok = Quantize(-0.001, 0, 1)
	require.False(t, ok)

	_, ok = Quantize(float32(math.NaN()), 0, 1)
	require.False(t, ok)
}

func TestQuantize_ZeroExtent(t *testing.T) {
	u, ok := Quantize(3, 3, 3)
	require.True(t, ok)
	require.Equal(t, uint16(0), u)
	require.Equal(t, float32(3), Dequantize(u, 3, 3))
}

func TestQuantize_ErrorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bounds := []Range{{0, 1}, {-1, 1}, {-100, 250}, {0.001, 0.002}, {-3.5, -3.25}}

	for _, rg := range bounds {
		limit := rg.Extent() / UnormMax
		for range 2000 {
			v := rg.Min + float32(rng.Float64()*rg.Extent())
			if v > rg.Max {
				v = rg.Max
			}
			u, ok := Quantize(v, rg.Min, rg.Max)
			require.True(t, ok)
			got := Dequantize(u, rg.Min, rg.Max)
			require.LessOrEqual(t, math.Abs(float64(got)-float64(v)), limit, "range %v value %v", rg, v)
		}
	}
}

func randomRecords(rng *rand.Rand, n int) []byte {
	records := make([]splat.Record, n)
	for i := range records {
		for c := range records[i] {
			records[i][c] = float32(rng.NormFloat64() * float64(c+1))
		}
	}

	return splat.Encode(records)
}

func TestQuantizer_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buf := randomRecords(rng, 500)

	ranges, err := ComputeRanges(buf)
	require.NoError(t, err)

	q, err := NewQuantizer(ranges)
	require.NoError(t, err)
	require.Equal(t, splat.PackedStride, q.Layout().Stride())

	packed, err := q.Pack(buf)
	require.NoError(t, err)
	require.Len(t, packed, 500*splat.PackedStride)

	restored, err := q.Unpack(packed)
	require.NoError(t, err)
	require.Len(t, restored, len(buf))

	for i := range 500 {
		for _, ch := range splat.Channels() {
			want := splat.Value(buf, i, ch)
			got := splat.Value(restored, i, ch)
			limit := ranges[ch.Index].Extent() / UnormMax
			require.LessOrEqual(t, math.Abs(float64(got)-float64(want)), limit, "record %d channel %s", i, ch.Name)
		}
	}
}

func TestQuantizer_CompactLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	buf := randomRecords(rng, 20)

	ranges, err := ComputeRanges(buf)
	require.NoError(t, err)

	q, err := NewQuantizer(ranges, WithChannels(splat.CompactChannels()))
	require.NoError(t, err)
	require.Equal(t, 118, q.Layout().Stride())

	packed, err := q.Pack(buf)
	require.NoError(t, err)
	require.Len(t, packed, 20*118)

	restored, err := q.Unpack(packed)
	require.NoError(t, err)

	for i := range 20 {
		for _, ch := range splat.ChannelsOfKind(splat.KindNormal) {
			require.Zero(t, splat.Value(restored, i, ch))
		}
		px := splat.ChannelAt(splat.IndexPosition)
		require.InDelta(t, splat.Value(buf, i, px), splat.Value(restored, i, px), ranges[0].Extent()/UnormMax)
	}
}

func TestQuantizer_RejectsOutOfRange(t *testing.T) {
	buf := splat.Encode([]splat.Record{{}, {}})

	ranges, err := ComputeRanges(buf)
	require.NoError(t, err)

	// widen the data past the range after it has been computed
	splat.SetValue(buf, 1, splat.ChannelAt(splat.IndexOpacity), 2)

	q, err := NewQuantizer(ranges)
	require.NoError(t, err)

	_, err = q.Pack(buf)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)
	require.Contains(t, err.Error(), "opacity")
}

func TestQuantizer_InvalidInput(t *testing.T) {
	q, err := NewQuantizer(NewRanges())
	require.NoError(t, err)

	// empty buffers need no valid ranges
	packed, err := q.Pack(nil)
	require.NoError(t, err)
	require.Empty(t, packed)

	_, err = q.Pack(make([]byte, splat.RecordStride))
	require.ErrorIs(t, err, errs.ErrInvalidRanges)

	_, err = q.Pack(make([]byte, 17))
	require.ErrorIs(t, err, errs.ErrInvalidStride)

	_, err = q.Unpack(make([]byte, 3))
	require.ErrorIs(t, err, errs.ErrInvalidStride)

	_, err = NewQuantizer(NewRanges(), WithChannels(nil))
	require.ErrorIs(t, err, errs.ErrUnknownChannel)

	_, err = NewQuantizer(NewRanges(), WithLayout(splat.PackedLayout{}))
	require.ErrorIs(t, err, errs.ErrInvalidStride)
}
