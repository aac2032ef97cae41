package pipeline

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/splatpack/format"
)

func TestMetrics_Encode(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewPedanticRegistry()
	metrics := NewMetrics(reg)

	src := syntheticCloud(200, 10)
	enc, err := Encode(src, WithMetrics(metrics))
	require.NoError(err)

	_, err = Decode(enc, WithMetrics(metrics))
	require.NoError(err)

	require.InDelta(1, testutil.ToFloat64(metrics.OperationTotal.WithLabelValues("encode", "success")), 0)
	require.InDelta(1, testutil.ToFloat64(metrics.OperationTotal.WithLabelValues("decode", "success")), 0)
	require.InDelta(float64(len(src)), testutil.ToFloat64(metrics.Bytes.WithLabelValues("input")), 0)
	require.InDelta(float64(enc.PackedSize()), testutil.ToFloat64(metrics.Bytes.WithLabelValues("packed")), 0)
	require.InDelta(float64(len(enc.Frame)), testutil.ToFloat64(metrics.Bytes.WithLabelValues("framed")), 0)
	require.Zero(testutil.ToFloat64(metrics.FallbackTotal))
	require.Equal(2, testutil.CollectAndCount(metrics.OperationDuration))
}

func TestMetrics_ErrorsAndFallback(t *testing.T) {
	require := require.New(t)

	metrics := NewMetrics(prometheus.NewRegistry())

	_, err := Encode(make([]byte, 10), WithMetrics(metrics))
	require.Error(err)
	require.InDelta(1, testutil.ToFloat64(metrics.OperationTotal.WithLabelValues("encode", "error")), 0)

	_, err = Encode(syntheticCloud(50, 11), WithMetrics(metrics), WithCompression(format.CompressionNone))
	require.NoError(err)
	require.InDelta(1, testutil.ToFloat64(metrics.FallbackTotal), 0)
}

func TestMetrics_Unregistered(t *testing.T) {
	metrics := NewMetrics(nil)
	_, err := Encode(syntheticCloud(10, 12), WithMetrics(metrics))
	require.NoError(t, err)
}
