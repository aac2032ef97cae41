package eval

import (
	"math"
	"testing"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/splat"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
)

func TestAngleBetween(t *testing.T) {
	identity := [4]float32{1, 0, 0, 0}
	// 90 degrees about z, stored w, x, y, z
	s := float32(math.Sqrt2 / 2)
	rotZ90 := [4]float32{s, 0, 0, s}

	tests := []struct {
		name string
		q1   [4]float32
		q2   [4]float32
		want float64
	}{
		{"identity", identity, identity, 0},
		{"same_rotation", rotZ90, rotZ90, 0},
		{"opposite_sign", rotZ90, [4]float32{-s, 0, 0, -s}, 0},
		{"quarter_turn", identity, rotZ90, math.Pi / 2},
		{"half_turn", identity, [4]float32{0, 1, 0, 0}, math.Pi},
		{"unnormalized", [4]float32{2, 0, 0, 0}, [4]float32{3 * s, 0, 0, 3 * s}, math.Pi / 2},
		{"zero_length", [4]float32{}, identity, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleBetween(tt.q1, tt.q2)
			require.InDelta(t, tt.want, got, 1e-5)
			require.False(t, math.IsNaN(got))
		})
	}
}

func TestAngleBetween_Symmetric(t *testing.T) {
	q1 := [4]float32{0.9, 0.1, -0.3, 0.2}
	q2 := [4]float32{0.7, -0.2, 0.4, 0.1}
	require.InDelta(t, AngleBetween(q1, q2), AngleBetween(q2, q1), 1e-9)
}

func TestAngleBetween_ComposedRotation(t *testing.T) {
	base := quat.Number{Real: 0.8, Imag: 0.2, Jmag: -0.4, Kmag: 0.4}
	base = quat.Scale(1/quat.Abs(base), base)

	axis := [3]float64{1 / math.Sqrt(3), 1 / math.Sqrt(3), 1 / math.Sqrt(3)}
	for _, theta := range []float64{0.01, 0.5, 1.2, 2.5} {
		s := math.Sin(theta / 2)
		delta := quat.Number{Real: math.Cos(theta / 2), Imag: axis[0] * s, Jmag: axis[1] * s, Kmag: axis[2] * s}
		rotated := quat.Mul(base, delta)

		q1 := [4]float32{float32(base.Real), float32(base.Imag), float32(base.Jmag), float32(base.Kmag)}
		q2 := [4]float32{float32(rotated.Real), float32(rotated.Imag), float32(rotated.Jmag), float32(rotated.Kmag)}
		require.InDelta(t, theta, AngleBetween(q1, q2), 1e-3, "theta %v", theta)
	}
}

func sampleRecords(n int) []splat.Record {
	records := make([]splat.Record, n)
	for i := range records {
		for j := range records[i] {
			records[i][j] = float32(i) + float32(j)*0.5
		}
		records[i].SetRotation([4]float32{1, 0, 0, 0})
	}

	return records
}

func TestCompare_Identical(t *testing.T) {
	require := require.New(t)

	buf := splat.Encode(sampleRecords(10))
	orig := append([]byte(nil), buf...)

	report, err := Compare(buf, buf)
	require.NoError(err)
	require.Equal(10, report.Records)
	require.Len(report.Channels, splat.ChannelCount)
	require.Zero(report.MaxError())
	require.Zero(report.RotationMax)
	require.Equal(orig, buf)
}

func TestCompare_Errors(t *testing.T) {
	require := require.New(t)

	want := sampleRecords(4)
	got := sampleRecords(4)
	got[1][splat.IndexPosition] += 0.4
	got[3][splat.IndexPosition+2] -= 0.2
	got[2][splat.IndexOpacity] += 0.1
	s := float32(math.Sqrt2 / 2)
	got[0].SetRotation([4]float32{s, s, 0, 0})

	report, err := Compare(splat.Encode(want), splat.Encode(got))
	require.NoError(err)

	px, ok := report.Channel("px")
	require.True(ok)
	require.InDelta(0.4, px.Max, 1e-5)
	require.InDelta(0.1, px.Avg, 1e-5)

	_, ok = report.Channel("bogus")
	require.False(ok)

	require.InDelta(math.Pi/2, report.RotationMax, 1e-5)
	require.InDelta(math.Pi/8, report.RotationAvg, 1e-5)

	groups := report.Groups()
	require.Len(groups, 5)
	require.Equal([]string{"pos", "rot", "scl", "col", "opa"},
		[]string{groups[0].Name, groups[1].Name, groups[2].Name, groups[3].Name, groups[4].Name})
	require.InDelta(0.4, groups[0].Max, 1e-5)
	require.InDelta((0.1+0.05)/3, groups[0].Avg, 1e-5)
	require.InDelta(0.1, groups[4].Max, 1e-5)
	require.Zero(groups[2].Max)

	require.Contains(report.String(), "pos avg")
}

func TestCompare_Validation(t *testing.T) {
	a := splat.Encode(sampleRecords(2))
	b := splat.Encode(sampleRecords(3))

	_, err := Compare(a, b)
	require.ErrorIs(t, err, errs.ErrInvalidRecordCount)

	_, err = Compare(a[:10], a[:10])
	require.ErrorIs(t, err, errs.ErrInvalidStride)

	report, err := Compare(nil, nil)
	require.NoError(t, err)
	require.Zero(t, report.Records)
	require.Zero(t, report.RotationAvg)
}

func TestVerifyBytes(t *testing.T) {
	require := require.New(t)

	want := []byte("quantized splat records")
	require.NoError(VerifyBytes(want, append([]byte(nil), want...)))
	require.NoError(VerifyBytes(nil, []byte{}))

	got := append([]byte(nil), want...)
	got[5] ^= 0xFF
	err := VerifyBytes(want, got)
	require.ErrorIs(err, errs.ErrRoundTripMismatch)
	require.Contains(err.Error(), "byte 5")

	big := make([]byte, 300_000)
	bigGot := append([]byte(nil), big...)
	bigGot[200_001] = 7
	err = VerifyBytes(big, bigGot)
	require.ErrorIs(err, errs.ErrRoundTripMismatch)
	require.Contains(err.Error(), "byte 200001")

	err = VerifyBytes(want, want[:3])
	require.ErrorIs(err, errs.ErrRoundTripMismatch)
}
