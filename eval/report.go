package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/splat"
	"gonum.org/v1/gonum/floats"
)

// ChannelError is the absolute error of one channel over all records.
type ChannelError struct {
	Channel splat.Channel
	Avg     float64
	Max     float64
}

// GroupError summarizes a family of related channels.
type GroupError struct {
	Name string
	Avg  float64
	Max  float64
}

// Report holds the reconstruction error between two record buffers.
type Report struct {
	Records     int
	Channels    []ChannelError
	RotationAvg float64 // radians
	RotationMax float64 // radians
}

// Compare measures the per-channel and orientation error of got against want.
// Both buffers must hold the same number of float records; neither is
// modified.
func Compare(want, got []byte) (*Report, error) {
	n, err := splat.RecordCount(want)
	if err != nil {
		return nil, err
	}
	m, err := splat.RecordCount(got)
	if err != nil {
		return nil, err
	}
	if n != m {
		return nil, fmt.Errorf("%w: comparing %d records against %d", errs.ErrInvalidRecordCount, n, m)
	}

	channels := splat.Channels()
	sums := make([]float64, len(channels))
	maxes := make([]float64, len(channels))
	diff := make([]float64, len(channels))

	var rotSum, rotMax float64
	var a, b splat.Record
	for i := range n {
		splat.ReadRecord(want, i, &a)
		splat.ReadRecord(got, i, &b)
		for j := range a {
			diff[j] = math.Abs(float64(a[j]) - float64(b[j]))
			maxes[j] = max(maxes[j], diff[j])
		}
		floats.Add(sums, diff)

		angle := AngleBetween(a.Rotation(), b.Rotation())
		rotSum += angle
		rotMax = max(rotMax, angle)
	}

	report := &Report{
		Records:     n,
		Channels:    make([]ChannelError, len(channels)),
		RotationMax: rotMax,
	}
	if n > 0 {
		floats.Scale(1/float64(n), sums)
	}
	for j, ch := range channels {
		report.Channels[j] = ChannelError{Channel: ch, Avg: sums[j], Max: maxes[j]}
	}
	report.RotationAvg = mean(rotSum, n)

	return report, nil
}

// Channel returns the error of a named channel.
func (r *Report) Channel(name string) (ChannelError, bool) {
	ch, ok := splat.ChannelByName(name)
	if !ok || ch.Index >= len(r.Channels) {
		return ChannelError{}, false
	}

	return r.Channels[ch.Index], true
}

// Kind returns the mean of the channel averages and the largest channel
// maximum over every channel of kind.
func (r *Report) Kind(kind splat.Kind) GroupError {
	var avgs, maxes []float64
	for _, ce := range r.Channels {
		if ce.Channel.Kind == kind {
			avgs = append(avgs, ce.Avg)
			maxes = append(maxes, ce.Max)
		}
	}

	g := GroupError{Name: kind.String()}
	if len(avgs) > 0 {
		g.Avg = floats.Sum(avgs) / float64(len(avgs))
		g.Max = floats.Max(maxes)
	}

	return g
}

// Groups returns the position, rotation, scale, color and opacity summaries
// in that order. Rotation is the angular error in radians; color covers the
// diffuse channels only.
func (r *Report) Groups() []GroupError {
	pos := r.Kind(splat.KindPosition)
	pos.Name = "pos"
	scl := r.Kind(splat.KindScale)
	scl.Name = "scl"
	col := r.Kind(splat.KindColor)
	col.Name = "col"
	opa := r.Kind(splat.KindOpacity)
	opa.Name = "opa"

	return []GroupError{
		pos,
		{Name: "rot", Avg: r.RotationAvg, Max: r.RotationMax},
		scl,
		col,
		opa,
	}
}

// MaxError returns the largest channel maximum.
func (r *Report) MaxError() float64 {
	if len(r.Channels) == 0 {
		return 0
	}

	maxes := make([]float64, len(r.Channels))
	for i, ce := range r.Channels {
		maxes[i] = ce.Max
	}

	return floats.Max(maxes)
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error over %d records:\n", r.Records)
	for _, g := range r.Groups() {
		fmt.Fprintf(&sb, "  - %s avg %7.4f max %7.4f\n", g.Name, g.Avg, g.Max)
	}

	return sb.String()
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}

	return sum / float64(n)
}
