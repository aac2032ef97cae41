package quant

import (
	"fmt"
	"math"

	"github.com/arloliu/splatpack/endian"
	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/splat"
)

// RangesSize is the size of a serialized Ranges value in bytes.
const RangesSize = splat.ChannelCount * 8

// Range is the closed value interval observed for one channel.
type Range struct {
	Min float32
	Max float32
}

// Extent returns Max-Min in float64.
func (r Range) Extent() float64 {
	return float64(r.Max) - float64(r.Min)
}

// Contains reports whether v lies within the range. NaN is never contained.
func (r Range) Contains(v float32) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds one Range per record channel.
type Ranges [splat.ChannelCount]Range

// NewRanges returns ranges initialized to (+Inf, -Inf) so that the first
// observed value sets both bounds.
func NewRanges() Ranges {
	var r Ranges
	for i := range r {
		r[i] = Range{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
	}

	return r
}

// Observe widens the ranges to include every channel of rec.
func (r *Ranges) Observe(rec *splat.Record) {
	for i, v := range rec {
		if v < r[i].Min {
			r[i].Min = v
		}
		if v > r[i].Max {
			r[i].Max = v
		}
	}
}

// ComputeRanges returns the per-channel minimum and maximum across a float
// record buffer in a single pass. It must run after every remapping step so
// the ranges bound the values that are actually quantized.
func ComputeRanges(buf []byte) (Ranges, error) {
	n, err := splat.RecordCount(buf)
	if err != nil {
		return Ranges{}, err
	}

	ranges := NewRanges()
	var rec splat.Record
	for i := range n {
		splat.ReadRecord(buf, i, &rec)
		ranges.Observe(&rec)
	}

	return ranges, nil
}

// Validate checks that every range is finite and ordered.
func (r *Ranges) Validate() error {
	for i, rg := range r {
		if !isFinite(rg.Min) || !isFinite(rg.Max) || rg.Min > rg.Max {
			return fmt.Errorf("%w: channel %s has range [%v, %v]", errs.ErrInvalidRanges, splat.ChannelAt(i).Name, rg.Min, rg.Max)
		}
	}

	return nil
}

// MarshalBinary encodes the ranges as little-endian (min, max) float32 pairs
// in channel order.
func (r Ranges) MarshalBinary() ([]byte, error) {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, RangesSize)
	for _, rg := range r {
		buf = endian.AppendFloat32(engine, buf, rg.Min)
		buf = endian.AppendFloat32(engine, buf, rg.Max)
	}

	return buf, nil
}

// UnmarshalBinary decodes ranges produced by MarshalBinary.
func (r *Ranges) UnmarshalBinary(data []byte) error {
	if len(data) != RangesSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrInvalidRanges, RangesSize, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	for i := range r {
		r[i].Min = endian.Float32(engine, data[i*8:])
		r[i].Max = endian.Float32(engine, data[i*8+4:])
	}

	return nil
}

func isFinite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
