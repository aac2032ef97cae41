package quant

import (
	"fmt"
	"math"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/internal/options"
	"github.com/arloliu/splatpack/splat"
)

// UnormMax is the largest unorm16 code.
const UnormMax = math.MaxUint16

// Quantize maps v within [vmin, vmax] to the nearest unorm16 code.
//
// The second result is false when v lies outside the range or is NaN; the
// returned code is then meaningless. A zero-extent range encodes as 0.
func Quantize(v, vmin, vmax float32) (uint16, bool) {
	if !(v >= vmin && v <= vmax) {
		return 0, false
	}

	extent := float64(vmax) - float64(vmin)
	if extent == 0 {
		return 0, true
	}

	t := (float64(v) - float64(vmin)) / extent
	u := math.Floor(t*UnormMax + 0.5)
	if u > UnormMax {
		u = UnormMax
	}

	return uint16(u), true
}

// Dequantize expands a unorm16 code back into [vmin, vmax].
func Dequantize(u uint16, vmin, vmax float32) float32 {
	t := float64(u) / UnormMax

	return float32(float64(vmin)*(1-t) + float64(vmax)*t)
}

// Config holds Quantizer settings.
type Config struct {
	layout splat.PackedLayout
}

// Option configures a Quantizer.
type Option = options.Option[*Config]

// WithChannels selects which float channels are quantized, in record order.
// Channels left out are dropped from the packed record and decode as zero.
func WithChannels(channels []splat.Channel) Option {
	return options.New(func(c *Config) error {
		layout, err := splat.NewPackedLayout(channels)
		if err != nil {
			return err
		}
		c.layout = layout

		return nil
	})
}

// WithLayout sets a prebuilt packed layout.
func WithLayout(layout splat.PackedLayout) Option {
	return options.New(func(c *Config) error {
		if layout.Stride() == 0 {
			return fmt.Errorf("%w: empty packed layout", errs.ErrInvalidStride)
		}
		c.layout = layout

		return nil
	})
}

// Quantizer converts float record buffers to packed unorm16 buffers and back
// using a fixed set of per-channel ranges.
//
// A Quantizer is immutable and safe for concurrent use.
type Quantizer struct {
	layout splat.PackedLayout
	ranges Ranges
}

// NewQuantizer creates a Quantizer for ranges. The default layout quantizes
// every channel.
func NewQuantizer(ranges Ranges, opts ...Option) (*Quantizer, error) {
	cfg := &Config{layout: splat.DefaultPackedLayout()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Quantizer{layout: cfg.layout, ranges: ranges}, nil
}

// Layout returns the packed layout produced by Pack.
func (q *Quantizer) Layout() splat.PackedLayout {
	return q.layout
}

// Ranges returns the ranges the quantizer was built with.
func (q *Quantizer) Ranges() Ranges {
	return q.ranges
}

// Pack quantizes a float record buffer into a newly allocated packed buffer.
//
// Every value must lie within its channel range; a value outside it is a
// caller defect reported as errs.ErrValueOutOfRange and is never clamped.
func (q *Quantizer) Pack(buf []byte) ([]byte, error) {
	n, err := splat.RecordCount(buf)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		if err := q.validateRanges(); err != nil {
			return nil, err
		}
	}

	channels := q.layout.Channels()
	packed := make([]byte, n*q.layout.Stride())
	for i := range n {
		for s, ch := range channels {
			rg := q.ranges[ch.Index]
			v := splat.Value(buf, i, ch)
			u, ok := Quantize(v, rg.Min, rg.Max)
			if !ok {
				return nil, fmt.Errorf("%w: record %d channel %s value %v not in [%v, %v]",
					errs.ErrValueOutOfRange, i, ch.Name, v, rg.Min, rg.Max)
			}
			q.layout.PutUnorm(packed, i, s, u)
		}
	}

	return packed, nil
}

// Unpack dequantizes a packed buffer into a newly allocated float record
// buffer.
func (q *Quantizer) Unpack(packed []byte) ([]byte, error) {
	n, err := q.layout.RecordCount(packed)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		if err := q.validateRanges(); err != nil {
			return nil, err
		}
	}

	channels := q.layout.Channels()
	buf := make([]byte, n*splat.RecordStride)
	for i := range n {
		for s, ch := range channels {
			rg := q.ranges[ch.Index]
			splat.SetValue(buf, i, ch, Dequantize(q.layout.Unorm(packed, i, s), rg.Min, rg.Max))
		}
	}

	return buf, nil
}

// validateRanges checks only the channels present in the layout; dropped
// channels may carry any range.
func (q *Quantizer) validateRanges() error {
	for _, ch := range q.layout.Channels() {
		rg := q.ranges[ch.Index]
		if !isFinite(rg.Min) || !isFinite(rg.Max) || rg.Min > rg.Max {
			return fmt.Errorf("%w: channel %s has range [%v, %v]", errs.ErrInvalidRanges, ch.Name, rg.Min, rg.Max)
		}
	}

	return nil
}
