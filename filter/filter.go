// Package filter provides reversible byte-wise transforms applied to record
// buffers immediately before a backend compressor.
//
// ByteDelta replaces each byte with its difference (mod 256) from the byte at
// the same offset in the previous record. Fixed-stride records have strongly
// correlated byte lanes, so the filtered stream is dominated by small values
// that general-purpose compressors encode well.
//
// Filters never allocate: src and dst must both hold stride*count bytes and
// may not overlap unless they are the same slice.
package filter

import (
	"fmt"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/format"
)

// Filter is a pair of exact inverse byte transforms parameterized by record
// stride and record count.
type Filter interface {
	// Type returns the filter identifier.
	Type() format.FilterType

	// Name returns a short suffix used to label filtered configurations.
	Name() string

	// Filter writes the transform of src into dst.
	Filter(src, dst []byte, stride, count int)

	// Unfilter writes the inverse transform of src into dst.
	Unfilter(src, dst []byte, stride, count int)
}

// Create returns the built-in filter for filterType.
func Create(filterType format.FilterType) (Filter, error) {
	switch filterType {
	case format.FilterNone:
		return None{}, nil
	case format.FilterByteDelta:
		return ByteDelta{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedFilter, filterType)
	}
}

// None copies src to dst unchanged.
type None struct{}

var _ Filter = None{}

func (None) Type() format.FilterType { return format.FilterNone }

func (None) Name() string { return "" }

func (None) Filter(src, dst []byte, stride, count int) {
	copy(dst[:stride*count], src[:stride*count])
}

func (None) Unfilter(src, dst []byte, stride, count int) {
	copy(dst[:stride*count], src[:stride*count])
}

// ByteDelta is the per byte-lane predecessor delta filter.
type ByteDelta struct{}

var _ Filter = ByteDelta{}

func (ByteDelta) Type() format.FilterType { return format.FilterByteDelta }

func (ByteDelta) Name() string { return "bd" }

// Filter leaves record 0 untouched and stores every later byte as its
// difference from the same lane of the previous record.
func (ByteDelta) Filter(src, dst []byte, stride, count int) {
	n := stride * count
	if n == 0 {
		return
	}
	src, dst = src[:n], dst[:n]

	// walk backwards so dst may alias src
	for i := n - 1; i >= stride; i-- {
		dst[i] = src[i] - src[i-stride]
	}
	copy(dst[:stride], src[:stride])
}

// Unfilter reverses Filter with a per-lane prefix sum.
func (ByteDelta) Unfilter(src, dst []byte, stride, count int) {
	n := stride * count
	if n == 0 {
		return
	}
	src, dst = src[:n], dst[:n]

	copy(dst[:stride], src[:stride])
	for i := stride; i < n; i++ {
		dst[i] = src[i] + dst[i-stride]
	}
}
