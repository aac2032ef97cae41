// Package morton reorders splat records along a 3-D Morton (Z-order) curve.
//
// Records near each other in space end up near each other in the buffer,
// which improves access locality for consumers and makes neighbouring records
// more similar for the byte-delta filter.
//
// Positions are normalized into the bounding box of the dataset, quantized to
// 21 bits per axis and interleaved into a 63-bit key (x in bits 0,3,6..., y in
// bits 1,4,7..., z in bits 2,5,8...). Records are sorted by key with the
// original index as tie-breaker, so the ordering is deterministic.
package morton

import "math"

// AxisBits is the number of bits retained per axis.
const AxisBits = 21

const axisMax = 1<<AxisBits - 1

// Part1By2 spreads the low 21 bits of x so that two zero bits follow each
// retained bit.
func Part1By2(x uint64) uint64 {
	x &= axisMax
	x = (x ^ (x << 32)) & 0x1f00000000ffff
	x = (x ^ (x << 16)) & 0x1f0000ff0000ff
	x = (x ^ (x << 8)) & 0x100f00f00f00f00f
	x = (x ^ (x << 4)) & 0x10c30c30c30c30c3
	x = (x ^ (x << 2)) & 0x1249249249249249

	return x
}

// Compact1By2 is the inverse of Part1By2.
func Compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & axisMax

	return x
}

// Encode3 interleaves three 21-bit coordinates into a Morton key.
func Encode3(x, y, z uint32) uint64 {
	return Part1By2(uint64(z))<<2 | Part1By2(uint64(y))<<1 | Part1By2(uint64(x))
}

// Decode3 splits a Morton key back into its three coordinates.
func Decode3(key uint64) (x, y, z uint32) {
	return uint32(Compact1By2(key)), uint32(Compact1By2(key >> 1)), uint32(Compact1By2(key >> 2))
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns a box that any point widens.
func EmptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// Extend widens b to contain p. Non-finite components are ignored.
func (b *Bounds) Extend(p [3]float32) {
	for a := range 3 {
		v := float64(p[a])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b.Min[a] = min(b.Min[a], p[a])
		b.Max[a] = max(b.Max[a], p[a])
	}
}

// Quantize maps a position into 21-bit grid coordinates inside b. A
// zero-extent axis, and any coordinate that does not normalize to a finite
// value, maps to 0.
func (b *Bounds) Quantize(p [3]float32) [3]uint32 {
	var out [3]uint32
	for a := range 3 {
		extent := float64(b.Max[a]) - float64(b.Min[a])
		if !(extent > 0) || math.IsInf(extent, 0) {
			continue
		}
		t := (float64(p[a]) - float64(b.Min[a])) / extent
		if !(t > 0) {
			continue
		}
		if t > 1 {
			t = 1
		}
		out[a] = uint32(t * axisMax)
	}

	return out
}

// Key returns the Morton key of p inside b.
func (b *Bounds) Key(p [3]float32) uint64 {
	c := b.Quantize(p)
	return Encode3(c[0], c[1], c[2])
}
