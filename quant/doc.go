// Package quant tracks per-channel value ranges and quantizes float splat
// records to 16-bit normalized integers.
//
// Usage:
//
//	ranges, err := quant.ComputeRanges(records) // after remap.Apply
//	q, err := quant.NewQuantizer(ranges)
//	packed, err := q.Pack(records)
//	restored, err := q.Unpack(packed)
//
// Each channel is mapped affinely onto [0, 65535] using its own (min, max), so
// the round-trip error of a channel never exceeds (max-min)/65535. Ranges must
// be computed over the exact data being packed: Pack rejects values outside
// them with errs.ErrValueOutOfRange rather than clamping.
package quant
