// Package pipeline composes the splat transform stages into a single encode
// and decode path.
//
// Encode takes little-endian float records (splat.RecordStride bytes each),
// orders them along a Morton curve, remaps opacity and scale, computes
// per-channel ranges, quantizes to unorm16 and frames the packed buffer with a
// chunk.Codec. The returned Encoded value carries the frame together with the
// ranges and permutation Decode needs.
//
//	enc, err := pipeline.Encode(records,
//		pipeline.WithCompression(format.CompressionZstd),
//		pipeline.WithBlockSize(format.BlockSize1M),
//		pipeline.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	restored, err := pipeline.Decode(enc,
//		pipeline.WithCompression(format.CompressionZstd),
//		pipeline.WithBlockSize(format.BlockSize1M),
//	)
//
// This is the only package that logs.
package pipeline
