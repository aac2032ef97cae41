// Package splatpack prepares Gaussian splat point clouds for general-purpose
// compression.
//
// A splat record holds 62 float32 channels: position, normal, diffuse color,
// 45 spherical-harmonic coefficients, opacity, anisotropic scale and an
// orientation quaternion. splatpack turns a buffer of such records into a
// compact frame through a chain of reversible stages.
//
// # Core Features
//
//   - Morton (Z-order) spatial reordering with a persisted permutation
//   - Domain remapping of opacity (logistic) and scale (fourth root of exp)
//   - Per-channel range tracking and unorm16 quantization
//   - Per byte-lane delta filter ahead of the compressor
//   - Chunked framing with a raw fallback that never grows the input by more
//     than four bytes
//   - Pluggable compressors (None, Zstd, S2, LZ4) and optional parallel blocks
//   - Error evaluation per channel and angular error on rotations
//
// # Basic Usage
//
//	records := splat.Encode(cloud) // []splat.Record to little-endian bytes
//
//	enc, err := splatpack.Encode(records)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(enc.Stats)
//
//	restored, err := splatpack.Decode(enc)
//
// # Package Structure
//
// This package wraps the pipeline package with a default configuration. For
// stage-level control use splat, remap, morton, quant, filter, compress,
// chunk and eval directly.
package splatpack

import (
	"github.com/arloliu/splatpack/format"
	"github.com/arloliu/splatpack/internal/hash"
	"github.com/arloliu/splatpack/pipeline"
)

// DefaultOptions returns the configuration used by Encode and Decode: zstd at
// its default level, byte-delta filter, 1 MiB blocks, Morton reordering with
// order restoration on decode. No level is pinned, so overriding the backend
// picks up that backend's default level.
func DefaultOptions() []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithCompression(format.CompressionZstd),
		pipeline.WithFilter(format.FilterByteDelta),
		pipeline.WithBlockSize(format.BlockSize1M),
		pipeline.WithReorder(true),
		pipeline.WithRestoreOrder(true),
	}
}

// NewPipeline creates a pipeline from the default options followed by opts.
//
// Example:
//
//	p, err := splatpack.NewPipeline(
//	    pipeline.WithCompression(format.CompressionLZ4),
//	    pipeline.WithLevel(9),
//	)
func NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.New(append(DefaultOptions(), opts...)...)
}

// Encode encodes a float record buffer with the default options followed by
// opts.
func Encode(records []byte, opts ...pipeline.Option) (*pipeline.Encoded, error) {
	p, err := NewPipeline(opts...)
	if err != nil {
		return nil, err
	}

	return p.Encode(records)
}

// Decode reverses Encode. opts must match the ones given to Encode.
func Decode(enc *pipeline.Encoded, opts ...pipeline.Option) ([]byte, error) {
	p, err := NewPipeline(opts...)
	if err != nil {
		return nil, err
	}

	return p.Decode(enc)
}

// Fingerprint returns the 64-bit xxHash of data. Comparing the fingerprints
// of a source buffer and its reconstruction is a cheap lossless check.
func Fingerprint(data []byte) uint64 {
	return hash.Sum(data)
}
