// Package errs defines the sentinel errors shared by the splatpack packages.
//
// Callers should match them with errors.Is; every package wraps them with
// context (channel name, record index, byte offset) using fmt.Errorf and %w.
package errs

import "errors"

// Input validation errors.
var (
	ErrInvalidStride      = errors.New("invalid record stride")
	ErrInvalidRecordCount = errors.New("invalid record count")
	ErrInvalidBlockSize   = errors.New("invalid block size")
	ErrInvalidLevel       = errors.New("invalid compression level")
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	ErrInvalidRanges      = errors.New("invalid value ranges")
	ErrInvalidPermutation = errors.New("invalid permutation")
	ErrUnknownChannel     = errors.New("unknown channel")
)

// Codec selection errors.
var (
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	ErrUnsupportedFilter      = errors.New("unsupported filter type")
)

// Data integrity errors. These indicate corruption or a defect in a lossless
// stage and must abort processing of the dataset.
var (
	ErrCorruptFrame      = errors.New("corrupt chunk frame")
	ErrRoundTripMismatch = errors.New("round-trip mismatch")
)

// ErrValueOutOfRange reports a value outside the range used to quantize its
// channel. It is a contract violation by the caller: ranges must be computed
// over the same data being quantized.
var ErrValueOutOfRange = errors.New("value outside quantization range")
