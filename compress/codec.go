package compress

import (
	"fmt"
	"slices"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/format"
)

// Backend is the byte-stream compressor capability consumed by the chunked
// framer.
//
// Implementations receive the record count and stride of the buffer they
// compress. General-purpose backends ignore them; they exist so that
// record-aware compressors can be plugged in without changing the framer.
//
// Backends must be deterministic for a given level and input, and safe for
// concurrent use.
type Backend interface {
	// Type returns the compression identifier.
	Type() format.CompressionType

	// Name returns a short lowercase label such as "zstd".
	Name() string

	// Levels returns the supported effort levels in ascending order.
	Levels() []int

	// DefaultLevel returns the level used when none is configured.
	DefaultLevel() int

	// Compress compresses src at level and returns a newly allocated slice.
	//
	// The output is not guaranteed to be smaller than src. The input slice is
	// never modified or retained.
	Compress(level int, src []byte, recordCount, recordStride int) ([]byte, error)

	// Decompress decompresses src into dst, which must be exactly the size of
	// the original input. Any size mismatch or malformed input is reported
	// as errs.ErrCorruptFrame.
	Decompress(src, dst []byte, recordCount, recordStride int) error
}

// CreateBackend returns a Backend for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Backend: Compressor instance for the specified type
//   - error: errs.ErrUnsupportedCompression for unknown types
func CreateBackend(compressionType format.CompressionType) (Backend, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
	}
}

var builtinBackends = map[format.CompressionType]Backend{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetBackend retrieves a shared built-in Backend for the specified compression type.
func GetBackend(compressionType format.CompressionType) (Backend, error) {
	if b, ok := builtinBackends[compressionType]; ok {
		return b, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// Backends returns every built-in backend ordered by compression type.
func Backends() []Backend {
	out := make([]Backend, 0, len(builtinBackends))
	for _, b := range builtinBackends {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Backend) int { return int(a.Type()) - int(b.Type()) })

	return out
}

// CheckLevel reports errs.ErrInvalidLevel when level is not one of b's levels.
func CheckLevel(b Backend, level int) error {
	if !slices.Contains(b.Levels(), level) {
		return fmt.Errorf("%w: %s does not support level %d (supported %v)", errs.ErrInvalidLevel, b.Name(), level, b.Levels())
	}

	return nil
}

func sizeMismatch(name string, got, want int) error {
	return fmt.Errorf("%w: %s block decoded to %d bytes, expected %d", errs.ErrCorruptFrame, name, got, want)
}

// copyInto copies out into dst unless they already share backing memory.
func copyInto(dst, out []byte) {
	if len(out) == 0 || &dst[0] == &out[0] {
		return
	}
	copy(dst, out)
}
