package format

import "strings"

type (
	CompressionType uint8
	FilterType      uint8
	BlockSize       uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone copies bytes through unchanged.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.

	FilterNone      FilterType = 0x1 // FilterNone leaves bytes untouched before compression.
	FilterByteDelta FilterType = 0x2 // FilterByteDelta applies the per byte-lane predecessor delta.
)

// Block sizes supported by the chunked framer. BlockSizeNone compresses the
// whole buffer as a single block.
const (
	BlockSizeNone BlockSize = iota
	BlockSize64K
	BlockSize256K
	BlockSize1M
	BlockSize4M
	BlockSize16M
	BlockSize64M
	blockSizeCount
)

var blockSizeBytes = [blockSizeCount]int{
	0,
	64 * 1024,
	256 * 1024,
	1024 * 1024,
	4 * 1024 * 1024,
	16 * 1024 * 1024,
	64 * 1024 * 1024,
}

var blockSizeNames = [blockSizeCount]string{
	"None",
	"64K",
	"256K",
	"1M",
	"4M",
	"16M",
	"64M",
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "None"
	case FilterByteDelta:
		return "ByteDelta"
	default:
		return "Unknown"
	}
}

func (b BlockSize) String() string {
	if !b.IsValid() {
		return "Unknown"
	}

	return blockSizeNames[b]
}

// IsValid reports whether b is one of the supported block sizes.
func (b BlockSize) IsValid() bool {
	return b < blockSizeCount
}

// Bytes returns the nominal size of the block in bytes, or 0 for BlockSizeNone
// and unknown values.
func (b BlockSize) Bytes() int {
	if !b.IsValid() {
		return 0
	}

	return blockSizeBytes[b]
}

// BlockSizes returns every supported block size in ascending order,
// starting with BlockSizeNone.
func BlockSizes() []BlockSize {
	sizes := make([]BlockSize, 0, blockSizeCount)
	for b := BlockSizeNone; b < blockSizeCount; b++ {
		sizes = append(sizes, b)
	}

	return sizes
}

// ParseCompressionType maps a case-insensitive name to a CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "none", "raw":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// ParseBlockSize maps a name such as "1M" or "none" to a BlockSize.
func ParseBlockSize(name string) (BlockSize, bool) {
	for b, n := range blockSizeNames {
		if strings.EqualFold(n, name) {
			return BlockSize(b), true
		}
	}

	return 0, false
}
