package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of a byte buffer.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumBlocks hashes data in consecutive blocks of blockSize bytes and returns
// one digest per block. The final block may be shorter. A non-positive
// blockSize hashes the whole buffer as one block.
func SumBlocks(data []byte, blockSize int) []uint64 {
	if blockSize <= 0 || blockSize >= len(data) {
		return []uint64{xxhash.Sum64(data)}
	}

	sums := make([]uint64, 0, (len(data)+blockSize-1)/blockSize)
	for off := 0; off < len(data); off += blockSize {
		end := min(off+blockSize, len(data))
		sums = append(sums, xxhash.Sum64(data[off:end]))
	}

	return sums
}
