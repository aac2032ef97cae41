package eval

import (
	"fmt"

	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/internal/hash"
)

// verifyBlockSize is the granularity used to narrow down a mismatch.
const verifyBlockSize = 64 * 1024

// VerifyBytes checks that got is a byte-exact reconstruction of want.
//
// Fingerprints are compared first; on mismatch the first differing offset is
// located and reported in an errs.ErrRoundTripMismatch error.
func VerifyBytes(want, got []byte) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: length %d, expected %d", errs.ErrRoundTripMismatch, len(got), len(want))
	}
	if hash.Sum(want) == hash.Sum(got) {
		return nil
	}

	wantSums := hash.SumBlocks(want, verifyBlockSize)
	gotSums := hash.SumBlocks(got, verifyBlockSize)
	for b := range wantSums {
		if wantSums[b] == gotSums[b] {
			continue
		}
		start := b * verifyBlockSize
		end := min(start+verifyBlockSize, len(want))
		for i := start; i < end; i++ {
			if want[i] != got[i] {
				return fmt.Errorf("%w: byte %d is %#02x, expected %#02x", errs.ErrRoundTripMismatch, i, got[i], want[i])
			}
		}
	}

	return nil
}
