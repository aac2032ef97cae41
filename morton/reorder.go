package morton

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/arloliu/splatpack/endian"
	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/splat"
)

// Permutation maps a new record index to the original record index.
type Permutation []uint32

type keyedIndex struct {
	key   uint64
	index uint32
}

// PositionBounds returns the bounding box of the position channels of a float
// record buffer.
func PositionBounds(buf []byte) (Bounds, error) {
	n, err := splat.RecordCount(buf)
	if err != nil {
		return Bounds{}, err
	}

	b := EmptyBounds()
	for i := range n {
		b.Extend(position(buf, i))
	}

	return b, nil
}

// Order computes the Morton ordering of a float record buffer without
// modifying it.
func Order(buf []byte) (Permutation, error) {
	n, err := splat.RecordCount(buf)
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %d records exceed the permutation index range", errs.ErrInvalidRecordCount, n)
	}

	bounds, err := PositionBounds(buf)
	if err != nil {
		return nil, err
	}

	keys := make([]keyedIndex, n)
	for i := range n {
		keys[i] = keyedIndex{key: bounds.Key(position(buf, i)), index: uint32(i)}
	}
	slices.SortFunc(keys, func(a, b keyedIndex) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	perm := make(Permutation, n)
	for i, k := range keys {
		perm[i] = k.index
	}

	return perm, nil
}

// Reorder computes the Morton ordering of buf and returns a newly allocated
// buffer holding the records in that order, along with the permutation that
// produced it.
func Reorder(buf []byte) ([]byte, Permutation, error) {
	perm, err := Order(buf)
	if err != nil {
		return nil, nil, err
	}

	out, err := perm.Apply(buf, splat.RecordStride)
	if err != nil {
		return nil, nil, err
	}

	return out, perm, nil
}

// Len returns the number of records the permutation covers.
func (p Permutation) Len() int {
	return len(p)
}

// Validate checks that p is a bijection on [0, len(p)).
func (p Permutation) Validate() error {
	seen := make([]bool, len(p))
	for i, src := range p {
		if int(src) >= len(p) {
			return fmt.Errorf("%w: entry %d references record %d of %d", errs.ErrInvalidPermutation, i, src, len(p))
		}
		if seen[src] {
			return fmt.Errorf("%w: record %d appears twice", errs.ErrInvalidPermutation, src)
		}
		seen[src] = true
	}

	return nil
}

// Apply gathers records into permuted order: record i of the result is record
// p[i] of src.
func (p Permutation) Apply(src []byte, stride int) ([]byte, error) {
	if err := p.check(src, stride); err != nil {
		return nil, err
	}

	dst := make([]byte, len(src))
	for i, from := range p {
		copy(dst[i*stride:(i+1)*stride], src[int(from)*stride:(int(from)+1)*stride])
	}

	return dst, nil
}

// Restore scatters permuted records back to their original positions; it is
// the inverse of Apply.
func (p Permutation) Restore(src []byte, stride int) ([]byte, error) {
	if err := p.check(src, stride); err != nil {
		return nil, err
	}

	dst := make([]byte, len(src))
	for i, to := range p {
		copy(dst[int(to)*stride:(int(to)+1)*stride], src[i*stride:(i+1)*stride])
	}

	return dst, nil
}

// Inverse returns the permutation that maps original indices to new indices.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for i, src := range p {
		inv[src] = uint32(i)
	}

	return inv
}

// MarshalBinary encodes the permutation as a uint32 count followed by the
// entries, all little-endian.
func (p Permutation) MarshalBinary() ([]byte, error) {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, 4+4*len(p))
	buf = engine.AppendUint32(buf, uint32(len(p)))
	for _, v := range p {
		buf = engine.AppendUint32(buf, v)
	}

	return buf, nil
}

// UnmarshalBinary decodes a permutation produced by MarshalBinary and
// validates it.
func (p *Permutation) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: missing count", errs.ErrInvalidPermutation)
	}

	engine := endian.GetLittleEndianEngine()
	n := engine.Uint32(data)
	if uint64(len(data)-4) != uint64(n)*4 {
		return fmt.Errorf("%w: count %d does not match %d payload bytes", errs.ErrInvalidPermutation, n, len(data)-4)
	}

	perm := make(Permutation, n)
	for i := range perm {
		perm[i] = engine.Uint32(data[4+i*4:])
	}
	if err := perm.Validate(); err != nil {
		return err
	}
	*p = perm

	return nil
}

func (p Permutation) check(src []byte, stride int) error {
	if stride <= 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidStride, stride)
	}
	if len(src) != len(p)*stride {
		return fmt.Errorf("%w: buffer holds %d bytes, permutation expects %d records of %d bytes",
			errs.ErrInvalidRecordCount, len(src), len(p), stride)
	}

	return p.Validate()
}

func position(buf []byte, i int) [3]float32 {
	return [3]float32{
		splat.Value(buf, i, splat.ChannelAt(splat.IndexPosition)),
		splat.Value(buf, i, splat.ChannelAt(splat.IndexPosition+1)),
		splat.Value(buf, i, splat.ChannelAt(splat.IndexPosition+2)),
	}
}
