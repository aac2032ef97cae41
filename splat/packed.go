package splat

import (
	"fmt"

	"github.com/arloliu/splatpack/errs"
)

// PackedLayout describes which float channels a packed record carries and
// in what order. Every listed channel occupies one little-endian uint16.
type PackedLayout struct {
	channels []Channel
}

// FullChannels lists every channel; it yields the PackedStride layout.
func FullChannels() []Channel {
	return Channels()
}

// CompactChannels lists every channel except the normals. 3DGS training output
// stores all-zero normals, so dropping them saves six bytes per record.
func CompactChannels() []Channel {
	out := make([]Channel, 0, ChannelCount-3)
	for _, ch := range channelTable {
		if ch.Kind != KindNormal {
			out = append(out, ch)
		}
	}

	return out
}

// NewPackedLayout builds a layout from channel descriptors. Channels must be
// known, unique and listed in record order.
func NewPackedLayout(channels []Channel) (PackedLayout, error) {
	if len(channels) == 0 {
		return PackedLayout{}, fmt.Errorf("%w: packed layout needs at least one channel", errs.ErrUnknownChannel)
	}

	prev := -1
	for _, ch := range channels {
		if ch.Index < 0 || ch.Index >= ChannelCount || channelTable[ch.Index].Name != ch.Name {
			return PackedLayout{}, fmt.Errorf("%w: %q", errs.ErrUnknownChannel, ch.Name)
		}
		if ch.Index <= prev {
			return PackedLayout{}, fmt.Errorf("%w: channel %q out of record order", errs.ErrUnknownChannel, ch.Name)
		}
		prev = ch.Index
	}

	out := make([]Channel, len(channels))
	copy(out, channels)

	return PackedLayout{channels: out}, nil
}

// DefaultPackedLayout returns the layout that quantizes every channel.
func DefaultPackedLayout() PackedLayout {
	return PackedLayout{channels: Channels()}
}

// Channels returns the packed channels in slot order.
func (l PackedLayout) Channels() []Channel {
	return l.channels
}

// Stride returns the size in bytes of one packed record.
func (l PackedLayout) Stride() int {
	return len(l.channels) * 2
}

// RecordCount validates that buf holds whole packed records of this layout.
func (l PackedLayout) RecordCount(buf []byte) (int, error) {
	stride := l.Stride()
	if stride == 0 || len(buf)%stride != 0 {
		return 0, fmt.Errorf("%w: packed buffer length %d is not a multiple of %d", errs.ErrInvalidStride, len(buf), stride)
	}

	return len(buf) / stride, nil
}

// Unorm reads packed slot s of record i.
func (l PackedLayout) Unorm(buf []byte, i, s int) uint16 {
	return engine.Uint16(buf[i*l.Stride()+s*2:])
}

// PutUnorm writes packed slot s of record i.
func (l PackedLayout) PutUnorm(buf []byte, i, s int, u uint16) {
	engine.PutUint16(buf[i*l.Stride()+s*2:], u)
}
