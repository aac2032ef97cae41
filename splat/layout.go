package splat

import "fmt"

// Record layout constants.
const (
	ChannelCount = 62               // float32 channels per record
	RecordStride = ChannelCount * 4 // bytes per float record
	PackedStride = ChannelCount * 2 // bytes per packed record with every channel quantized

	SHCoefficients = 15 // spherical-harmonic coefficients per color component
)

// First float channel of each attribute group.
const (
	IndexPosition = 0
	IndexNormal   = 3
	IndexColor    = 6
	IndexSH       = 9
	IndexOpacity  = IndexSH + 3*SHCoefficients
	IndexScale    = IndexOpacity + 1
	IndexRotation = IndexScale + 3
)

// Kind classifies a channel for the transforms that treat attribute groups
// differently.
type Kind uint8

const (
	KindPosition Kind = iota + 1
	KindNormal
	KindColor
	KindSH
	KindOpacity
	KindScale
	KindRotation
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindNormal:
		return "normal"
	case KindColor:
		return "color"
	case KindSH:
		return "sh"
	case KindOpacity:
		return "opacity"
	case KindScale:
		return "scale"
	case KindRotation:
		return "rotation"
	default:
		return "unknown"
	}
}

// Channel describes one float32 channel of a record.
type Channel struct {
	Name   string // stable channel name, e.g. "px", "sh_g_3", "rot_w"
	Index  int    // position of the channel within Record
	Offset int    // byte offset within a float record
	Kind   Kind
}

var (
	channelTable = buildChannelTable()
	channelIndex = buildChannelIndex(channelTable)
)

func buildChannelTable() [ChannelCount]Channel {
	var table [ChannelCount]Channel
	i := 0
	add := func(name string, kind Kind) {
		table[i] = Channel{Name: name, Index: i, Offset: i * 4, Kind: kind}
		i++
	}

	for _, n := range []string{"px", "py", "pz"} {
		add(n, KindPosition)
	}
	for _, n := range []string{"nx", "ny", "nz"} {
		add(n, KindNormal)
	}
	for _, n := range []string{"dc_r", "dc_g", "dc_b"} {
		add(n, KindColor)
	}
	for _, c := range []string{"r", "g", "b"} {
		for j := range SHCoefficients {
			add(fmt.Sprintf("sh_%s_%d", c, j), KindSH)
		}
	}
	add("opacity", KindOpacity)
	for _, n := range []string{"sx", "sy", "sz"} {
		add(n, KindScale)
	}
	for _, n := range []string{"rot_w", "rot_x", "rot_y", "rot_z"} {
		add(n, KindRotation)
	}

	return table
}

func buildChannelIndex(table [ChannelCount]Channel) map[string]int {
	idx := make(map[string]int, len(table))
	for _, ch := range table {
		idx[ch.Name] = ch.Index
	}

	return idx
}

// Channels returns the full channel descriptor table in record order.
func Channels() []Channel {
	out := make([]Channel, ChannelCount)
	copy(out, channelTable[:])

	return out
}

// ChannelAt returns the descriptor of the channel at record index i.
func ChannelAt(i int) Channel {
	return channelTable[i]
}

// ChannelByName looks up a channel descriptor by name.
func ChannelByName(name string) (Channel, bool) {
	i, ok := channelIndex[name]
	if !ok {
		return Channel{}, false
	}

	return channelTable[i], true
}

// ChannelsOfKind returns the channels of the given kind in record order.
func ChannelsOfKind(kind Kind) []Channel {
	var out []Channel
	for _, ch := range channelTable {
		if ch.Kind == kind {
			out = append(out, ch)
		}
	}

	return out
}
