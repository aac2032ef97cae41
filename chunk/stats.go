package chunk

import (
	"fmt"
	"time"
)

// Stats describes one Encode or Decode call.
type Stats struct {
	OriginalSize       int
	FramedSize         int
	Blocks             int
	Fallback           bool
	CompressDuration   time.Duration
	DecompressDuration time.Duration
}

// Ratio returns OriginalSize divided by FramedSize, or 0 for empty frames.
func (s Stats) Ratio() float64 {
	if s.FramedSize == 0 {
		return 0
	}

	return float64(s.OriginalSize) / float64(s.FramedSize)
}

// CompressThroughput returns original bytes compressed per second.
func (s Stats) CompressThroughput() float64 {
	return throughput(s.OriginalSize, s.CompressDuration)
}

// DecompressThroughput returns original bytes reconstructed per second.
func (s Stats) DecompressThroughput() float64 {
	return throughput(s.OriginalSize, s.DecompressDuration)
}

func (s Stats) String() string {
	const gib = 1 << 30

	return fmt.Sprintf("size=%d framed=%d blocks=%d fallback=%t ratio=%.3f c=%.3fGB/s d=%.3fGB/s",
		s.OriginalSize, s.FramedSize, s.Blocks, s.Fallback, s.Ratio(),
		s.CompressThroughput()/gib, s.DecompressThroughput()/gib)
}

func throughput(size int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return float64(size) / d.Seconds()
}
