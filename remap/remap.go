// Package remap implements the reversible per-channel domain transforms applied
// before quantization.
//
// Opacity is stored by training tools as a logit and scale as a natural log;
// both are heavy-tailed and waste most of a uniform 16-bit range. The forward
// transforms squash them into domains closer to uniform:
//
//	opacity: y = 1 / (1 + e^-x)            inverse x = ln(y / max(1-y, 1e-6))
//	scale:   y = sqrt(sqrt(e^x))           inverse x = ln((y*y)*(y*y))
//
// Rotation quaternions are projected onto the unit sphere. That step has no
// inverse; it only alters quaternions that were not unit length to begin with.
package remap

import (
	"math"

	"github.com/arloliu/splatpack/splat"
)

// InvSigmoidEpsilon bounds 1-y away from zero in InvSigmoid.
const InvSigmoidEpsilon = 1e-6

// Sigmoid maps a logit to (0, 1).
func Sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

// InvSigmoid maps a value in (0, 1) back to a logit.
func InvSigmoid(y float32) float32 {
	v := float64(y)
	return float32(math.Log(v / math.Max(1-v, InvSigmoidEpsilon)))
}

// ScaleForward maps a log-scale value to the fourth root of its exponential.
func ScaleForward(x float32) float32 {
	return float32(math.Sqrt(math.Sqrt(math.Exp(float64(x)))))
}

// ScaleInverse undoes ScaleForward.
func ScaleInverse(y float32) float32 {
	v := float64(y)
	v *= v
	v *= v

	return float32(math.Log(v))
}

// NormalizeQuat scales a quaternion to unit length. A zero-length quaternion
// becomes the identity rotation (w=1). Component order is w, x, y, z.
func NormalizeQuat(q [4]float32) [4]float32 {
	w, x, y, z := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	n := math.Sqrt(w*w + x*x + y*y + z*z)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return [4]float32{1, 0, 0, 0}
	}

	return [4]float32{float32(w / n), float32(x / n), float32(y / n), float32(z / n)}
}

// transforms maps channel kinds to their forward and inverse functions.
var transforms = map[splat.Kind]struct {
	forward func(float32) float32
	inverse func(float32) float32
}{
	splat.KindOpacity: {Sigmoid, InvSigmoid},
	splat.KindScale:   {ScaleForward, ScaleInverse},
}

// Apply remaps every record of a float record buffer in place: rotations are
// normalized, then opacity and scale channels are moved into their
// quantization-friendly domains.
func Apply(buf []byte) error {
	n, err := splat.RecordCount(buf)
	if err != nil {
		return err
	}

	channels := remappedChannels()

	var rec splat.Record
	for i := range n {
		splat.ReadRecord(buf, i, &rec)
		rec.SetRotation(NormalizeQuat(rec.Rotation()))
		for _, ch := range channels {
			rec[ch.Index] = transforms[ch.Kind].forward(rec[ch.Index])
		}
		splat.WriteRecord(buf, i, &rec)
	}

	return nil
}

// Revert undoes the opacity and scale transforms of Apply in place.
// Rotations stay normalized.
func Revert(buf []byte) error {
	n, err := splat.RecordCount(buf)
	if err != nil {
		return err
	}

	channels := remappedChannels()
	for i := range n {
		for _, ch := range channels {
			v := splat.Value(buf, i, ch)
			splat.SetValue(buf, i, ch, transforms[ch.Kind].inverse(v))
		}
	}

	return nil
}

func remappedChannels() []splat.Channel {
	var out []splat.Channel
	for _, ch := range splat.Channels() {
		if _, ok := transforms[ch.Kind]; ok {
			out = append(out, ch)
		}
	}

	return out
}
