package eval

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

var identity = quat.Number{Real: 1}

// fromStored converts the w, x, y, z order used by records.
func fromStored(q [4]float32) quat.Number {
	return quat.Number{
		Real: float64(q[0]),
		Imag: float64(q[1]),
		Jmag: float64(q[2]),
		Kmag: float64(q[3]),
	}
}

// unit scales q to unit length; zero or non-finite input yields the identity.
func unit(q quat.Number) quat.Number {
	l := quat.Abs(q)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return identity
	}

	return quat.Scale(1/l, q)
}

// AngleBetween returns the rotation angle in radians between two quaternions
// given in record order (w, x, y, z). Neither needs to be unit length. The
// result is in [0, pi]; q and -q are the same rotation.
func AngleBetween(q1, q2 [4]float32) float64 {
	d := unit(quat.Mul(quat.Conj(fromStored(q1)), fromStored(q2)))
	s := math.Sqrt(d.Imag*d.Imag + d.Jmag*d.Jmag + d.Kmag*d.Kmag)

	return 2 * math.Asin(min(s, 1))
}
