package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/riemann/utils"
)

// QuatFromRotationVector returns the unit quaternion of the rotation described by a rotation vector.
// The vector does not need to be regularized.
func QuatFromRotationVector(v r3.Vector) quat.Number {
	half := v.Norm() / 2
	// sin(theta/2)/theta, expanded near zero
	coef := 0.5 * utils.SinOverX(half)
	return quat.Number{
		Real: math.Cos(half),
		Imag: coef * v.X,
		Jmag: coef * v.Y,
		Kmag: coef * v.Z,
	}
}

// QuatToRotationVector converts a unit quaternion to the rotation vector of norm at most pi representing
// the same rotation. atan2 keeps the angle accurate both near the identity and near a half turn.
func QuatToRotationVector(q quat.Number) r3.Vector {
	if q.Real < 0 {
		q = Flip(q)
	}
	denom := Norm(q)
	var coef float64
	if denom < utils.Epsilon {
		coef = 2 / q.Real
	} else {
		coef = 2 * math.Atan2(denom, q.Real) / denom
	}
	return r3.Vector{X: coef * q.Imag, Y: coef * q.Jmag, Z: coef * q.Kmag}
}

// RotateVector rotates p by the unit quaternion q.
func RotateVector(q quat.Number, p r3.Vector) r3.Vector {
	pp := quat.Mul(quat.Mul(q, quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}), quat.Conj(q))
	return r3.Vector{X: pp.Imag, Y: pp.Jmag, Z: pp.Kmag}
}

// Norm returns the norm of the quaternion, i.e. the sqrt of the squares of the imaginary parts.
func Norm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double coverage, q == -q, and
// this function will *not* account for this. Use OrientationAlmostEqual unless you're certain this is what you want.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return utils.Float64AlmostEqual(a.Imag, b.Imag, tol) &&
		utils.Float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		utils.Float64AlmostEqual(a.Kmag, b.Kmag, tol) &&
		utils.Float64AlmostEqual(a.Real, b.Real, tol)
}

// OrientationAlmostEqual reports whether two quaternions describe approximately the same rotation,
// accounting for the double cover.
func OrientationAlmostEqual(a, b quat.Number, tol float64) bool {
	return QuaternionAlmostEqual(a, b, tol) || QuaternionAlmostEqual(a, Flip(b), tol)
}
