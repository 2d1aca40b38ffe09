package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/riemann/utils"
)

// RegularizeRotationVector returns the representative of v with norm in [0, pi]. Rotation vectors whose angle
// reduced modulo 2pi exceeds pi are replaced by the vector of angle 2pi - theta on the same axis, pointing the
// other way.
func RegularizeRotationVector(v r3.Vector) r3.Vector {
	theta := v.Norm()
	if theta < utils.Epsilon {
		return v
	}
	return v.Mul(utils.RegularizeAngle(theta) / theta)
}

// ComposeRotationVectors returns the regularized rotation vector of the group product a*b, the rotation
// that applies b first and then a.
func ComposeRotationVectors(a, b r3.Vector) r3.Vector {
	return QuatToRotationVector(quat.Mul(QuatFromRotationVector(a), QuatFromRotationVector(b)))
}

// InvertRotationVector returns the rotation vector of the inverse rotation.
func InvertRotationVector(v r3.Vector) r3.Vector {
	return RegularizeRotationVector(v).Mul(-1)
}

// RotateByVector rotates p by the rotation described by the rotation vector v.
func RotateByVector(v, p r3.Vector) r3.Vector {
	return RotateVector(QuatFromRotationVector(v), p)
}

// LeftJacobian applies the left jacobian of SO(3) at w to u:
// V(w) u = u + (1 - cos t)/t^2 (w x u) + (t - sin t)/t^3 (w x (w x u)), t = |w|.
// It maps the translation part of an se(3) element to the translation of its group exponential.
func LeftJacobian(w, u r3.Vector) r3.Vector {
	theta := w.Norm()
	wu := w.Cross(u)
	wwu := w.Cross(wu)
	return u.
		Add(wu.Mul(utils.OneMinusCosOverXSquared(theta))).
		Add(wwu.Mul(utils.XMinusSinOverXCubed(theta)))
}

// InverseLeftJacobian applies the inverse of LeftJacobian:
// V(w)^-1 t = t - 1/2 (w x t) + c(t) (w x (w x t)).
func InverseLeftJacobian(w, t r3.Vector) r3.Vector {
	theta := w.Norm()
	wt := w.Cross(t)
	wwt := w.Cross(wt)
	return t.
		Sub(wt.Mul(0.5)).
		Add(wwt.Mul(utils.InverseJacobianCoefficient(theta)))
}
