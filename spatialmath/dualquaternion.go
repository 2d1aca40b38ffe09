// Package spatialmath defines the rotation and rigid motion arithmetic used by the SO(3) and SE(3)
// manifolds: rotation vectors, quaternions, rotation matrices and dual quaternions.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// DualQuaternion represents a rigid motion in 3D. The real part is the unit rotation quaternion and the
// dual part holds half the translation multiplied on the right by the rotation.
type DualQuaternion struct {
	dualquat.Number
}

// NewDualQuaternion returns a DualQuaternion whose rotation is the identity quaternion and which has no
// translation. Since the real part of a dual quaternion should be a unit quaternion, not all zeroes, this
// should be used instead of &DualQuaternion{}.
func NewDualQuaternion() *DualQuaternion {
	return &DualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewDualQuaternionFromPose returns the dual quaternion of the rigid motion x -> R(rot) x + trans.
func NewDualQuaternionFromPose(rot, trans r3.Vector) *DualQuaternion {
	q := NewDualQuaternion()
	q.Real = QuatFromRotationVector(rot)
	q.SetTranslation(trans)
	return q
}

// SetTranslation correctly sets the translation quaternion against the rotation.
func (q *DualQuaternion) SetTranslation(pt r3.Vector) {
	q.Dual = quat.Mul(quat.Number{Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}, q.Real)
}

// Translation recovers the translation, 2 * dual * conj(real).
func (q *DualQuaternion) Translation() r3.Vector {
	tQuat := quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
	return r3.Vector{X: tQuat.Imag, Y: tQuat.Jmag, Z: tQuat.Kmag}
}

// RotationVector returns the regularized rotation vector of the rotation part.
func (q *DualQuaternion) RotationVector() r3.Vector {
	return QuatToRotationVector(q.Real)
}

// Transformation multiplies the dual quat contained in this DualQuaternion by another dual quat. The result
// applies by first, then q.
func (q *DualQuaternion) Transformation(by dualquat.Number) dualquat.Number {
	// Both parts scale together so that by still encodes the same translation once its real part is unit.
	if vecLen := quat.Abs(by.Real); vecLen != 1 {
		by = dualquat.Number{Real: quat.Scale(1/vecLen, by.Real), Dual: quat.Scale(1/vecLen, by.Dual)}
	}

	return dualquat.Mul(q.Number, by)
}

// Invert returns the inverse rigid motion. The quaternion conjugate of both parts of a unit dual quaternion
// is its inverse.
func (q *DualQuaternion) Invert() *DualQuaternion {
	return &DualQuaternion{dualquat.Number{
		Real: quat.Conj(q.Real),
		Dual: quat.Conj(q.Dual),
	}}
}

// Compose returns the rigid motion applying other first, then q.
func (q *DualQuaternion) Compose(other *DualQuaternion) *DualQuaternion {
	return &DualQuaternion{q.Transformation(other.Number)}
}
