package manifold

import (
	"math"
	"math/rand/v2"

	"go.viam.com/riemann/spatialmath"
	"go.viam.com/riemann/utils/matrix"
)

const se3Dimension = 6

// SpecialEuclideanGroup is the rigid motion group SE(3), the semidirect product of SO(3) and R^3.
// Elements are 6-vectors, a rotation vector followed by a translation, and act on R^3 by x -> R x + t.
type SpecialEuclideanGroup struct {
	rotations       *SpecialOrthogonalGroup
	domainTolerance float64
}

// NewSpecialEuclideanGroup returns SE(3).
func NewSpecialEuclideanGroup() *SpecialEuclideanGroup {
	return &SpecialEuclideanGroup{rotations: NewSpecialOrthogonalGroup()}
}

// WithDomainTolerance returns a copy of the group whose metrics reject points with non finite coordinates
// when tolerance is positive.
func (g *SpecialEuclideanGroup) WithDomainTolerance(tolerance float64) *SpecialEuclideanGroup {
	return &SpecialEuclideanGroup{rotations: g.rotations.WithDomainTolerance(tolerance), domainTolerance: tolerance}
}

// Dimension returns 6.
func (g *SpecialEuclideanGroup) Dimension() int {
	return se3Dimension
}

// PointSize returns 6.
func (g *SpecialEuclideanGroup) PointSize() int {
	return se3Dimension
}

// Belongs reports whether point is a finite 6-vector.
func (g *SpecialEuclideanGroup) Belongs(point []float64, tolerance float64) bool {
	return len(point) == se3Dimension && allFinite(point)
}

// ProjectionToTangentSpace returns a copy of vector. Every 6-vector is a Lie algebra element.
func (g *SpecialEuclideanGroup) ProjectionToTangentSpace(vector, basePoint []float64) ([]float64, error) {
	if err := checkSize("vector", vector, se3Dimension); err != nil {
		return nil, err
	}
	if err := g.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	return append([]float64(nil), vector...), nil
}

// RandomPoint samples a rotation as SpecialOrthogonalGroup does and a translation with standard normal
// coordinates. SE(3) has no uniform probability measure; this is a convenient spread of test poses.
func (g *SpecialEuclideanGroup) RandomPoint(src rand.Source) []float64 {
	rot := matrix.SampleBallVector(3, math.Pi, src)
	return append(rot, matrix.SampleNormalVector(3, src)...)
}

// Identity returns the zero 6-vector.
func (g *SpecialEuclideanGroup) Identity() []float64 {
	return make([]float64, se3Dimension)
}

// Compose returns a*b = (Ra Rb, Ra tb + ta).
func (g *SpecialEuclideanGroup) Compose(a, b []float64) ([]float64, error) {
	if err := g.checkPoint("point a", a); err != nil {
		return nil, err
	}
	if err := g.checkPoint("point b", b); err != nil {
		return nil, err
	}
	return fromDualQuaternion(toDualQuaternion(a).Compose(toDualQuaternion(b))), nil
}

// Inverse returns (R^T, -R^T t).
func (g *SpecialEuclideanGroup) Inverse(point []float64) ([]float64, error) {
	if err := g.checkPoint("point", point); err != nil {
		return nil, err
	}
	return fromDualQuaternion(toDualQuaternion(point).Invert()), nil
}

// GroupExpFromIdentity returns the group exponential of the se(3) element (w, u): the rotation exp([w]x),
// regularized, and the translation V(w) u where V is the left jacobian of SO(3).
func (g *SpecialEuclideanGroup) GroupExpFromIdentity(tangentVec []float64) ([]float64, error) {
	if err := checkSize("tangent vector", tangentVec, se3Dimension); err != nil {
		return nil, err
	}
	w := toR3(tangentVec[:3])
	trans := spatialmath.LeftJacobian(w, toR3(tangentVec[3:]))
	return append(fromR3(spatialmath.RegularizeRotationVector(w)), fromR3(trans)...), nil
}

// GroupLogFromIdentity returns the se(3) element (w, V(w)^-1 t) of the element (w, t), w regularized.
func (g *SpecialEuclideanGroup) GroupLogFromIdentity(point []float64) ([]float64, error) {
	if err := g.checkPoint("point", point); err != nil {
		return nil, err
	}
	w := spatialmath.RegularizeRotationVector(toR3(point[:3]))
	u := spatialmath.InverseLeftJacobian(w, toR3(point[3:]))
	return append(fromR3(w), fromR3(u)...), nil
}

// Regularize regularizes the rotation block and keeps the translation.
func (g *SpecialEuclideanGroup) Regularize(point []float64) ([]float64, error) {
	if err := checkSize("point", point, se3Dimension); err != nil {
		return nil, err
	}
	return regularizeRotationBlock(point), nil
}

// RegularizeTangentVec regularizes the rotation block of a left-trivialized tangent vector at basePoint.
func (g *SpecialEuclideanGroup) RegularizeTangentVec(tangentVec, basePoint []float64) ([]float64, error) {
	if err := checkSize("tangent vector", tangentVec, se3Dimension); err != nil {
		return nil, err
	}
	if err := g.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	return regularizeRotationBlock(tangentVec), nil
}

// Rotations returns the rotation subgroup.
func (g *SpecialEuclideanGroup) Rotations() *SpecialOrthogonalGroup {
	return g.rotations
}

// LeftCanonicalMetric returns the left-invariant metric with the identity inner product at the identity.
func (g *SpecialEuclideanGroup) LeftCanonicalMetric() *InvariantMetric {
	return &InvariantMetric{group: g, innerProductMatAtIdentity: identitySymDense(se3Dimension)}
}

func (g *SpecialEuclideanGroup) String() string {
	return "SE(3)"
}

func (g *SpecialEuclideanGroup) isManifold() {}

func (g *SpecialEuclideanGroup) isLieGroup() {}

func (g *SpecialEuclideanGroup) checkPoint(name string, point []float64) error {
	if err := checkSize(name, point, se3Dimension); err != nil {
		return err
	}
	if g.domainTolerance > 0 && !g.Belongs(point, g.domainTolerance) {
		return NewDomainViolationError(name, g, g.domainTolerance)
	}
	return nil
}

func regularizeRotationBlock(vec []float64) []float64 {
	rot := spatialmath.RegularizeRotationVector(toR3(vec[:3]))
	return append(fromR3(rot), vec[3:]...)
}

func toDualQuaternion(point []float64) *spatialmath.DualQuaternion {
	return spatialmath.NewDualQuaternionFromPose(toR3(point[:3]), toR3(point[3:]))
}

func fromDualQuaternion(dq *spatialmath.DualQuaternion) []float64 {
	return append(fromR3(dq.RotationVector()), fromR3(dq.Translation())...)
}
