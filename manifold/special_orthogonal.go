package manifold

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"

	"go.viam.com/riemann/spatialmath"
	"go.viam.com/riemann/utils/matrix"
)

const so3Dimension = 3

// SpecialOrthogonalGroup is the rotation group SO(3). Elements are rotation vectors: the axis scaled by the
// angle. The canonical representative of an element has norm in [0, pi].
type SpecialOrthogonalGroup struct {
	domainTolerance float64
}

// NewSpecialOrthogonalGroup returns SO(3).
func NewSpecialOrthogonalGroup() *SpecialOrthogonalGroup {
	return &SpecialOrthogonalGroup{}
}

// WithDomainTolerance returns a copy of the group whose metrics reject points with non finite coordinates
// when tolerance is positive.
func (g *SpecialOrthogonalGroup) WithDomainTolerance(tolerance float64) *SpecialOrthogonalGroup {
	return &SpecialOrthogonalGroup{domainTolerance: tolerance}
}

// Dimension returns 3.
func (g *SpecialOrthogonalGroup) Dimension() int {
	return so3Dimension
}

// PointSize returns 3.
func (g *SpecialOrthogonalGroup) PointSize() int {
	return so3Dimension
}

// Belongs reports whether point is a rotation vector. Any finite 3-vector represents a rotation.
func (g *SpecialOrthogonalGroup) Belongs(point []float64, tolerance float64) bool {
	return len(point) == so3Dimension && allFinite(point)
}

// ProjectionToTangentSpace returns a copy of vector. Every 3-vector is a Lie algebra element.
func (g *SpecialOrthogonalGroup) ProjectionToTangentSpace(vector, basePoint []float64) ([]float64, error) {
	if err := checkSize("vector", vector, so3Dimension); err != nil {
		return nil, err
	}
	if err := g.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	return append([]float64(nil), vector...), nil
}

// RandomPoint samples a regularized rotation vector with a uniform axis and a norm, the angle, uniform in
// [0, pi]. This is not the Haar measure of SO(3), which favors angles near pi with density
// (1 - cos(theta))/pi.
func (g *SpecialOrthogonalGroup) RandomPoint(src rand.Source) []float64 {
	return matrix.SampleBallVector(so3Dimension, math.Pi, src)
}

// Identity returns the zero rotation vector.
func (g *SpecialOrthogonalGroup) Identity() []float64 {
	return []float64{0, 0, 0}
}

// Compose returns the rotation vector of a*b, the rotation b followed by a.
func (g *SpecialOrthogonalGroup) Compose(a, b []float64) ([]float64, error) {
	if err := g.checkPoint("point a", a); err != nil {
		return nil, err
	}
	if err := g.checkPoint("point b", b); err != nil {
		return nil, err
	}
	return fromR3(spatialmath.ComposeRotationVectors(toR3(a), toR3(b))), nil
}

// Inverse returns the rotation vector of the inverse rotation.
func (g *SpecialOrthogonalGroup) Inverse(point []float64) ([]float64, error) {
	if err := g.checkPoint("point", point); err != nil {
		return nil, err
	}
	return fromR3(spatialmath.InvertRotationVector(toR3(point))), nil
}

// GroupExpFromIdentity returns the rotation exp([v]x). In rotation vector coordinates the exponential is the
// regularization of v.
func (g *SpecialOrthogonalGroup) GroupExpFromIdentity(tangentVec []float64) ([]float64, error) {
	if err := checkSize("tangent vector", tangentVec, so3Dimension); err != nil {
		return nil, err
	}
	return fromR3(spatialmath.RegularizeRotationVector(toR3(tangentVec))), nil
}

// GroupLogFromIdentity returns the regularized Lie algebra element of point.
func (g *SpecialOrthogonalGroup) GroupLogFromIdentity(point []float64) ([]float64, error) {
	if err := g.checkPoint("point", point); err != nil {
		return nil, err
	}
	return fromR3(spatialmath.RegularizeRotationVector(toR3(point))), nil
}

// Regularize returns the representative of point with norm in [0, pi].
func (g *SpecialOrthogonalGroup) Regularize(point []float64) ([]float64, error) {
	if err := checkSize("point", point, so3Dimension); err != nil {
		return nil, err
	}
	return fromR3(spatialmath.RegularizeRotationVector(toR3(point))), nil
}

// RegularizeTangentVec regularizes a tangent vector at basePoint. Tangent vectors are left-trivialized so
// this is the regularization of the Lie algebra element.
func (g *SpecialOrthogonalGroup) RegularizeTangentVec(tangentVec, basePoint []float64) ([]float64, error) {
	if err := checkSize("tangent vector", tangentVec, so3Dimension); err != nil {
		return nil, err
	}
	if err := g.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	return fromR3(spatialmath.RegularizeRotationVector(toR3(tangentVec))), nil
}

// RotationMatrix returns the matrix form of point, given by Rodrigues' formula.
func (g *SpecialOrthogonalGroup) RotationMatrix(point []float64) (*spatialmath.RotationMatrix, error) {
	if err := g.checkPoint("point", point); err != nil {
		return nil, err
	}
	return spatialmath.RotationMatrixFromVector(toR3(point)), nil
}

// PointFromRotationMatrix returns the regularized rotation vector of a rotation matrix.
func (g *SpecialOrthogonalGroup) PointFromRotationMatrix(rm *spatialmath.RotationMatrix) []float64 {
	return fromR3(rm.RotationVector())
}

// LeftCanonicalMetric returns the left-invariant metric with the identity inner product at the identity.
func (g *SpecialOrthogonalGroup) LeftCanonicalMetric() *InvariantMetric {
	return &InvariantMetric{group: g, innerProductMatAtIdentity: identitySymDense(so3Dimension)}
}

func (g *SpecialOrthogonalGroup) String() string {
	return "SO(3)"
}

func (g *SpecialOrthogonalGroup) isManifold() {}

func (g *SpecialOrthogonalGroup) isLieGroup() {}

func (g *SpecialOrthogonalGroup) checkPoint(name string, point []float64) error {
	if err := checkSize(name, point, so3Dimension); err != nil {
		return err
	}
	if g.domainTolerance > 0 && !g.Belongs(point, g.domainTolerance) {
		return NewDomainViolationError(name, g, g.domainTolerance)
	}
	return nil
}

func toR3(v []float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func fromR3(v r3.Vector) []float64 {
	return []float64{v.X, v.Y, v.Z}
}
