package manifold

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/riemann/utils"
	"go.viam.com/riemann/utils/matrix"
)

// Hypersphere is the unit n-sphere embedded in R^(n+1).
type Hypersphere struct {
	dimension int
	// domainTolerance, when positive, makes the metric reject points whose norm is not 1 within it.
	domainTolerance float64
}

// NewHypersphere returns the hypersphere of the given intrinsic dimension. Its metric trusts its caller and
// does not check that points have unit norm.
func NewHypersphere(dimension int) (*Hypersphere, error) {
	if dimension < 1 {
		return nil, errors.Errorf("hypersphere dimension must be positive, got %d", dimension)
	}
	return &Hypersphere{dimension: dimension}, nil
}

// WithDomainTolerance returns a copy of the hypersphere whose metric rejects points whose norm differs from
// 1 by tolerance or more. A zero tolerance disables the check.
func (h *Hypersphere) WithDomainTolerance(tolerance float64) *Hypersphere {
	return &Hypersphere{dimension: h.dimension, domainTolerance: tolerance}
}

// Dimension returns n.
func (h *Hypersphere) Dimension() int {
	return h.dimension
}

// PointSize returns n+1, the dimension of the embedding space.
func (h *Hypersphere) PointSize() int {
	return h.dimension + 1
}

// Belongs reports whether point has unit norm within tolerance.
func (h *Hypersphere) Belongs(point []float64, tolerance float64) bool {
	if len(point) != h.PointSize() || !allFinite(point) {
		return false
	}
	return math.Abs(floats.Norm(point, 2)-1) < tolerance
}

// ProjectionToTangentSpace orthogonally projects vector onto the hyperplane orthogonal to basePoint:
// vector - (vector.basePoint) basePoint.
func (h *Hypersphere) ProjectionToTangentSpace(vector, basePoint []float64) ([]float64, error) {
	if err := checkSize("vector", vector, h.PointSize()); err != nil {
		return nil, err
	}
	if err := h.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	return projectOrthogonal(vector, basePoint), nil
}

// RandomPoint samples a point uniformly on the sphere.
func (h *Hypersphere) RandomPoint(src rand.Source) []float64 {
	return matrix.SampleUnitVector(h.PointSize(), src)
}

// Metric returns the round metric induced by the embedding.
func (h *Hypersphere) Metric() *HypersphereMetric {
	return &HypersphereMetric{space: h}
}

func (h *Hypersphere) String() string {
	return fmt.Sprintf("S^%d", h.dimension)
}

func (h *Hypersphere) isManifold() {}

func (h *Hypersphere) checkPoint(name string, point []float64) error {
	if err := checkSize(name, point, h.PointSize()); err != nil {
		return err
	}
	if h.domainTolerance > 0 && !h.Belongs(point, h.domainTolerance) {
		return NewDomainViolationError(name, h, h.domainTolerance)
	}
	return nil
}

func projectOrthogonal(vector, basePoint []float64) []float64 {
	result := make([]float64, len(vector))
	return floats.AddScaledTo(result, vector, -floats.Dot(vector, basePoint), basePoint)
}

// HypersphereMetric is the canonical round metric of the hypersphere, the ambient Euclidean metric restricted
// to the tangent hyperplanes.
type HypersphereMetric struct {
	space *Hypersphere
}

// Manifold returns the hypersphere.
func (m *HypersphereMetric) Manifold() Manifold {
	return m.space
}

// InnerProductMatrix returns the identity of the embedding space. The ambient metric is flat so it does not
// depend on basePoint.
func (m *HypersphereMetric) InnerProductMatrix(basePoint []float64) (*mat.SymDense, error) {
	if err := m.space.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	return identitySymDense(m.space.PointSize()), nil
}

// InnerProduct returns the Euclidean dot product of the tangent vectors.
func (m *HypersphereMetric) InnerProduct(tangentVecA, tangentVecB, basePoint []float64) (float64, error) {
	if err := m.checkTangent(tangentVecA, basePoint); err != nil {
		return 0, err
	}
	if err := checkSize("tangent vector", tangentVecB, m.space.PointSize()); err != nil {
		return 0, err
	}
	return floats.Dot(tangentVecA, tangentVecB), nil
}

// Exp follows the great circle leaving basePoint along tangentVec for a length of |tangentVec|:
// cos(t) basePoint + sin(t) tangentVec/t. Below utils.Epsilon the second order expansion is used and the
// result renormalized.
func (m *HypersphereMetric) Exp(tangentVec, basePoint []float64) ([]float64, error) {
	if err := m.checkTangent(tangentVec, basePoint); err != nil {
		return nil, err
	}
	theta := floats.Norm(tangentVec, 2)
	result := make([]float64, len(basePoint))
	if theta < utils.Epsilon {
		floats.ScaleTo(result, 1-theta*theta/2, basePoint)
		floats.AddScaled(result, 1-theta*theta/6, tangentVec)
		floats.Scale(1/floats.Norm(result, 2), result)
		return result, nil
	}
	floats.ScaleTo(result, math.Cos(theta), basePoint)
	floats.AddScaled(result, math.Sin(theta)/theta, tangentVec)
	return result, nil
}

// Log returns the tangent vector at basePoint pointing to point along the shorter great circle, of norm equal
// to the angle between them. For nearly antipodal points sin(angle) vanishes and the result is unstable;
// there is no fallback for that case.
func (m *HypersphereMetric) Log(point, basePoint []float64) ([]float64, error) {
	if err := m.space.checkPoint("point", point); err != nil {
		return nil, err
	}
	if err := m.space.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	angle := math.Acos(utils.Clamp(floats.Dot(basePoint, point), -1, 1))

	diff := make([]float64, len(point))
	floats.SubTo(diff, point, basePoint)
	result := projectOrthogonal(diff, basePoint)
	if angle < utils.Epsilon {
		return result, nil
	}
	floats.Scale(angle/math.Sin(angle), result)
	return result, nil
}

// Dist returns the angle between the two points, in [0, pi].
func (m *HypersphereMetric) Dist(pointA, pointB []float64) (float64, error) {
	if err := m.space.checkPoint("point a", pointA); err != nil {
		return 0, err
	}
	if err := m.space.checkPoint("point b", pointB); err != nil {
		return 0, err
	}
	return math.Acos(utils.Clamp(floats.Dot(pointA, pointB), -1, 1)), nil
}

// SquaredDist returns the squared angle between the two points.
func (m *HypersphereMetric) SquaredDist(pointA, pointB []float64) (float64, error) {
	dist, err := m.Dist(pointA, pointB)
	if err != nil {
		return 0, err
	}
	return dist * dist, nil
}

// RegularizeTangentVec returns the logarithm at basePoint of the point tangentVec reaches, the representative
// of tangentVec whose norm is reduced modulo 2pi into [0, pi]. When the reduced angle exceeds pi the
// shorter geodesic leaves in the opposite direction.
func (m *HypersphereMetric) RegularizeTangentVec(tangentVec, basePoint []float64) ([]float64, error) {
	if err := m.checkTangent(tangentVec, basePoint); err != nil {
		return nil, err
	}
	result := make([]float64, len(tangentVec))
	copy(result, tangentVec)
	theta := floats.Norm(tangentVec, 2)
	if theta < utils.Epsilon {
		return result, nil
	}
	floats.Scale(utils.RegularizeAngle(theta)/theta, result)
	return result, nil
}

func (m *HypersphereMetric) isMetric() {}

func (m *HypersphereMetric) checkTangent(tangentVec, basePoint []float64) error {
	if err := checkSize("tangent vector", tangentVec, m.space.PointSize()); err != nil {
		return err
	}
	return m.space.checkPoint("base point", basePoint)
}
