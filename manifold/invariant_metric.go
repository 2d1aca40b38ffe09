package manifold

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// InvariantMetric is a left-invariant Riemannian metric on a Lie group, determined by its inner product at
// the identity. Left-invariance makes the inner product matrix of left-trivialized tangent vectors the same
// at every base point.
type InvariantMetric struct {
	group                     LieGroup
	innerProductMatAtIdentity *mat.SymDense
}

// NewLeftInvariantMetric returns the left-invariant metric on group with the given inner product at the
// identity. The matrix must be symmetric positive definite and sized to the group dimension; it is copied.
func NewLeftInvariantMetric(group LieGroup, innerProductMatAtIdentity *mat.SymDense) (*InvariantMetric, error) {
	if group == nil {
		return nil, errors.New("a group is required")
	}
	if innerProductMatAtIdentity == nil {
		return group.LeftCanonicalMetric(), nil
	}
	if n := innerProductMatAtIdentity.SymmetricDim(); n != group.Dimension() {
		return nil, NewDimensionMismatchError("inner product matrix", group.Dimension(), n)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(innerProductMatAtIdentity); !ok {
		return nil, errors.New("inner product matrix at the identity is not positive definite")
	}
	m := mat.NewSymDense(group.Dimension(), nil)
	m.CopySym(innerProductMatAtIdentity)
	return &InvariantMetric{group: group, innerProductMatAtIdentity: m}, nil
}

// NewSE3LeftMetric returns the left-invariant metric on SE(3) whose inner product at the identity is block
// diagonal, rotationWeight times the identity on the rotation block and translationWeight times the identity
// on the translation block.
func NewSE3LeftMetric(group *SpecialEuclideanGroup, rotationWeight, translationWeight float64) (*InvariantMetric, error) {
	if rotationWeight <= 0 || translationWeight <= 0 {
		return nil, errors.Errorf("metric weights must be positive, got rotation %g and translation %g",
			rotationWeight, translationWeight)
	}
	m := mat.NewSymDense(se3Dimension, nil)
	for i := 0; i < 3; i++ {
		m.SetSym(i, i, rotationWeight)
		m.SetSym(i+3, i+3, translationWeight)
	}
	return NewLeftInvariantMetric(group, m)
}

// Manifold returns the group.
func (m *InvariantMetric) Manifold() Manifold {
	return m.group
}

// Group returns the group.
func (m *InvariantMetric) Group() LieGroup {
	return m.group
}

// InnerProductMatrix returns a copy of the inner product matrix, which does not depend on basePoint.
func (m *InvariantMetric) InnerProductMatrix(basePoint []float64) (*mat.SymDense, error) {
	if err := m.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	out := mat.NewSymDense(m.group.Dimension(), nil)
	out.CopySym(m.innerProductMatAtIdentity)
	return out, nil
}

// InnerProduct returns a^T M b.
func (m *InvariantMetric) InnerProduct(tangentVecA, tangentVecB, basePoint []float64) (float64, error) {
	if err := checkSize("tangent vector a", tangentVecA, m.group.Dimension()); err != nil {
		return 0, err
	}
	if err := checkSize("tangent vector b", tangentVecB, m.group.Dimension()); err != nil {
		return 0, err
	}
	if err := m.checkPoint("base point", basePoint); err != nil {
		return 0, err
	}
	return mat.Inner(mat.NewVecDense(len(tangentVecA), tangentVecA), m.innerProductMatAtIdentity,
		mat.NewVecDense(len(tangentVecB), tangentVecB)), nil
}

// Exp exponentiates tangentVec at the identity and left-translates the result by basePoint.
func (m *InvariantMetric) Exp(tangentVec, basePoint []float64) ([]float64, error) {
	if err := m.checkPoint("base point", basePoint); err != nil {
		return nil, err
	}
	atIdentity, err := m.group.GroupExpFromIdentity(tangentVec)
	if err != nil {
		return nil, err
	}
	return m.group.Compose(basePoint, atIdentity)
}

// Log left-translates point by the inverse of basePoint, takes the group logarithm at the identity and
// returns the regularized Lie algebra element.
func (m *InvariantMetric) Log(point, basePoint []float64) ([]float64, error) {
	if err := m.checkPoint("point", point); err != nil {
		return nil, err
	}
	inv, err := m.group.Inverse(basePoint)
	if err != nil {
		return nil, err
	}
	atIdentity, err := m.group.Compose(inv, point)
	if err != nil {
		return nil, err
	}
	tangentVec, err := m.group.GroupLogFromIdentity(atIdentity)
	if err != nil {
		return nil, err
	}
	return m.group.RegularizeTangentVec(tangentVec, basePoint)
}

// SquaredDist returns the squared norm of Log(pointA, pointB) at pointB.
func (m *InvariantMetric) SquaredDist(pointA, pointB []float64) (float64, error) {
	log, err := m.Log(pointA, pointB)
	if err != nil {
		return 0, err
	}
	return m.InnerProduct(log, log, pointB)
}

// Dist returns the norm of Log(pointA, pointB) at pointB.
func (m *InvariantMetric) Dist(pointA, pointB []float64) (float64, error) {
	sq, err := m.SquaredDist(pointA, pointB)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(math.Max(sq, 0)), nil
}

func (m *InvariantMetric) isMetric() {}

// checkPoint only checks sizes; domain checks belong to the group operations.
func (m *InvariantMetric) checkPoint(name string, point []float64) error {
	return checkSize(name, point, m.group.PointSize())
}
