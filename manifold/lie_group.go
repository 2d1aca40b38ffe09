package manifold

// LieGroup is the group structure used by the invariant metrics. Points are group elements and tangent
// vectors are Lie algebra elements. The only implementations are *SpecialOrthogonalGroup and
// *SpecialEuclideanGroup.
type LieGroup interface {
	Manifold

	// Identity returns the identity element.
	Identity() []float64
	// Compose returns the group product a*b.
	Compose(a, b []float64) ([]float64, error)
	// Inverse returns the group inverse of point.
	Inverse(point []float64) ([]float64, error)
	// GroupExpFromIdentity maps a Lie algebra element to a group element.
	GroupExpFromIdentity(tangentVec []float64) ([]float64, error)
	// GroupLogFromIdentity maps a group element to a Lie algebra element, the inverse of GroupExpFromIdentity.
	GroupLogFromIdentity(point []float64) ([]float64, error)
	// Regularize returns the canonical representative of a group element.
	Regularize(point []float64) ([]float64, error)
	// RegularizeTangentVec returns the canonical representative of a tangent vector anchored at basePoint.
	RegularizeTangentVec(tangentVec, basePoint []float64) ([]float64, error)
	// LeftCanonicalMetric returns the left-invariant metric whose inner product at the identity is the
	// identity matrix.
	LeftCanonicalMetric() *InvariantMetric

	isLieGroup()
}
