// Package manifold implements Riemannian geometry on a closed set of manifolds: the hypersphere S^n,
// the rotation group SO(3) and the rigid motion group SE(3).
//
// Points and tangent vectors are plain float64 slices. Hypersphere points have n+1 ambient coordinates and
// tangent vectors are ambient vectors orthogonal to their base point. SO(3) points are rotation vectors and
// SE(3) points are a rotation vector followed by a translation. Tangent vectors of the Lie groups are
// left-trivialized: they are Lie algebra elements, and the base point only tells where they are anchored.
//
// Every value in this package is immutable after construction and every operation is a pure function of its
// arguments, so manifolds and metrics can be shared freely between goroutines.
package manifold

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Manifold is a geometric space with a dimension and a tangent space projector.
// The only implementations are *Hypersphere, *SpecialOrthogonalGroup and *SpecialEuclideanGroup.
type Manifold interface {
	// Dimension returns the intrinsic dimension.
	Dimension() int
	// PointSize returns the number of coordinates of a point.
	PointSize() int
	// ProjectionToTangentSpace projects an ambient vector onto the tangent space at basePoint.
	ProjectionToTangentSpace(vector, basePoint []float64) ([]float64, error)
	// Belongs reports whether point is a point of the manifold within tolerance.
	Belongs(point []float64, tolerance float64) bool
	// RandomPoint samples a point of the manifold. Only the hypersphere samples its volume measure;
	// see each implementation for the distribution.
	RandomPoint(src rand.Source) []float64

	isManifold()
}

// Metric is a Riemannian metric on a Manifold exposing its exponential and logarithm maps and the induced
// geodesic distance. The only implementations are *HypersphereMetric and *InvariantMetric.
type Metric interface {
	// Manifold returns the space the metric is defined on.
	Manifold() Manifold
	// InnerProductMatrix returns the matrix of the inner product at basePoint.
	InnerProductMatrix(basePoint []float64) (*mat.SymDense, error)
	// InnerProduct returns the inner product of two tangent vectors at basePoint.
	InnerProduct(tangentVecA, tangentVecB, basePoint []float64) (float64, error)
	// Exp returns the point reached by following the geodesic leaving basePoint with velocity tangentVec.
	Exp(tangentVec, basePoint []float64) ([]float64, error)
	// Log returns the tangent vector at basePoint whose geodesic reaches point.
	Log(point, basePoint []float64) ([]float64, error)
	// SquaredDist returns the squared geodesic distance between two points.
	SquaredDist(pointA, pointB []float64) (float64, error)
	// Dist returns the geodesic distance between two points.
	Dist(pointA, pointB []float64) (float64, error)

	isMetric()
}

// Norm returns the norm of tangentVec at basePoint under metric.
func Norm(metric Metric, tangentVec, basePoint []float64) (float64, error) {
	sq, err := metric.InnerProduct(tangentVec, tangentVec, basePoint)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(math.Max(sq, 0)), nil
}

func checkSize(name string, vec []float64, expected int) error {
	if len(vec) != expected {
		return NewDimensionMismatchError(name, expected, len(vec))
	}
	return nil
}

func allFinite(vec []float64) bool {
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func identitySymDense(n int) *mat.SymDense {
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1)
	}
	return m
}
