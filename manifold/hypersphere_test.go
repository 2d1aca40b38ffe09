package manifold

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/floats"
)

func normalize(v []float64) []float64 {
	out := append([]float64(nil), v...)
	floats.Scale(1/floats.Norm(out, 2), out)
	return out
}

func vecAlmostEqual(t *testing.T, a, b []float64, tol float64) {
	t.Helper()
	test.That(t, len(a), test.ShouldEqual, len(b))
	for i := range a {
		test.That(t, a[i], test.ShouldAlmostEqual, b[i], tol)
	}
}

func newTestSphere(t *testing.T, dim int) (*Hypersphere, *HypersphereMetric) {
	t.Helper()
	sphere, err := NewHypersphere(dim)
	test.That(t, err, test.ShouldBeNil)
	return sphere, sphere.Metric()
}

func TestHypersphereBasics(t *testing.T) {
	_, err := NewHypersphere(0)
	test.That(t, err, test.ShouldNotBeNil)

	sphere, metric := newTestSphere(t, 4)
	test.That(t, sphere.Dimension(), test.ShouldEqual, 4)
	test.That(t, sphere.PointSize(), test.ShouldEqual, 5)
	test.That(t, sphere.String(), test.ShouldEqual, "S^4")
	test.That(t, metric.Manifold(), test.ShouldEqual, sphere)

	test.That(t, sphere.Belongs(normalize([]float64{1, 2, 3, 4, 6}), 1e-8), test.ShouldBeTrue)
	test.That(t, sphere.Belongs([]float64{1, 2, 3, 4, 6}, 1e-8), test.ShouldBeFalse)
	test.That(t, sphere.Belongs([]float64{1, 0, 0}, 1e-8), test.ShouldBeFalse)
	test.That(t, sphere.Belongs([]float64{math.NaN(), 0, 0, 0, 0}, 1e-8), test.ShouldBeFalse)

	mat, err := metric.InnerProductMatrix(normalize([]float64{1, 2, 3, 4, 6}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.SymmetricDim(), test.ShouldEqual, 5)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			expected := 0.
			if i == j {
				expected = 1
			}
			test.That(t, mat.At(i, j), test.ShouldEqual, expected)
		}
	}
}

func TestHypersphereProjection(t *testing.T) {
	sphere, metric := newTestSphere(t, 4)
	basePoint := normalize([]float64{0, -3, 0, 3, 4})
	vec, err := sphere.ProjectionToTangentSpace([]float64{9, 5, 0, 0, -1}, basePoint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, floats.Dot(vec, basePoint), test.ShouldAlmostEqual, 0, 1e-12)

	// projecting twice changes nothing
	again, err := sphere.ProjectionToTangentSpace(vec, basePoint)
	test.That(t, err, test.ShouldBeNil)
	vecAlmostEqual(t, again, vec, 1e-12)

	ip, err := metric.InnerProduct(vec, vec, basePoint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ip, test.ShouldAlmostEqual, floats.Dot(vec, vec))
	norm, err := Norm(metric, vec, basePoint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, norm, test.ShouldAlmostEqual, floats.Norm(vec, 2))
}

func TestHypersphereLogAndExp(t *testing.T) {
	_, metric := newTestSphere(t, 4)

	t.Run("general case", func(t *testing.T) {
		basePoint := normalize([]float64{1, 2, 3, 4, 6})
		point := normalize([]float64{0, 5, 6, 2, -1})

		log, err := metric.Log(point, basePoint)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, floats.Dot(log, basePoint), test.ShouldAlmostEqual, 0, 1e-12)
		result, err := metric.Exp(log, basePoint)
		test.That(t, err, test.ShouldBeNil)
		vecAlmostEqual(t, result, point, 1e-8)
	})

	t.Run("close points", func(t *testing.T) {
		basePoint := normalize([]float64{1, 2, 3, 4, 6})
		point := append([]float64(nil), basePoint...)
		floats.AddScaled(point, 1e-12, []float64{-1, -2, 1, 1, .1})
		point = normalize(point)

		log, err := metric.Log(point, basePoint)
		test.That(t, err, test.ShouldBeNil)
		result, err := metric.Exp(log, basePoint)
		test.That(t, err, test.ShouldBeNil)
		vecAlmostEqual(t, result, point, 1e-8)
	})

	t.Run("small tangent vector", func(t *testing.T) {
		sphere := metric.Manifold()
		basePoint := normalize([]float64{10, -2, -.5, 34, 3})
		raw := []float64{.06, -51, 6, 5, 3}
		floats.Scale(1e-10, raw)
		vec, err := sphere.ProjectionToTangentSpace(raw, basePoint)
		test.That(t, err, test.ShouldBeNil)

		exp, err := metric.Exp(vec, basePoint)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, floats.Norm(exp, 2), test.ShouldAlmostEqual, 1, 1e-12)
		result, err := metric.Log(exp, basePoint)
		test.That(t, err, test.ShouldBeNil)
		vecAlmostEqual(t, result, vec, 1e-8)
	})

	t.Run("long tangent vector is regularized", func(t *testing.T) {
		sphere := metric.Manifold()
		basePoint := normalize([]float64{0, -3, 0, 3, 4})
		vec, err := sphere.ProjectionToTangentSpace([]float64{9, 5, 0, 0, -1}, basePoint)
		test.That(t, err, test.ShouldBeNil)
		norm := floats.Norm(vec, 2)
		test.That(t, math.Mod(norm, 2*math.Pi), test.ShouldBeGreaterThan, math.Pi)

		exp, err := metric.Exp(vec, basePoint)
		test.That(t, err, test.ShouldBeNil)
		result, err := metric.Log(exp, basePoint)
		test.That(t, err, test.ShouldBeNil)

		expected, err := metric.RegularizeTangentVec(vec, basePoint)
		test.That(t, err, test.ShouldBeNil)
		vecAlmostEqual(t, result, expected, 1e-8)
		test.That(t, floats.Norm(result, 2), test.ShouldAlmostEqual, 2*math.Pi-math.Mod(norm, 2*math.Pi), 1e-8)
		// the shorter geodesic leaves the other way
		test.That(t, floats.Dot(result, vec), test.ShouldBeLessThan, 0)
	})

	t.Run("random round trips", func(t *testing.T) {
		sphere := metric.Manifold()
		src := rand.NewPCG(4, 5)
		for i := 0; i < 50; i++ {
			basePoint := sphere.RandomPoint(src)
			point := sphere.RandomPoint(src)
			if floats.Dot(basePoint, point) < -0.99 {
				continue
			}
			log, err := metric.Log(point, basePoint)
			test.That(t, err, test.ShouldBeNil)
			result, err := metric.Exp(log, basePoint)
			test.That(t, err, test.ShouldBeNil)
			vecAlmostEqual(t, result, point, 1e-8)

			dist, err := metric.Dist(point, basePoint)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, floats.Norm(log, 2), test.ShouldAlmostEqual, dist, 1e-8)
		}
	})
}

func TestHypersphereDist(t *testing.T) {
	_, metric := newTestSphere(t, 4)

	t.Run("point and itself", func(t *testing.T) {
		point := []float64{10, -2, -.5, 2, 3}
		dist, err := metric.Dist(point, point)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist, test.ShouldAlmostEqual, 0, 1e-8)
	})

	t.Run("orthogonal points", func(t *testing.T) {
		pointA := []float64{10, -2, -.5, 0, 0}
		pointB := []float64{2, 10, 0, 0, 0}
		test.That(t, floats.Dot(pointA, pointB), test.ShouldEqual, 0)
		dist, err := metric.Dist(pointA, pointB)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist, test.ShouldAlmostEqual, math.Pi/2, 1e-8)
		sq, err := metric.SquaredDist(pointA, pointB)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sq, test.ShouldAlmostEqual, math.Pi*math.Pi/4, 1e-8)
	})

	t.Run("exp and dist", func(t *testing.T) {
		sphere := metric.Manifold()
		basePoint := normalize([]float64{16, -2, -2.5, 84, 3})
		vec, err := sphere.ProjectionToTangentSpace([]float64{9, 0, -1, -2, 1}, basePoint)
		test.That(t, err, test.ShouldBeNil)
		exp, err := metric.Exp(vec, basePoint)
		test.That(t, err, test.ShouldBeNil)

		dist, err := metric.Dist(basePoint, exp)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist, test.ShouldAlmostEqual, math.Mod(floats.Norm(vec, 2), 2*math.Pi), 1e-8)
	})

	t.Run("antipodal points", func(t *testing.T) {
		dist, err := metric.Dist([]float64{1, 0, 0, 0, 0}, []float64{-1, 0, 0, 0, 0})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist, test.ShouldAlmostEqual, math.Pi, 1e-12)
	})
}

func TestHypersphereErrors(t *testing.T) {
	sphere, metric := newTestSphere(t, 2)
	good := []float64{0, 0, 1}
	short := []float64{0, 1}

	_, err := metric.Exp(short, good)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "tangent vector has 2 coordinates, expected 3")
	_, err = metric.Log(good, short)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
	_, err = metric.Dist(short, good)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
	_, err = metric.InnerProduct(good, short, good)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
	_, err = metric.InnerProductMatrix(short)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
	_, err = sphere.ProjectionToTangentSpace(short, good)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)

	// the default metric trusts its caller
	_, err = metric.Dist([]float64{0, 0, 2}, good)
	test.That(t, err, test.ShouldBeNil)

	strict := sphere.WithDomainTolerance(1e-6).Metric()
	_, err = strict.Dist([]float64{0, 0, 2}, good)
	test.That(t, errors.Is(err, ErrDomainViolation), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "S^2")
	_, err = strict.Log(good, []float64{0, 0.5, 0})
	test.That(t, errors.Is(err, ErrDomainViolation), test.ShouldBeTrue)
	_, err = strict.Exp([]float64{1, 0, 0}, good)
	test.That(t, err, test.ShouldBeNil)
}
