// Package matrix contains helpers for sampling random vectors.
package matrix

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleNormalVector samples a vector of n independent standard normal coordinates.
func SampleNormalVector(n int, src rand.Source) []float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   src,
	}
	z := make([]float64, n)
	for i := range z {
		z[i] = dist.Rand()
	}
	return z
}

// SampleUnitVector samples a vector uniformly distributed on the unit sphere of R^n.
func SampleUnitVector(n int, src rand.Source) []float64 {
	for {
		z := SampleNormalVector(n, src)
		// redraw the (measure zero) samples that cannot be normalized
		if norm := floats.Norm(z, 2); norm > 1e-12 {
			floats.Scale(1/norm, z)
			return z
		}
	}
}

// SampleBallVector samples a vector of R^n with a uniformly random direction and a norm drawn
// uniformly from [0, r].
func SampleBallVector(n int, r float64, src rand.Source) []float64 {
	dir := SampleUnitVector(n, src)
	radius := distuv.Uniform{Min: 0, Max: r, Src: src}.Rand()
	floats.Scale(radius, dir)
	return dir
}
