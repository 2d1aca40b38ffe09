// Package utils contains numeric helpers shared by the manifold implementations.
package utils

import (
	"math"
)

// Epsilon is the threshold below which angles are treated as degenerate and the
// closed-form formulas switch to their Taylor expansions.
const Epsilon = 1e-8

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Clamp restricts x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// SinOverX returns sin(x)/x, falling back to 1 - x^2/6 near zero.
func SinOverX(x float64) float64 {
	if math.Abs(x) < Epsilon {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}

// XOverSin returns x/sin(x), falling back to 1 + x^2/6 near zero.
func XOverSin(x float64) float64 {
	if math.Abs(x) < Epsilon {
		return 1 + x*x/6
	}
	return x / math.Sin(x)
}

// OneMinusCosOverXSquared returns (1 - cos(x))/x^2, falling back to its series near zero.
func OneMinusCosOverXSquared(x float64) float64 {
	// the direct formula loses precision well above Epsilon
	if math.Abs(x) < 1e-2 {
		x2 := x * x
		return 0.5 - x2/24 + x2*x2/720
	}
	return (1 - math.Cos(x)) / (x * x)
}

// XMinusSinOverXCubed returns (x - sin(x))/x^3, falling back to its series near zero.
func XMinusSinOverXCubed(x float64) float64 {
	if math.Abs(x) < 1e-2 {
		x2 := x * x
		return 1./6 - x2/120 + x2*x2/5040
	}
	return (x - math.Sin(x)) / (x * x * x)
}

// InverseJacobianCoefficient returns (1 - x sin(x) / (2 (1 - cos(x)))) / x^2, the coefficient of the
// squared skew matrix in the inverse left jacobian of SO(3). It falls back to its series near zero.
func InverseJacobianCoefficient(x float64) float64 {
	if math.Abs(x) < 5e-2 {
		x2 := x * x
		return 1./12 + x2/720 + x2*x2/30240
	}
	return (1 - x*math.Sin(x)/(2*(1-math.Cos(x)))) / (x * x)
}

// RegularizeAngle reduces an angle modulo 2pi into (-pi, pi].
func RegularizeAngle(theta float64) float64 {
	reduced := math.Mod(theta, 2*math.Pi)
	if reduced < 0 {
		reduced += 2 * math.Pi
	}
	if reduced > math.Pi {
		reduced -= 2 * math.Pi
	}
	return reduced
}
