package mandel

import (
	"math"
	"math/cmplx"
)

// IterationsToEscape counts iterations of z = z*z + c, starting at z = 0,
// while |z| <= 2 and the count is below maxIter.
// A result of maxIter means c did not escape and is taken to be inside the set.
func IterationsToEscape(c complex128, maxIter int) int {
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		return 0
	}
	z := complex(0, 0)
	n := 0
	for n < maxIter && real(z)*real(z)+imag(z)*imag(z) <= 4 {
		z = z*z + c
		n++
	}
	return n
}

// escaped reports whether a raster value marks a point outside the set.
func escaped(n, maxIter int) bool {
	return n < maxIter
}

// Fraction normalizes an escape count to [0, 1] over [0, maxIter].
func Fraction(n, maxIter int) float64 {
	if maxIter <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, float64(n)/float64(maxIter)))
}
