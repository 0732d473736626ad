package mandel

import (
	"math"
	"testing"
)

func TestIterationsToEscape_KnownPoints(t *testing.T) {
	tests := []struct {
		name    string
		c       complex128
		maxIter int
		want    int
	}{
		{"origin never escapes", 0, 100, 100},
		{"minus one is a period-2 cycle", -1, 100, 100},
		{"minus two sits on the threshold", -2, 100, 100},
		{"i is preperiodic", 1i, 100, 100},
		// z: 0 -> 2 (|z| = 2 still inside) -> 6
		{"two escapes on the second step", 2, 100, 2},
		{"three escapes on the first step", 3, 100, 1},
		// z: 0 -> 1 -> 2 -> 5
		{"one", 1, 100, 3},
		{"budget of one", 0, 1, 1},
		{"zero budget", 0, 0, 0},
		{"far away", complex(100, -100), 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IterationsToEscape(tt.c, tt.maxIter); got != tt.want {
				t.Errorf("IterationsToEscape(%v, %d) = %d, want %d", tt.c, tt.maxIter, got, tt.want)
			}
		})
	}
}

func TestIterationsToEscape_Bounded(t *testing.T) {
	for _, maxIter := range []int{1, 2, 7, 50, 256} {
		for x := -2.5; x <= 1.5; x += 0.1 {
			for y := -1.5; y <= 1.5; y += 0.1 {
				n := IterationsToEscape(complex(x, y), maxIter)
				if n < 0 || n > maxIter {
					t.Fatalf("IterationsToEscape(%v, %d) = %d, out of [0, %d]", complex(x, y), maxIter, n, maxIter)
				}
			}
		}
	}
}

func TestIterationsToEscape_NonFinite(t *testing.T) {
	for _, c := range []complex128{
		complex(math.NaN(), 0),
		complex(0, math.NaN()),
		complex(math.Inf(1), 0),
		complex(0, math.Inf(-1)),
	} {
		if got := IterationsToEscape(c, 100); got != 0 {
			t.Errorf("IterationsToEscape(%v, 100) = %d, want 0", c, got)
		}
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		n, maxIter int
		want       float64
	}{
		{0, 100, 0},
		{50, 100, 0.5},
		{100, 100, 1},
		{120, 100, 1},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Fraction(tt.n, tt.maxIter); got != tt.want {
			t.Errorf("Fraction(%d, %d) = %v, want %v", tt.n, tt.maxIter, got, tt.want)
		}
	}
}
