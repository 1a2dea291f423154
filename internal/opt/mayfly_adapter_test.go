package opt

import (
	"math"
	"testing"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin.
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func TestMayflyAdapterOnSphere(t *testing.T) {
	optimizer := NewMayfly(100, 20, 42)

	dim := 3
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = -10
		upper[i] = 10
	}

	best, cost := optimizer.Run(sphere, lower, upper, dim)

	if len(best) != dim {
		t.Fatalf("expected %d parameters, got %d", dim, len(best))
	}
	if cost > 0.1 {
		t.Errorf("expected cost near 0, got %f", cost)
	}
}

func TestMayflyAdapterRespectsPerDimensionBounds(t *testing.T) {
	// Asymmetric box: the returned best must sit inside each dimension's
	// own range even though the library searches the envelope.
	lower := []float64{2, -10}
	upper := []float64{5, -4}
	optimizer := NewMayfly(60, 20, 7)

	best, _ := optimizer.Run(sphere, lower, upper, 2)
	for i, v := range best {
		if v < lower[i] || v > upper[i] {
			t.Errorf("parameter %d = %f outside [%f, %f]", i, v, lower[i], upper[i])
		}
	}
	// The constrained minimum of the sphere is at the box corner nearest
	// the origin.
	if math.Abs(best[0]-2) > 0.5 || math.Abs(best[1]+4) > 0.5 {
		t.Errorf("best = %v, want near (2, -4)", best)
	}
}

func TestMayflyAdapterDeterministic(t *testing.T) {
	dim := 2
	lower := []float64{-5, -5}
	upper := []float64{5, 5}

	// popSize must be >= 20 for mayfly v0.1.0.
	optimizer1 := NewMayfly(50, 20, 123)
	_, cost1 := optimizer1.Run(sphere, lower, upper, dim)

	optimizer2 := NewMayfly(50, 20, 123)
	_, cost2 := optimizer2.Run(sphere, lower, upper, dim)

	if cost1 != cost2 {
		t.Errorf("non-deterministic: cost1=%f, cost2=%f", cost1, cost2)
	}
}
