package quadrature

import (
	"errors"
	"math"
	"testing"
)

func TestAdaptivePolynomial(t *testing.T) {
	// Integral of x^2 over [0,3] is 9; a single K15 panel is exact for this.
	got, errEst, err := Adaptive(func(x float64) float64 { return x * x }, 0, 3, DefaultTolerances())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-9) > 1e-12 {
		t.Errorf("got %.15f, want 9", got)
	}
	if errEst > 1e-10 {
		t.Errorf("error estimate too large for exact rule: %g", errEst)
	}
}

func TestAdaptiveGaussian(t *testing.T) {
	// Integral of exp(-x^2/2) over (-8,8) is very nearly sqrt(2*pi).
	f := func(x float64) float64 { return math.Exp(-x * x / 2) }
	got, _, err := Adaptive(f, -8, 8, DefaultTolerances())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Sqrt(2 * math.Pi)
	if rel := math.Abs(got-want) / want; rel > 1e-9 {
		t.Errorf("relative error %g, want <= 1e-9 (got %.12f, want %.12f)", rel, got, want)
	}
}

func TestAdaptiveDoubleExponential(t *testing.T) {
	// Integral of exp(-|x|/hz) over [-L,L] -> 2*hz*(1-exp(-L/hz)).
	hz := 0.7
	L := 30.0
	f := func(x float64) float64 { return math.Exp(-math.Abs(x) / hz) }
	got, _, err := Adaptive(f, -L, L, DefaultTolerances())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 2 * hz * (1 - math.Exp(-L/hz))
	if rel := math.Abs(got-want) / want; rel > 1e-8 {
		t.Errorf("relative error %g (got %.12f, want %.12f)", rel, got, want)
	}
}

func TestAdaptiveBudgetExhaustion(t *testing.T) {
	// A needle-sharp peak with a budget of one split cannot converge; the
	// degraded estimate must still come back with its error bound.
	f := func(x float64) float64 { return math.Exp(-x * x / (2 * 1e-4)) }
	tol := Tolerances{AbsTol: 1e-14, RelTol: 1e-14, MaxSubdivisions: 1}
	got, errEst, err := Adaptive(f, -10, 10, tol)
	if !errors.Is(err, ErrMaxSubdivisions) {
		t.Fatalf("want ErrMaxSubdivisions, got %v", err)
	}
	if math.IsNaN(got) || math.IsNaN(errEst) {
		t.Errorf("degraded result must be usable, got value=%g errEst=%g", got, errEst)
	}
	if errEst <= 0 {
		t.Errorf("expected a positive error bound on a non-converged result, got %g", errEst)
	}
}

func TestAdaptiveEmptyInterval(t *testing.T) {
	got, errEst, err := Adaptive(func(x float64) float64 { return 1 }, 2, 2, DefaultTolerances())
	if err != nil || got != 0 || errEst != 0 {
		t.Errorf("empty interval: got (%g, %g, %v), want (0, 0, nil)", got, errEst, err)
	}
}

func TestAdaptiveScaleInvariance(t *testing.T) {
	// Scaling the integrand by a power of two scales every intermediate
	// exactly, so the estimate and the error bound must both scale linearly
	// and the subdivision path must not change.
	f := func(x float64) float64 { return math.Exp(-x * x / 2) }
	const c = 0x1p-40
	g := func(x float64) float64 { return c * f(x) }

	tol := Tolerances{AbsTol: 0, RelTol: 1e-8, MaxSubdivisions: 200}
	got1, err1, e1 := Adaptive(f, -8, 8, tol)
	got2, err2, e2 := Adaptive(g, -8, 8, tol)
	if e1 != nil || e2 != nil {
		t.Fatalf("unexpected errors: %v, %v", e1, e2)
	}
	if got2 != c*got1 {
		t.Errorf("estimate not scale-invariant: %g vs %g", got2, c*got1)
	}
	if err2 != c*err1 {
		t.Errorf("error bound not scale-invariant: %g vs %g", err2, c*err1)
	}
}

func TestAdaptiveDeterministic(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(-math.Abs(x)) * math.Cos(3*x) }
	a1, e1, _ := Adaptive(f, -5, 5, DefaultTolerances())
	a2, e2, _ := Adaptive(f, -5, 5, DefaultTolerances())
	if a1 != a2 || e1 != e2 {
		t.Errorf("repeated integration differs: (%v,%v) vs (%v,%v)", a1, e1, a2, e2)
	}
}
