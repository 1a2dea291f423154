package funcs

import (
	"math"
	"testing"

	"github.com/cwbudde/skyfit/internal/quadrature"
)

func setupDisk(t *testing.T, pa, inc, j0, h, hz float64) *ExponentialDisk3D {
	t.Helper()
	d := NewExponentialDisk3D()
	d.Setup([]float64{pa, inc, j0, h, hz}, 0, 0, 0)
	return d
}

func TestExpDisk3DFaceOnClosedForm(t *testing.T) {
	j0, h, hz := 5.0, 4.0, 0.5
	d := setupDisk(t, 30, 0, j0, h, hz)

	for _, r := range []float64{0, 1, 3, 8} {
		want := 2 * hz * j0 * math.Exp(-r/h)
		got := d.GetValue(r, 0)
		if math.Abs(got-want)/want > 1e-12 {
			t.Errorf("face-on at r=%g: got %g, want %g", r, got, want)
		}
	}
}

func TestExpDisk3DNearFaceOnConvergesToClosedForm(t *testing.T) {
	j0, h, hz := 5.0, 4.0, 0.5
	face := setupDisk(t, 0, 0, j0, h, hz)

	// Shrinking inclinations walk the numeric branch toward the analytic
	// face-on value.
	r := 3.0
	want := face.GetValue(r, 0)
	prevDiff := math.Inf(1)
	for _, inc := range []float64{5, 1, 0.1, 0.01} {
		d := setupDisk(t, 0, inc, j0, h, hz)
		got := d.GetValue(r, 0)
		diff := math.Abs(got - want)
		if diff > prevDiff+1e-12 {
			t.Errorf("inc=%g: |diff| grew from %g to %g", inc, prevDiff, diff)
		}
		prevDiff = diff
	}
	if prevDiff/want > 1e-6 {
		t.Errorf("inc=0.01 still off by %g relative", prevDiff/want)
	}
}

func TestExpDisk3DFaceOnBoundaryUsesClosedForm(t *testing.T) {
	// Just under the threshold: closed form, bit-identical to inc=0.
	a := setupDisk(t, 0, 0, 2, 3, 0.4)
	b := setupDisk(t, 0, faceOnIncDeg/2, 2, 3, 0.4)
	if a.GetValue(2, 1) != b.GetValue(2, 1) {
		t.Error("inclination below threshold should take the closed-form branch")
	}

	// Just over: numeric branch, but numerically indistinguishable.
	c := setupDisk(t, 0, faceOnIncDeg*2, 2, 3, 0.4)
	va, vc := a.GetValue(2, 1), c.GetValue(2, 1)
	if math.Abs(va-vc)/va > 1e-7 {
		t.Errorf("numeric branch at the boundary differs: %g vs %g", va, vc)
	}
}

func TestExpDisk3DInclinedSymmetry(t *testing.T) {
	d := setupDisk(t, 0, 60, 1, 3, 0.3)

	// Flux along the major axis is symmetric about the center.
	plus := d.GetValue(2, 0)
	minus := d.GetValue(-2, 0)
	if math.Abs(plus-minus)/plus > 1e-9 {
		t.Errorf("major-axis asymmetry: %g vs %g", plus, minus)
	}

	// A perfect (untruncated, transparent) disk is also minor-axis
	// symmetric.
	above := d.GetValue(0, 1.5)
	below := d.GetValue(0, -1.5)
	if math.Abs(above-below)/above > 1e-9 {
		t.Errorf("minor-axis asymmetry: %g vs %g", above, below)
	}
}

func TestExpDisk3DInclinationBrightening(t *testing.T) {
	// Tilting the disk lengthens the line of sight through the midplane, so
	// the center brightens monotonically with inclination.
	prev := 0.0
	for i, inc := range []float64{0, 30, 60, 80} {
		d := setupDisk(t, 0, inc, 1, 3, 0.3)
		got := d.GetValue(0, 0)
		if i > 0 && got <= prev {
			t.Errorf("central brightness not increasing at inc=%g: %g <= %g", inc, got, prev)
		}
		prev = got
	}
}

func TestExpDisk3DPositionAngleRotation(t *testing.T) {
	// Rotating the component by 90 degrees swaps the major-axis direction.
	d0 := setupDisk(t, 0, 70, 1, 3, 0.3)
	d90 := setupDisk(t, 90, 70, 1, 3, 0.3)

	v1 := d0.GetValue(4, 0)
	v2 := d90.GetValue(0, 4)
	if math.Abs(v1-v2)/v1 > 1e-9 {
		t.Errorf("PA rotation mismatch: %g vs %g", v1, v2)
	}
}

func TestExpDisk3DDeterministic(t *testing.T) {
	d := setupDisk(t, 25, 55, 2, 4, 0.5)
	a := d.GetValue(1.3, -2.7)
	b := d.GetValue(1.3, -2.7)
	if a != b {
		t.Errorf("repeated evaluation differs: %v vs %v", a, b)
	}
}

func TestExpDisk3DConvergenceReporting(t *testing.T) {
	d := setupDisk(t, 0, 89.9, 1, 3, 0.01)
	// Starve the integrator so the budget cannot cover the thin disk, and
	// refuse any degraded result.
	d.SetTolerances(quadrature.Tolerances{AbsTol: 1e-300, RelTol: 1e-16, MaxSubdivisions: 1})
	d.SetAcceptance(0)

	got := d.GetValue(0.5, 0.2)
	if math.IsNaN(got) {
		t.Error("degraded evaluation must still return a best-effort value")
	}
	count, worst := d.ConvergenceFailures()
	if count == 0 {
		t.Error("expected a recorded convergence failure")
	}
	if worst <= 0 {
		t.Errorf("expected a positive worst error estimate, got %g", worst)
	}

	d.ResetConvergence()
	if count, _ := d.ConvergenceFailures(); count != 0 {
		t.Errorf("reset did not clear failures: %d", count)
	}
}
