package funcs

import (
	"math"
	"sort"
	"strings"
	"testing"
)

func TestRegistryKnownNames(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	for _, name := range names {
		fn, err := New(name)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if fn.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, fn.Name())
		}
		if got := len(fn.ParamNames()); got != fn.NParams() {
			t.Errorf("%s: %d labels for %d params", name, got, fn.NParams())
		}
	}
}

func TestRegistryUnknownName(t *testing.T) {
	fn, err := New("NoSuchProfile")
	if err == nil {
		t.Fatal("expected error for unknown function type")
	}
	if fn != nil {
		t.Error("unknown type must not construct an object")
	}
	if !strings.Contains(err.Error(), "NoSuchProfile") {
		t.Errorf("error should name the bad type: %v", err)
	}
}

func TestGetValueBeforeSetupPanics(t *testing.T) {
	for _, name := range Names() {
		fn, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: GetValue before Setup did not panic", name)
				}
			}()
			fn.GetValue(0, 0)
		}()
	}
}

func TestGaussian1DPeakAndProfile(t *testing.T) {
	g := NewGaussian1D()
	g.SetZeroPoint(26.0)

	mu0, sigma := 20.0, 3.0
	g.Setup([]float64{mu0, sigma}, 0, 16, 16)

	peak := math.Pow(10, 0.4*(26.0-mu0))
	if got := g.GetValue(16, 16); math.Abs(got-peak)/peak > 1e-12 {
		t.Errorf("peak = %g, want %g", got, peak)
	}

	for _, k := range []float64{1, 2, 3} {
		want := peak * math.Exp(-k*k/2)
		got := g.GetValue(16+k*sigma, 16)
		if math.Abs(got-want)/want > 1e-9 {
			t.Errorf("k=%g along x: got %g, want %g", k, got, want)
		}
		// Radial symmetry: same value along y and along the diagonal.
		gotY := g.GetValue(16, 16-k*sigma)
		if math.Abs(gotY-want)/want > 1e-9 {
			t.Errorf("k=%g along y: got %g, want %g", k, gotY, want)
		}
		d := k * sigma / math.Sqrt2
		gotD := g.GetValue(16+d, 16+d)
		if math.Abs(gotD-want)/want > 1e-9 {
			t.Errorf("k=%g along diagonal: got %g, want %g", k, gotD, want)
		}
	}
}

func TestGaussian1DZeroPointScaling(t *testing.T) {
	g := NewGaussian1D()
	g.SetZeroPoint(25.0)
	g.Setup([]float64{20.0, 2.0}, 0, 0, 0)
	peak25 := g.GetValue(0, 0)

	g.SetZeroPoint(26.0)
	g.Setup([]float64{20.0, 2.0}, 0, 0, 0)
	peak26 := g.GetValue(0, 0)

	// One magnitude of zero point is a factor 10^0.4.
	ratio := peak26 / peak25
	if math.Abs(ratio-math.Pow(10, 0.4)) > 1e-12 {
		t.Errorf("zero-point ratio = %g, want %g", ratio, math.Pow(10, 0.4))
	}
}

func TestGaussian1DOffsetWindow(t *testing.T) {
	// Parameters live at an arbitrary offset in a shared vector.
	params := []float64{99, 99, 99, 21.0, 4.0, 99}
	g := NewGaussian1D()
	g.Setup(params, 3, 5, 5)
	want := math.Pow(10, 0.4*(DefaultZeroPoint-21.0))
	if got := g.GetValue(5, 5); math.Abs(got-want)/want > 1e-12 {
		t.Errorf("offset extraction wrong: got %g, want %g", got, want)
	}
}

func TestFlatSky(t *testing.T) {
	f := NewFlatSky()
	f.Setup([]float64{12.5}, 0, 0, 0)
	for _, xy := range [][2]float64{{0, 0}, {100, -3}, {7.5, 7.5}} {
		if got := f.GetValue(xy[0], xy[1]); got != 12.5 {
			t.Errorf("FlatSky(%v) = %g, want 12.5", xy, got)
		}
	}
}

func TestGaussianEllipticalGeometry(t *testing.T) {
	g := NewGaussian()
	// PA=0: major axis along +x, axis ratio q=0.5.
	g.Setup([]float64{0, 0.5, 100, 2.0}, 0, 0, 0)

	alongMajor := g.GetValue(2, 0)
	alongMinor := g.GetValue(0, 2) // same sky distance, but two elliptical radii
	if alongMajor <= alongMinor {
		t.Errorf("profile should fall faster along the minor axis: major=%g minor=%g", alongMajor, alongMinor)
	}

	// The point (0, q*r) sits on the same isophote as (r, 0).
	same := g.GetValue(0, 0.5*2)
	if math.Abs(same-alongMajor)/alongMajor > 1e-12 {
		t.Errorf("isophote mismatch: %g vs %g", same, alongMajor)
	}
}

func TestGaussianRotation(t *testing.T) {
	g := NewGaussian()
	// PA=90: major axis along +y.
	g.Setup([]float64{90, 0.5, 100, 2.0}, 0, 0, 0)
	alongY := g.GetValue(0, 2)
	alongX := g.GetValue(2, 0)
	if alongY <= alongX {
		t.Errorf("PA=90 should put the shallow direction along y: y=%g x=%g", alongY, alongX)
	}
}

func TestExponentialProfileShape(t *testing.T) {
	e := NewExponential()
	e.Setup([]float64{0, 0, 50, 3.0}, 0, 10, 10)
	if got := e.GetValue(10, 10); got != 50 {
		t.Errorf("central value = %g, want 50", got)
	}
	want := 50 * math.Exp(-2)
	if got := e.GetValue(16, 10); math.Abs(got-want)/want > 1e-12 {
		t.Errorf("value at 2h = %g, want %g", got, want)
	}
}

func TestSersicN1MatchesExponentialShape(t *testing.T) {
	// A Sersic with n=1 is an exponential with h = r_e/b_1; check the decay
	// ratio between two radii agrees with that scale length.
	s := NewSersic()
	s.Setup([]float64{0, 0, 1.0, 10, 5.0}, 0, 0, 0)

	if got := s.GetValue(5, 0); math.Abs(got-10)/10 > 1e-12 {
		t.Errorf("I(r_e) = %g, want I_e = 10", got)
	}

	b1 := 2*1.0 - 1.0/3.0 + 4.0/405.0 + 46.0/25515.0 + 131.0/1148175.0
	h := 5.0 / b1
	ratio := s.GetValue(8, 0) / s.GetValue(6, 0)
	want := math.Exp(-2 / h)
	if math.Abs(ratio-want)/want > 1e-9 {
		t.Errorf("n=1 decay ratio = %g, want %g", ratio, want)
	}
}
