package funcs

import (
	"math"

	"github.com/cwbudde/skyfit/internal/quadrature"
)

// NameExponentialDisk3D is the registry name of the inclined 3-D disk.
const NameExponentialDisk3D = "ExponentialDisk3D"

// faceOnIncDeg is the inclination (degrees) below which the line-of-sight
// integral is replaced by its closed form: the integral is exactly separable
// at i=0, and adaptive quadrature loses precision on the near-degenerate
// geometry.
const faceOnIncDeg = 1e-8

// losLimitScale sets the truncation of the line-of-sight integral in decay
// scale lengths; at 20 scale lengths an exponential is below 2.1e-9 of its
// peak.
const losLimitScale = 20.0

// ExponentialDisk3D is a 3-D perfect exponential disk seen at a given
// inclination. The density law is doubly exponential,
//
//	rho(R, z) = J_0 * exp(-R/h) * exp(-|z|/h_z),
//
// and GetValue integrates it along the line of sight through the tilted
// disk. Parameters: PA (deg, CCW from +x), inc (deg, 0 = face-on), J_0
// (central luminosity density), h (radial scale length), h_z (vertical scale
// height).
type ExponentialDisk3D struct {
	tol       quadrature.Tolerances
	errAccept float64 // absolute error bound for accepting a degraded integral

	x0, y0           float64
	pa, inc          float64
	j0, h, hz        float64
	cosPA, sinPA     float64
	cosInc, sinInc   float64
	faceOn           bool
	failures         int
	worstErrEstimate float64
	ready            bool
}

// NewExponentialDisk3D returns an un-setup disk with default integration
// tolerances.
func NewExponentialDisk3D() *ExponentialDisk3D {
	return &ExponentialDisk3D{
		tol:       quadrature.DefaultTolerances(),
		errAccept: 1e-6,
	}
}

func (d *ExponentialDisk3D) Name() string { return NameExponentialDisk3D }
func (d *ExponentialDisk3D) NParams() int { return 5 }
func (d *ExponentialDisk3D) ParamNames() []string {
	return []string{"PA", "inc", "J_0", "h", "h_z"}
}

// SetTolerances replaces the integration tolerances. Takes effect at the
// next GetValue call.
func (d *ExponentialDisk3D) SetTolerances(tol quadrature.Tolerances) {
	d.tol = tol
}

// SetAcceptance sets the absolute error bound under which a
// budget-exhausted integral is still accepted rather than counted as a
// convergence failure.
func (d *ExponentialDisk3D) SetAcceptance(absErr float64) {
	d.errAccept = absErr
}

func (d *ExponentialDisk3D) Setup(params []float64, offset int, xc, yc float64) {
	d.x0 = xc
	d.y0 = yc
	d.pa = params[offset]
	d.inc = params[offset+1]
	d.j0 = params[offset+2]
	d.h = params[offset+3]
	d.hz = params[offset+4]

	paRad := d.pa * math.Pi / 180
	incRad := d.inc * math.Pi / 180
	d.cosPA = math.Cos(paRad)
	d.sinPA = math.Sin(paRad)
	d.cosInc = math.Cos(incRad)
	d.sinInc = math.Sin(incRad)
	d.faceOn = math.Abs(d.inc) < faceOnIncDeg
	d.ready = true
}

// ConvergenceFailures reports integrals since the last reset whose error
// bound exceeded the acceptance threshold, and the worst bound seen.
func (d *ExponentialDisk3D) ConvergenceFailures() (int, float64) {
	return d.failures, d.worstErrEstimate
}

// ResetConvergence clears the failure counters.
func (d *ExponentialDisk3D) ResetConvergence() {
	d.failures = 0
	d.worstErrEstimate = 0
}

func (d *ExponentialDisk3D) GetValue(x, y float64) float64 {
	if !d.ready {
		notSetup(NameExponentialDisk3D)
	}

	// Rotate sky offsets into the disk's projected major-axis frame.
	dx := x - d.x0
	dy := y - d.y0
	xp := dx*d.cosPA + dy*d.sinPA
	yp := -dx*d.sinPA + dy*d.cosPA

	if d.faceOn {
		// Closed form: integrating exp(-|z|/h_z) over the full line of
		// sight gives 2*h_z.
		r := math.Sqrt(xp*xp + yp*yp)
		return 2 * d.hz * d.j0 * math.Exp(-r/d.h)
	}

	// Walk the line of sight parameterized by s. In the disk frame the
	// in-plane and vertical offsets of the point at s are
	//   y_d = yp*cos(i) + s*sin(i),   z_d = -yp*sin(i) + s*cos(i).
	integrand := func(s float64) float64 {
		yd := yp*d.cosInc + s*d.sinInc
		zd := -yp*d.sinInc + s*d.cosInc
		r := math.Sqrt(xp*xp + yd*yd)
		return math.Exp(-r/d.h - math.Abs(zd)/d.hz)
	}

	// Truncate where either exponential has decayed away. The vertical
	// factor is centered on the midplane crossing s_z with scale h_z/cos(i);
	// the radial factor on the in-plane closest approach s_r with scale
	// h/sin(i). Only their intersection contributes.
	sinInc := math.Max(d.sinInc, 1e-12)
	cosInc := math.Max(d.cosInc, 1e-12)
	sz := yp * d.sinInc / cosInc
	sr := -yp * d.cosInc / sinInc
	lo := math.Max(sz-losLimitScale*d.hz/cosInc, sr-losLimitScale*d.h/sinInc)
	hi := math.Min(sz+losLimitScale*d.hz/cosInc, sr+losLimitScale*d.h/sinInc)
	if lo >= hi {
		return 0
	}

	value, errEst, err := quadrature.Adaptive(integrand, lo, hi, d.tol)
	if err != nil && errEst > d.errAccept {
		d.failures++
		if errEst > d.worstErrEstimate {
			d.worstErrEstimate = errEst
		}
	}
	return d.j0 * value
}
