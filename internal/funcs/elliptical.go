package funcs

import "math"

// Registry names of the direct elliptical 2-D profiles.
const (
	NameGaussian    = "Gaussian"
	NameExponential = "Exponential"
	NameSersic      = "Sersic"
)

// ellipse caches the generalized-ellipse geometry shared by the direct 2-D
// profiles: a rotation by position angle plus an axis-ratio squeeze.
type ellipse struct {
	x0, y0       float64
	cosPA, sinPA float64
	q            float64 // axis ratio, 1 - ellipticity
}

func (e *ellipse) setup(xc, yc, paDeg, ell float64) {
	e.x0 = xc
	e.y0 = yc
	paRad := paDeg * math.Pi / 180
	e.cosPA = math.Cos(paRad)
	e.sinPA = math.Sin(paRad)
	e.q = 1 - ell
}

// radius returns the elliptical radius of sky point (x, y): the semi-major
// axis of the ellipse through that point.
func (e *ellipse) radius(x, y float64) float64 {
	dx := x - e.x0
	dy := y - e.y0
	xp := dx*e.cosPA + dy*e.sinPA
	yp := -dx*e.sinPA + dy*e.cosPA
	yScaled := yp / e.q
	return math.Sqrt(xp*xp + yScaled*yScaled)
}

// Gaussian is an elliptical 2-D Gaussian with central flux I_0.
// Parameters: PA (deg, CCW from +x), ell, I_0, sigma.
type Gaussian struct {
	ellipse
	i0, sigma float64
	ready     bool
}

// NewGaussian returns an un-setup elliptical Gaussian profile.
func NewGaussian() *Gaussian { return &Gaussian{} }

func (g *Gaussian) Name() string { return NameGaussian }
func (g *Gaussian) NParams() int { return 4 }
func (g *Gaussian) ParamNames() []string {
	return []string{"PA", "ell", "I_0", "sigma"}
}

func (g *Gaussian) Setup(params []float64, offset int, xc, yc float64) {
	g.ellipse.setup(xc, yc, params[offset], params[offset+1])
	g.i0 = params[offset+2]
	g.sigma = params[offset+3]
	g.ready = true
}

func (g *Gaussian) GetValue(x, y float64) float64 {
	if !g.ready {
		notSetup(NameGaussian)
	}
	r := g.radius(x, y) / g.sigma
	return g.i0 * math.Exp(-r*r/2)
}

// Exponential is an elliptical exponential profile with central flux I_0 and
// scale length h. Parameters: PA, ell, I_0, h.
type Exponential struct {
	ellipse
	i0, h float64
	ready bool
}

// NewExponential returns an un-setup exponential profile.
func NewExponential() *Exponential { return &Exponential{} }

func (e *Exponential) Name() string { return NameExponential }
func (e *Exponential) NParams() int { return 4 }
func (e *Exponential) ParamNames() []string {
	return []string{"PA", "ell", "I_0", "h"}
}

func (e *Exponential) Setup(params []float64, offset int, xc, yc float64) {
	e.ellipse.setup(xc, yc, params[offset], params[offset+1])
	e.i0 = params[offset+2]
	e.h = params[offset+3]
	e.ready = true
}

func (e *Exponential) GetValue(x, y float64) float64 {
	if !e.ready {
		notSetup(NameExponential)
	}
	return e.i0 * math.Exp(-e.radius(x, y)/e.h)
}

// Sersic is an elliptical Sersic profile with index n and effective-radius
// flux I_e. Parameters: PA, ell, n, I_e, r_e.
type Sersic struct {
	ellipse
	n, ie, re float64
	bn        float64 // precomputed Ciotti-Bertin expansion
	invN      float64
	ready     bool
}

// NewSersic returns an un-setup Sersic profile.
func NewSersic() *Sersic { return &Sersic{} }

func (s *Sersic) Name() string { return NameSersic }
func (s *Sersic) NParams() int { return 5 }
func (s *Sersic) ParamNames() []string {
	return []string{"PA", "ell", "n", "I_e", "r_e"}
}

func (s *Sersic) Setup(params []float64, offset int, xc, yc float64) {
	s.ellipse.setup(xc, yc, params[offset], params[offset+1])
	s.n = params[offset+2]
	s.ie = params[offset+3]
	s.re = params[offset+4]

	// Ciotti & Bertin (1999) asymptotic expansion for b_n.
	n := s.n
	s.bn = 2*n - 1.0/3.0 + 4.0/(405.0*n) + 46.0/(25515.0*n*n) + 131.0/(1148175.0*n*n*n)
	s.invN = 1 / n
	s.ready = true
}

func (s *Sersic) GetValue(x, y float64) float64 {
	if !s.ready {
		notSetup(NameSersic)
	}
	r := s.radius(x, y) / s.re
	return s.ie * math.Exp(-s.bn*(math.Pow(r, s.invN)-1))
}
