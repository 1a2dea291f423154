package funcs

import "math"

// NameGaussian1D is the registry name of the radial 1-D Gaussian profile.
const NameGaussian1D = "Gaussian-1D"

// DefaultZeroPoint is the magnitude zero point assumed until the model
// factory injects the configured value.
const DefaultZeroPoint = 26.0

// Gaussian1D is a circular Gaussian evaluated on the radial distance from
// its center. Its peak is parameterized as a surface brightness mu_0
// (mag/arcsec^2) and converted to linear flux with the magnitude zero point,
// so GetValue returns flux, not magnitudes.
type Gaussian1D struct {
	zeroPoint float64

	x0, y0 float64
	mu0    float64
	sigma  float64

	i0    float64 // peak flux, precomputed from mu0 and the zero point
	ready bool
}

// NewGaussian1D returns an un-setup Gaussian-1D profile.
func NewGaussian1D() *Gaussian1D {
	return &Gaussian1D{zeroPoint: DefaultZeroPoint}
}

func (g *Gaussian1D) Name() string         { return NameGaussian1D }
func (g *Gaussian1D) NParams() int         { return 2 }
func (g *Gaussian1D) ParamNames() []string { return []string{"mu_0", "sigma"} }

// SetZeroPoint injects the magnitude zero point used to convert mu_0 to a
// linear peak flux. Takes effect at the next Setup call.
func (g *Gaussian1D) SetZeroPoint(zp float64) {
	g.zeroPoint = zp
}

func (g *Gaussian1D) Setup(params []float64, offset int, xc, yc float64) {
	g.x0 = xc
	g.y0 = yc
	g.mu0 = params[offset]
	g.sigma = params[offset+1]

	g.i0 = math.Pow(10, 0.4*(g.zeroPoint-g.mu0))
	g.ready = true
}

func (g *Gaussian1D) GetValue(x, y float64) float64 {
	if !g.ready {
		notSetup(NameGaussian1D)
	}
	dx := x - g.x0
	dy := y - g.y0
	scaledR := math.Sqrt(dx*dx+dy*dy) / g.sigma
	return g.i0 * math.Exp(-scaledR*scaledR/2)
}
