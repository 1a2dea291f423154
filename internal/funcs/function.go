// Package funcs implements the light-profile function objects that a model
// image is composed from. Every profile follows a two-phase protocol: Setup
// extracts its parameters from the shared vector and precomputes everything
// that does not depend on the pixel coordinate, then GetValue is called once
// per (sub)pixel using only that cached state.
package funcs

import "fmt"

// FunctionObject is the capability set every profile variant implements.
type FunctionObject interface {
	// Name returns the short identifier used in configuration files.
	Name() string

	// NParams returns the number of parameters this profile consumes from
	// the shared parameter vector.
	NParams() int

	// ParamNames returns the ordered parameter labels, for reporting.
	ParamNames() []string

	// Setup extracts this object's parameters from params starting at
	// offset, stores the profile center (xc, yc), and precomputes every
	// quantity that does not depend on the pixel coordinate. GetValue must
	// not recompute anything Setup could have cached.
	Setup(params []float64, offset int, xc, yc float64)

	// GetValue returns the profile's flux contribution at sky coordinate
	// (x, y), using only state cached by the most recent Setup call. It
	// panics if Setup has never been called.
	GetValue(x, y float64) float64
}

// ZeroPointUser is implemented by profiles whose surface-brightness
// parameters need the magnitude zero point to convert to linear flux. The
// model factory injects the configured value before first use.
type ZeroPointUser interface {
	SetZeroPoint(zp float64)
}

// ConvergenceReporter is implemented by profiles that integrate numerically
// and may produce degraded per-pixel values when the integrator's subdivision
// budget runs out. The assembly engine resets the counters before an
// evaluation pass and collects them afterwards, so a non-converged pixel is
// never silently dropped.
type ConvergenceReporter interface {
	// ConvergenceFailures reports how many GetValue calls since the last
	// reset exceeded the acceptance threshold, and the worst error
	// estimate seen.
	ConvergenceFailures() (count int, worstErr float64)

	// ResetConvergence clears the failure counters.
	ResetConvergence()
}

// notSetup panics with a named invalid-state message. GetValue before Setup
// is a programming error, not an input error, so it fails fast instead of
// returning a silent zero.
func notSetup(name string) {
	panic(fmt.Sprintf("funcs: %s.GetValue called before Setup", name))
}
