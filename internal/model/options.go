package model

import (
	"github.com/cwbudde/skyfit/internal/funcs"
	"github.com/cwbudde/skyfit/internal/quadrature"
)

// FunctionConfig names one function object to instantiate, its fixed center
// in image coordinates, and its initial parameter values.
type FunctionConfig struct {
	Type   string    `json:"type"`
	X0     float64   `json:"x0"`
	Y0     float64   `json:"y0"`
	Params []float64 `json:"params"`
}

// Options is the flat configuration a model is built from. The engine-wide
// constants live here explicitly rather than as process globals, so models
// with different settings can coexist.
type Options struct {
	// Functions lists the components in evaluation order; parameter offset
	// windows are allocated in this order.
	Functions []FunctionConfig `json:"functions"`

	// ZeroPoint converts surface-brightness parameters to linear flux.
	ZeroPoint float64 `json:"zeroPoint"`

	// Tolerances bound the adaptive line-of-sight integration of projected
	// profiles.
	Tolerances quadrature.Tolerances `json:"tolerances"`

	// Acceptance is the absolute error bound under which a budget-exhausted
	// integral is still accepted rather than flagged.
	Acceptance float64 `json:"acceptance"`
}

// DefaultOptions returns the engine-wide defaults.
func DefaultOptions() Options {
	return Options{
		ZeroPoint:  funcs.DefaultZeroPoint,
		Tolerances: quadrature.DefaultTolerances(),
		Acceptance: 1e-6,
	}
}
