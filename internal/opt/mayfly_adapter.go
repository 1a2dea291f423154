package opt

import (
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the external mayfly library behind the Optimizer
// interface.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a mayfly optimizer adapter. A fixed seed makes runs
// reproducible.
func NewMayfly(maxIters, popSize int, seed int64) Optimizer {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Run executes the mayfly optimization. The library accepts a single scalar
// bound pair, so the search box is the envelope of all per-dimension bounds
// and eval clamps candidates back into their own ranges before scoring.
func (m *MayflyAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for i := 0; i < dim; i++ {
		lo = math.Min(lo, lower[i])
		hi = math.Max(hi, upper[i])
	}

	clamped := make([]float64, dim)
	clamp := func(x []float64) []float64 {
		for i := 0; i < dim; i++ {
			clamped[i] = math.Max(lower[i], math.Min(upper[i], x[i]))
		}
		return clamped
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(x []float64) float64 { return eval(clamp(x)) }
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = lo
	config.UpperBound = hi
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		fallback := make([]float64, dim)
		copy(fallback, lower)
		return fallback, eval(fallback)
	}

	best := make([]float64, dim)
	copy(best, clamp(result.GlobalBest.Position))
	return best, result.GlobalBest.Cost
}
