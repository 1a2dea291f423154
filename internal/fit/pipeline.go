package fit

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/skyfit/internal/convolve"
	"github.com/cwbudde/skyfit/internal/model"
	"github.com/cwbudde/skyfit/internal/opt"
)

// Problem binds a built model to its data for fitting. Convolver is optional;
// when present the model grid is PSF-blurred before comparison, matching how
// the data was observed.
type Problem struct {
	Model     *model.ModelImage
	Convolver *convolve.Convolver
	Cost      CostFunc
}

// NewProblem wires a fitting problem from a model. The model must carry a
// data grid; a PSF grid, if wired, becomes the convolver.
func NewProblem(m *model.ModelImage, cost CostFunc) (*Problem, error) {
	if m.Data() == nil {
		return nil, errors.New("fit: model carries no data grid to fit against")
	}
	p := &Problem{Model: m, Cost: cost}
	if psf := m.PSF(); psf != nil {
		conv, err := convolve.New(psf)
		if err != nil {
			return nil, fmt.Errorf("fit: building convolver: %w", err)
		}
		p.Convolver = conv
	}
	return p, nil
}

// Objective returns the cost of one parameter vector: evaluate, optionally
// convolve, compare. Evaluation errors score +Inf so the optimizer backs
// away from malformed vectors.
func (p *Problem) Objective(params []float64) float64 {
	grid, err := p.Model.Evaluate(params)
	if err != nil {
		return math.Inf(1)
	}
	if p.Convolver != nil {
		grid = p.Convolver.Convolve(grid)
	}
	return p.Cost(grid, p.Model.Data(), p.Model.Mask(), p.Model.Errors())
}

// Result holds the output of a fit.
type Result struct {
	BestParams  []float64
	BestCost    float64
	InitialCost float64
	Rounds      int
}

// maxFitRounds caps the restart loop of RunConverged even when the tracker
// never reports a stall.
const maxFitRounds = 20

// Run fits the problem's parameter vector with a single optimizer pass
// inside the supplied per-parameter bounds.
func Run(p *Problem, optimizer opt.Optimizer, initial, lower, upper []float64) (*Result, error) {
	return RunConverged(p, optimizer, initial, lower, upper, ConvergenceConfig{})
}

// RunConverged fits with restart rounds: each round runs the optimizer,
// feeds the incumbent best cost to a ConvergenceTracker, and contracts the
// search window around the best vector. It stops when the tracker reports a
// stall, the round cap is hit, or immediately after one round when cfg is
// disabled.
func RunConverged(p *Problem, optimizer opt.Optimizer, initial, lower, upper []float64, cfg ConvergenceConfig) (*Result, error) {
	dim := p.Model.NParams()
	if len(initial) != dim || len(lower) != dim || len(upper) != dim {
		return nil, fmt.Errorf("fit: bounds/initial length mismatch (model has %d parameters)", dim)
	}

	initialCost := p.Objective(initial)
	slog.Info("starting fit", "parameters", dim, "initial_cost", initialCost)

	bestParams := append([]float64(nil), initial...)
	bestCost := initialCost
	tracker := NewConvergenceTracker(cfg)
	lo := append([]float64(nil), lower...)
	hi := append([]float64(nil), upper...)

	rounds := 0
	for rounds < maxFitRounds {
		params, cost := optimizer.Run(p.Objective, lo, hi, dim)
		rounds++
		if cost < bestCost {
			bestParams = append([]float64(nil), params...)
			bestCost = cost
		}
		slog.Debug("fit round complete", "round", rounds, "round_cost", cost, "best_cost", bestCost)
		if !cfg.Enabled || tracker.Update(bestCost) {
			break
		}
		// Halve the search span around the incumbent best, staying inside
		// the caller's bounds.
		for i := range lo {
			quarter := 0.25 * (hi[i] - lo[i])
			lo[i] = math.Max(lower[i], bestParams[i]-quarter)
			hi[i] = math.Min(upper[i], bestParams[i]+quarter)
		}
	}

	if status := p.Model.Convergence(); status.FailedIntegrals > 0 {
		slog.Warn("final evaluation had non-converged integrals",
			"failed_integrals", status.FailedIntegrals)
	}
	slog.Info("fit complete", "rounds", rounds, "initial_cost", initialCost, "best_cost", bestCost)

	return &Result{
		BestParams:  bestParams,
		BestCost:    bestCost,
		InitialCost: initialCost,
		Rounds:      rounds,
	}, nil
}
