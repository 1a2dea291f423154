package fit

import (
	"log/slog"
	"math"
)

// ConvergenceConfig controls early stopping of an iterated fit.
type ConvergenceConfig struct {
	Enabled bool

	// Patience is the number of updates with no significant improvement
	// before the fit is declared converged.
	Patience int

	// Threshold is the minimum relative improvement,
	// (oldCost-newCost)/oldCost, that counts as progress.
	Threshold float64
}

// DefaultConvergenceConfig returns the defaults used by the CLI.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled:   true,
		Patience:  3,
		Threshold: 0.001,
	}
}

// ConvergenceTracker tracks cost history and detects stalls.
type ConvergenceTracker struct {
	config          ConvergenceConfig
	bestCost        float64
	lastSignificant float64
	staleCount      int
	updates         int
}

// NewConvergenceTracker creates a tracker with the given config.
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		bestCost:        math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records a new cost value and returns true once the fit has gone
// Patience updates without a significant improvement.
func (c *ConvergenceTracker) Update(cost float64) bool {
	if !c.config.Enabled {
		return false
	}

	c.updates++
	if cost < c.bestCost {
		c.bestCost = cost
	}
	if c.updates == 1 {
		c.lastSignificant = cost
		return false
	}

	relImprovement := (c.lastSignificant - cost) / c.lastSignificant
	if relImprovement >= c.config.Threshold {
		c.lastSignificant = cost
		c.staleCount = 0
		return false
	}

	c.staleCount++
	if c.staleCount >= c.config.Patience {
		slog.Info("fit converged, stopping early",
			"stale_count", c.staleCount, "best_cost", c.bestCost)
		return true
	}
	return false
}

// BestCost returns the best cost seen so far.
func (c *ConvergenceTracker) BestCost() float64 { return c.bestCost }

// StaleCount returns the updates since the last significant improvement.
func (c *ConvergenceTracker) StaleCount() int { return c.staleCount }
