// Package opt abstracts the parameter-space search algorithm driving a fit.
// The evaluation engine never depends on a specific optimizer; it only
// exposes a cost function of the flat parameter vector.
package opt

// Optimizer defines an optimization algorithm interface.
type Optimizer interface {
	// Run minimizes eval over the box [lower, upper] in dim dimensions and
	// returns the best parameter vector and its cost.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}
