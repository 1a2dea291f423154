package model

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/skyfit/internal/funcs"
)

// ModelImage is the assembled model: an ordered collection of function
// objects with their parameter offset windows, the pixel-grid geometry, and
// non-owning references to the caller's data/mask/error/PSF grids. It is
// built once by Setup, then Evaluate is called repeatedly as the optimizer
// mutates the parameter vector.
//
// Evaluation is synchronous and single-threaded; parameter mutation and
// evaluation must never overlap.
type ModelImage struct {
	functions []funcs.FunctionObject
	offsets   []int
	centers   [][2]float64
	nParams   int

	nCols, nRows int

	data   *Grid
	mask   *Grid
	errors *Grid

	psf            *Grid
	psfOversampled *Grid
	oversample     *OversampleRegion

	lastStatus ConvergenceStatus
}

// ConvergenceStatus summarizes the integration health of one evaluation
// pass.
type ConvergenceStatus struct {
	// FailedIntegrals counts line-of-sight integrals whose error bound
	// exceeded the acceptance threshold.
	FailedIntegrals int

	// WorstErrEstimate is the largest error bound among failed integrals.
	WorstErrEstimate float64
}

// NParams returns the total length of the shared parameter vector.
func (m *ModelImage) NParams() int { return m.nParams }

// NCols returns the model grid width.
func (m *ModelImage) NCols() int { return m.nCols }

// NRows returns the model grid height.
func (m *ModelImage) NRows() int { return m.nRows }

// NFunctions returns the number of configured function objects.
func (m *ModelImage) NFunctions() int { return len(m.functions) }

// OffsetWindows returns the (offset, count) parameter window of each
// function object, in evaluation order.
func (m *ModelImage) OffsetWindows() [][2]int {
	out := make([][2]int, len(m.functions))
	for i, fn := range m.functions {
		out[i] = [2]int{m.offsets[i], fn.NParams()}
	}
	return out
}

// ParamNames returns the flattened, ordered parameter labels of all function
// objects.
func (m *ModelImage) ParamNames() []string {
	names := make([]string, 0, m.nParams)
	for _, fn := range m.functions {
		names = append(names, fn.ParamNames()...)
	}
	return names
}

// Data returns the caller's data grid (may be nil for render-only models).
func (m *ModelImage) Data() *Grid { return m.data }

// Mask returns the mask grid, or nil. Nonzero mask values exclude a pixel
// from downstream statistics; the engine still evaluates it.
func (m *ModelImage) Mask() *Grid { return m.mask }

// Errors returns the per-pixel uncertainty grid, or nil.
func (m *ModelImage) Errors() *Grid { return m.errors }

// PSF returns the point-spread-function kernel, or nil.
func (m *ModelImage) PSF() *Grid { return m.psf }

// PSFOversampled returns the oversampled PSF kernel, or nil.
func (m *ModelImage) PSFOversampled() *Grid { return m.psfOversampled }

// Oversample returns the configured oversample region, or nil.
func (m *ModelImage) Oversample() *OversampleRegion { return m.oversample }

// Convergence reports the integration status of the most recent Evaluate
// pass.
func (m *ModelImage) Convergence() ConvergenceStatus { return m.lastStatus }

// Evaluate assembles the pre-convolution model image for the given parameter
// vector: one Setup call per function object, then per-pixel summation in
// function list order. Pixels inside the oversample region are evaluated on
// the factor x factor sub-grid and box-averaged. Re-evaluating with an
// unchanged vector is bit-identical.
func (m *ModelImage) Evaluate(params []float64) (*Grid, error) {
	if len(params) != m.nParams {
		return nil, fmt.Errorf("model: parameter vector has length %d, model needs %d",
			len(params), m.nParams)
	}

	for i, fn := range m.functions {
		fn.Setup(params, m.offsets[i], m.centers[i][0], m.centers[i][1])
		if rep, ok := fn.(funcs.ConvergenceReporter); ok {
			rep.ResetConvergence()
		}
	}

	out := NewGrid(m.nCols, m.nRows)
	for row := 0; row < m.nRows; row++ {
		for col := 0; col < m.nCols; col++ {
			var v float64
			if m.oversample != nil && m.oversample.Rect.Contains(col, row) {
				v = m.oversampledValue(col, row, m.oversample.Factor)
			} else {
				v = m.valueAt(float64(col), float64(row))
			}
			out.Set(col, row, v)
		}
	}

	m.lastStatus = ConvergenceStatus{}
	for _, fn := range m.functions {
		if rep, ok := fn.(funcs.ConvergenceReporter); ok {
			count, worst := rep.ConvergenceFailures()
			m.lastStatus.FailedIntegrals += count
			if worst > m.lastStatus.WorstErrEstimate {
				m.lastStatus.WorstErrEstimate = worst
			}
		}
	}
	if m.lastStatus.FailedIntegrals > 0 {
		slog.Warn("integration did not converge for some pixels",
			"failed_integrals", m.lastStatus.FailedIntegrals,
			"worst_error_estimate", m.lastStatus.WorstErrEstimate)
	}

	return out, nil
}

// valueAt sums every function object at sky coordinate (x, y), in list
// order.
func (m *ModelImage) valueAt(x, y float64) float64 {
	var sum float64
	for _, fn := range m.functions {
		sum += fn.GetValue(x, y)
	}
	return sum
}

// oversampledValue evaluates pixel (col, row) on an n x n sub-grid of
// sub-pixel centers and returns the arithmetic mean. A factor of 1
// degenerates to the pixel center exactly.
func (m *ModelImage) oversampledValue(col, row, n int) float64 {
	step := 1.0 / float64(n)
	x0 := float64(col) - 0.5
	y0 := float64(row) - 0.5

	var sum float64
	for j := 0; j < n; j++ {
		y := y0 + (float64(j)+0.5)*step
		for i := 0; i < n; i++ {
			x := x0 + (float64(i)+0.5)*step
			sum += m.valueAt(x, y)
		}
	}
	return sum / float64(n*n)
}
