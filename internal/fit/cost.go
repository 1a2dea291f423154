// Package fit compares evaluated model images against pixel data and drives
// the parameter search. The evaluation engine itself stays out of this
// package: it only produces the pre-convolution model grid.
package fit

import "github.com/cwbudde/skyfit/internal/model"

// CostFunc scores a model grid against the data. Mask and errs may be nil;
// a nonzero mask value excludes the pixel from the statistic.
type CostFunc func(modelGrid, data, mask, errs *model.Grid) float64

// Chi2Cost computes the summed chi-square: ((model-data)/sigma)^2 over
// unmasked pixels, with sigma taken from the error grid (default 1).
func Chi2Cost(modelGrid, data, mask, errs *model.Grid) float64 {
	if !modelGrid.SameShape(data) {
		panic("fit: model and data dimensions must match")
	}

	var sum float64
	for i, m := range modelGrid.Pix {
		if mask != nil && mask.Pix[i] != 0 {
			continue
		}
		sigma := 1.0
		if errs != nil && errs.Pix[i] != 0 {
			sigma = errs.Pix[i]
		}
		d := (m - data.Pix[i]) / sigma
		sum += d * d
	}
	return sum
}

// MSECost computes the mean squared error over unmasked pixels, ignoring the
// error grid.
func MSECost(modelGrid, data, mask, errs *model.Grid) float64 {
	if !modelGrid.SameShape(data) {
		panic("fit: model and data dimensions must match")
	}

	var sum float64
	n := 0
	for i, m := range modelGrid.Pix {
		if mask != nil && mask.Pix[i] != 0 {
			continue
		}
		d := m - data.Pix[i]
		sum += d * d
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
