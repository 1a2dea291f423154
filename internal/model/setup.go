package model

import (
	"errors"
	"fmt"

	"github.com/cwbudde/skyfit/internal/funcs"
	"github.com/cwbudde/skyfit/internal/quadrature"
)

// ErrConfig tags every model-construction failure; callers branch with
// errors.Is.
var ErrConfig = errors.New("model: invalid configuration")

// Inputs carries the optional pixel buffers a model is wired to. Data, Mask
// and Errors are raw row-major buffers shaped like the model grid; the PSF
// kernels carry their own (typically smaller) dimensions. The caller owns
// every buffer and must keep them alive for the model's lifetime; the model
// stores non-owning references only.
type Inputs struct {
	Data   []float64
	Mask   []float64
	Errors []float64

	PSF            *Grid
	PSFOversampled *Grid
	Oversample     *OversampleRegion
}

// Setup builds a ready-to-evaluate ModelImage from a flat options structure,
// the grid geometry, and the caller's pixel buffers. It allocates contiguous
// parameter offset windows in declaration order, validates that all grid
// shapes are mutually consistent, and injects the engine constants into the
// function objects. It performs no pixel evaluation.
func Setup(opts Options, nCols, nRows int, in Inputs) (*ModelImage, error) {
	opts = normalizeOptions(opts)
	if nCols < 1 || nRows < 1 {
		return nil, fmt.Errorf("%w: grid dimensions %dx%d", ErrConfig, nCols, nRows)
	}
	if len(opts.Functions) == 0 {
		return nil, fmt.Errorf("%w: no function objects configured", ErrConfig)
	}

	m := &ModelImage{
		nCols: nCols,
		nRows: nRows,
	}

	offset := 0
	for i, cfg := range opts.Functions {
		fn, err := funcs.New(cfg.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: function %d: %v", ErrConfig, i, err)
		}
		if len(cfg.Params) != fn.NParams() {
			return nil, fmt.Errorf("%w: function %d (%s): %d initial values for %d parameters",
				ErrConfig, i, cfg.Type, len(cfg.Params), fn.NParams())
		}
		if zp, ok := fn.(funcs.ZeroPointUser); ok {
			zp.SetZeroPoint(opts.ZeroPoint)
		}
		if disk, ok := fn.(*funcs.ExponentialDisk3D); ok {
			disk.SetTolerances(opts.Tolerances)
			disk.SetAcceptance(opts.Acceptance)
		}
		m.functions = append(m.functions, fn)
		m.offsets = append(m.offsets, offset)
		m.centers = append(m.centers, [2]float64{cfg.X0, cfg.Y0})
		offset += fn.NParams()
	}
	m.nParams = offset

	size := nCols * nRows
	var err error
	if in.Data != nil {
		if m.data, err = GridFrom(nCols, nRows, in.Data); err != nil {
			return nil, fmt.Errorf("%w: data grid: %v", ErrConfig, err)
		}
	}
	if in.Mask != nil {
		if len(in.Mask) != size {
			return nil, fmt.Errorf("%w: mask length %d does not match %dx%d data grid",
				ErrConfig, len(in.Mask), nCols, nRows)
		}
		m.mask, _ = GridFrom(nCols, nRows, in.Mask)
	}
	if in.Errors != nil {
		if len(in.Errors) != size {
			return nil, fmt.Errorf("%w: error grid length %d does not match %dx%d data grid",
				ErrConfig, len(in.Errors), nCols, nRows)
		}
		m.errors, _ = GridFrom(nCols, nRows, in.Errors)
	}

	if in.PSF != nil {
		if len(in.PSF.Pix) != in.PSF.NCols*in.PSF.NRows || in.PSF.NCols < 1 || in.PSF.NRows < 1 {
			return nil, fmt.Errorf("%w: malformed PSF grid (%dx%d, %d pixels)",
				ErrConfig, in.PSF.NCols, in.PSF.NRows, len(in.PSF.Pix))
		}
		m.psf = in.PSF
	}

	if in.Oversample != nil {
		if in.Oversample.Factor < 1 {
			return nil, fmt.Errorf("%w: oversampling factor %d", ErrConfig, in.Oversample.Factor)
		}
		if !in.Oversample.Rect.valid(nCols, nRows) {
			return nil, fmt.Errorf("%w: oversample rectangle [%d:%d, %d:%d] outside %dx%d grid",
				ErrConfig, in.Oversample.Rect.X0, in.Oversample.Rect.X1,
				in.Oversample.Rect.Y0, in.Oversample.Rect.Y1, nCols, nRows)
		}
		m.oversample = in.Oversample
	}
	if in.PSFOversampled != nil {
		if in.Oversample == nil {
			return nil, fmt.Errorf("%w: oversampled PSF supplied without an oversample region", ErrConfig)
		}
		if len(in.PSFOversampled.Pix) != in.PSFOversampled.NCols*in.PSFOversampled.NRows {
			return nil, fmt.Errorf("%w: malformed oversampled PSF grid", ErrConfig)
		}
		m.psfOversampled = in.PSFOversampled
	}

	return m, nil
}

// normalizeOptions fills in the engine defaults for constants left
// zero-valued, typically by a model file that omits them. Without this a
// zero subdivision budget would starve every line-of-sight integral.
func normalizeOptions(opts Options) Options {
	def := DefaultOptions()
	if opts.Tolerances == (quadrature.Tolerances{}) {
		opts.Tolerances = def.Tolerances
	}
	if opts.Acceptance == 0 {
		opts.Acceptance = def.Acceptance
	}
	return opts
}
