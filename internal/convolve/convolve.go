// Package convolve applies a point-spread-function kernel to a model image
// via FFT. Convolution is a downstream step of the evaluation engine: the
// engine always exposes the pre-convolution array, and callers that fit
// PSF-blurred data run the result through a Convolver.
package convolve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/skyfit/internal/model"
)

// ErrBadKernel is returned for an empty kernel or one with zero total flux.
var ErrBadKernel = errors.New("convolve: kernel is empty or sums to zero")

// Convolver convolves grids with a fixed, flux-normalized PSF kernel. The
// kernel's center pixel is at (NCols/2, NRows/2), and output grids keep the
// input shape ("same" convolution with zero padding).
type Convolver struct {
	kernel *model.Grid
}

// New copies and normalizes the kernel to unit sum.
func New(psf *model.Grid) (*Convolver, error) {
	if psf == nil || len(psf.Pix) == 0 {
		return nil, ErrBadKernel
	}
	if len(psf.Pix) != psf.NCols*psf.NRows {
		return nil, fmt.Errorf("convolve: kernel buffer length %d does not match %dx%d",
			len(psf.Pix), psf.NCols, psf.NRows)
	}
	total := floats.Sum(psf.Pix)
	if total == 0 {
		return nil, ErrBadKernel
	}
	kernel := psf.Clone()
	floats.Scale(1/total, kernel.Pix)
	return &Convolver{kernel: kernel}, nil
}

// Kernel returns the normalized kernel.
func (c *Convolver) Kernel() *model.Grid { return c.kernel }

// Convolve returns the PSF-blurred image, same shape as the input.
func (c *Convolver) Convolve(img *model.Grid) *model.Grid {
	h, w := img.NRows, img.NCols
	kh, kw := c.kernel.NRows, c.kernel.NCols

	// FFT grid large enough for linear convolution; even sizes keep the
	// CmplxFFT plans happy.
	fh := nextEven(h + kh - 1)
	fw := nextEven(w + kw - 1)

	a := make([]complex128, fh*fw)
	b := make([]complex128, fh*fw)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a[y*fw+x] = complex(img.At(x, y), 0)
		}
	}
	for y := 0; y < kh; y++ {
		for x := 0; x < kw; x++ {
			b[y*fw+x] = complex(c.kernel.At(x, y), 0)
		}
	}

	fft2(a, fh, fw, true)
	fft2(b, fh, fw, true)
	for i := range a {
		a[i] *= b[i]
	}
	fft2(a, fh, fw, false)

	// Forward-then-inverse leaves a factor fh*fw; crop the centered "same"
	// window of the full result.
	scale := 1 / float64(fh*fw)
	offY, offX := kh/2, kw/2
	out := model.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, real(a[(y+offY)*fw+(x+offX)])*scale)
		}
	}
	return out
}

// fft2 transforms a flat row-major fh x fw complex grid in place, rows then
// columns.
func fft2(a []complex128, fh, fw int, forward bool) {
	rowFFT := fourier.NewCmplxFFT(fw)
	colFFT := fourier.NewCmplxFFT(fh)

	for y := 0; y < fh; y++ {
		row := a[y*fw : (y+1)*fw]
		if forward {
			rowFFT.Coefficients(row, row)
		} else {
			rowFFT.Sequence(row, row)
		}
	}

	col := make([]complex128, fh)
	for x := 0; x < fw; x++ {
		for y := 0; y < fh; y++ {
			col[y] = a[y*fw+x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < fh; y++ {
			a[y*fw+x] = col[y]
		}
	}
}

func nextEven(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}
