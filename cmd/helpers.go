package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/cwbudde/skyfit/internal/model"
	"github.com/cwbudde/skyfit/internal/store"
)

// initialParams flattens the per-function initial values of a model file
// into one parameter vector, in declaration order.
func initialParams(mf *store.ModelFile) []float64 {
	var params []float64
	for _, fn := range mf.Options.Functions {
		params = append(params, fn.Params...)
	}
	return params
}

// gaussianKernel builds a normalized circular Gaussian PSF kernel truncated
// at 4 sigma.
func gaussianKernel(sigma float64) *model.Grid {
	half := int(math.Ceil(4 * sigma))
	n := 2*half + 1
	k := model.NewGrid(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx := float64(x - half)
			dy := float64(y - half)
			k.Set(x, y, math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma)))
		}
	}
	return k
}

// savePNG writes a grid as an 8-bit grayscale PNG, min-max stretched. Row 0
// of the grid is the bottom of the image.
func savePNG(path string, grid *model.Grid) error {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range grid.Pix {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	img := image.NewGray(image.Rect(0, 0, grid.NCols, grid.NRows))
	for y := 0; y < grid.NRows; y++ {
		for x := 0; x < grid.NCols; x++ {
			v := (grid.At(x, y) - lo) / span
			img.SetGray(x, grid.NRows-1-y, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

// loadPNG reads a PNG as a luminance grid in [0,255], flipping rows so the
// grid origin is at the lower left.
func loadPNG(path string) (*model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	grid := model.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			grid.Set(x, h-1-y, float64(c.Y))
		}
	}
	return grid, nil
}
