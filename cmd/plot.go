package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/skyfit/internal/model"
	"github.com/cwbudde/skyfit/internal/store"
)

var (
	plotModelPath string
	plotOutPath   string
	plotCols      int
	plotRows      int
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a model as a heatmap plot with axes",
	RunE:  runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotModelPath, "model", "", "Model definition JSON (required)")
	plotCmd.Flags().StringVar(&plotOutPath, "out", "model-heatmap.png", "Output plot path")
	plotCmd.Flags().IntVar(&plotCols, "cols", 128, "Image width in pixels")
	plotCmd.Flags().IntVar(&plotRows, "rows", 128, "Image height in pixels")
	plotCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(plotCmd)
}

// gridXYZ adapts a model grid to the plotter's heatmap data interface.
type gridXYZ struct {
	g *model.Grid
}

func (d gridXYZ) Dims() (c, r int)   { return d.g.NCols, d.g.NRows }
func (d gridXYZ) Z(c, r int) float64 { return d.g.At(c, r) }
func (d gridXYZ) X(c int) float64    { return float64(c) }
func (d gridXYZ) Y(r int) float64    { return float64(r) }

func runPlot(cmd *cobra.Command, args []string) error {
	mf, err := store.LoadModel(plotModelPath)
	if err != nil {
		return err
	}

	m, err := model.Setup(mf.Options, plotCols, plotRows, model.Inputs{
		Oversample: mf.Oversample,
	})
	if err != nil {
		return err
	}
	grid, err := m.Evaluate(initialParams(mf))
	if err != nil {
		return err
	}

	heatmap := plotter.NewHeatMap(gridXYZ{grid}, moreland.SmoothBlueRed().Palette(255))
	p := plot.New()
	p.Title.Text = "skyfit model"
	p.X.Label.Text = "x [pixel]"
	p.Y.Label.Text = "y [pixel]"
	p.Add(heatmap)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, plotOutPath); err != nil {
		return err
	}
	slog.Info("heatmap saved", "out", plotOutPath)
	return nil
}
