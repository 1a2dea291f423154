package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/cobra"

	"github.com/cwbudde/skyfit/internal/fit"
	"github.com/cwbudde/skyfit/internal/model"
	"github.com/cwbudde/skyfit/internal/opt"
	"github.com/cwbudde/skyfit/internal/store"
)

var (
	fitModelPath string
	fitDataPath  string
	fitOutPath   string
	fitCost      string
	fitPSFSigma  float64
	fitSpan      float64
	fitIters     int
	fitPopSize   int
	fitSeed      int64
	fitPatience  int
	fitMinImprov float64
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a model's parameters against an image",
	Long: `Loads a model definition and a data image, then searches the model's
parameter space with mayfly optimization to minimize the selected cost.
The best-fit parameters are written as a JSON result file.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitModelPath, "model", "", "Model definition JSON (required)")
	fitCmd.Flags().StringVar(&fitDataPath, "data", "", "Data image PNG (required)")
	fitCmd.Flags().StringVar(&fitOutPath, "out", "result.json", "Output result path")
	fitCmd.Flags().StringVar(&fitCost, "cost", "chi2", "Cost function: chi2, mse")
	fitCmd.Flags().Float64Var(&fitPSFSigma, "psf-sigma", 0, "Gaussian PSF sigma in pixels (0 = no convolution)")
	fitCmd.Flags().Float64Var(&fitSpan, "span", 0.5, "Fractional search window around each initial value")
	fitCmd.Flags().IntVar(&fitIters, "iters", 100, "Max optimizer iterations")
	fitCmd.Flags().IntVar(&fitPopSize, "pop", 30, "Optimizer population size")
	fitCmd.Flags().Int64Var(&fitSeed, "seed", 42, "Random seed")
	fitCmd.Flags().IntVar(&fitPatience, "patience", 3, "Stale restart rounds before stopping (0 = single round)")
	fitCmd.Flags().Float64Var(&fitMinImprov, "min-improve", 0.001, "Relative cost improvement that counts as progress")
	fitCmd.MarkFlagRequired("model")
	fitCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	mf, err := store.LoadModel(fitModelPath)
	if err != nil {
		return err
	}
	data, err := loadPNG(fitDataPath)
	if err != nil {
		return err
	}

	inputs := model.Inputs{
		Data:       data.Pix,
		Oversample: mf.Oversample,
	}
	if fitPSFSigma > 0 {
		inputs.PSF = gaussianKernel(fitPSFSigma)
	}

	m, err := model.Setup(mf.Options, data.NCols, data.NRows, inputs)
	if err != nil {
		return err
	}

	var costFn fit.CostFunc
	switch fitCost {
	case "chi2":
		costFn = fit.Chi2Cost
	case "mse":
		costFn = fit.MSECost
	default:
		return fmt.Errorf("unknown cost function %q (chi2, mse)", fitCost)
	}

	problem, err := fit.NewProblem(m, costFn)
	if err != nil {
		return err
	}

	initial := initialParams(mf)
	lower, upper := searchBounds(initial, fitSpan)

	optimizer := opt.NewMayfly(fitIters, fitPopSize, fitSeed)
	conv := fit.ConvergenceConfig{
		Enabled:   fitPatience > 0,
		Patience:  fitPatience,
		Threshold: fitMinImprov,
	}
	result, err := fit.RunConverged(problem, optimizer, initial, lower, upper, conv)
	if err != nil {
		return err
	}

	out := &store.FitResult{
		ParamNames:  m.ParamNames(),
		BestParams:  result.BestParams,
		BestCost:    result.BestCost,
		InitialCost: result.InitialCost,
	}
	if err := store.SaveResult(fitOutPath, out); err != nil {
		return err
	}
	slog.Info("fit result saved", "out", fitOutPath, "best_cost", result.BestCost)
	return nil
}

// searchBounds spans a symmetric window around each initial value. Values
// near zero still get a unit window so the search is never pinned.
func searchBounds(initial []float64, span float64) (lower, upper []float64) {
	lower = make([]float64, len(initial))
	upper = make([]float64, len(initial))
	for i, v := range initial {
		half := span * math.Abs(v)
		if half == 0 {
			half = 1
		}
		lower[i] = v - half
		upper[i] = v + half
	}
	return lower, upper
}
