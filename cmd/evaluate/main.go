// Command evaluate reports how well saved weights fit the dataset, next to
// the closed-form least squares optimum.
//
//	evaluate [flags] <weights_path>
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/dataset"
	"github.com/ezoic/lifeexp/internal/cli"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/metrics"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// scores holds the metrics of one parameter set.
type scores struct {
	mse, rmse, mae, r2 float64
}

func evaluate(p linear.Params, ds *dataset.Dataset) (scores, error) {
	yTrue := ds.Y()
	yPred := p.PredictVec(mat.NewVecDense(ds.Len(), ds.Features))

	var s scores
	var err error
	if s.mse, err = metrics.MSE(yTrue, yPred); err != nil {
		return s, err
	}
	if s.rmse, err = metrics.RMSE(yTrue, yPred); err != nil {
		return s, err
	}
	if s.mae, err = metrics.MAE(yTrue, yPred); err != nil {
		return s, err
	}
	if s.r2, err = metrics.R2Score(yTrue, yPred); err != nil {
		return s, err
	}
	return s, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("evaluate", "evaluate [flags] <weights_path>", stderr)
	var common cli.CommonFlags
	common.Register(fs)
	dataPath := fs.String("data", "", "evaluation CSV (overrides data.path)")
	if err := fs.Parse(args); err != nil {
		return cli.ParseFailed(err)
	}
	if fs.NArg() != 1 {
		return cli.UsageError(fs, "expected exactly one argument: <weights_path>")
	}

	set := cli.Visited(fs)
	cfg, err := common.Setup(func(cfg *config.Config) {
		if set["data"] {
			cfg.Data.Path = *dataPath
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "evaluate: %v\n", err)
		return cli.ExitFailure
	}

	p, err := linear.LoadParams(fs.Arg(0))
	if err != nil {
		return cli.Fail(err, "Failed to load weights")
	}
	ds, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return cli.Fail(err, "Failed to load dataset")
	}

	got, err := evaluate(p, ds)
	if err != nil {
		return cli.Fail(err, "Failed to score weights")
	}
	best, err := linear.LeastSquares(ds.Features, ds.Labels)
	if err != nil {
		return cli.Fail(err, "Failed to compute least squares fit")
	}
	opt, err := evaluate(best, ds)
	if err != nil {
		return cli.Fail(err, "Failed to score least squares fit")
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\tweights\tleast squares\n")
	fmt.Fprintf(tw, "weight\t%.6g\t%.6g\n", p.Weight, best.Weight)
	fmt.Fprintf(tw, "bias\t%.6g\t%.6g\n", p.Bias, best.Bias)
	fmt.Fprintf(tw, "MSE\t%.6g\t%.6g\n", got.mse, opt.mse)
	fmt.Fprintf(tw, "RMSE\t%.6g\t%.6g\n", got.rmse, opt.rmse)
	fmt.Fprintf(tw, "MAE\t%.6g\t%.6g\n", got.mae, opt.mae)
	fmt.Fprintf(tw, "R²\t%.6g\t%.6g\n", got.r2, opt.r2)
	if err := tw.Flush(); err != nil {
		return cli.Fail(err, "Failed to write report")
	}
	return cli.ExitOK
}
