// Command train fits the BMI to life expectancy model by gradient descent
// and saves the weights.
//
//	train [flags] <epochs> [weights_path]
//
// With weights_path the model is loaded from that file before training and
// saved back to it. Otherwise training starts from zero and the result is
// saved to train.weights_path from the config.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/dataset"
	"github.com/ezoic/lifeexp/history"
	"github.com/ezoic/lifeexp/internal/cli"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/errors"
	"github.com/ezoic/lifeexp/pkg/log"
	"github.com/ezoic/lifeexp/report"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("train", "train [flags] <epochs> [weights_path]", stderr)
	var common cli.CommonFlags
	common.Register(fs)
	dataPath := fs.String("data", "", "training CSV (overrides data.path)")
	lr := fs.Float64("lr", 0, "learning rate (overrides train.learning_rate)")
	plotDir := fs.String("plot", "", "directory to write fit.png and loss.png into")
	if err := fs.Parse(args); err != nil {
		return cli.ParseFailed(err)
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return cli.UsageError(fs, "expected <epochs> [weights_path]")
	}
	epochs, err := strconv.Atoi(fs.Arg(0))
	if err != nil || epochs < 0 {
		return cli.UsageError(fs, "epochs must be a non-negative integer, got %q", fs.Arg(0))
	}

	set := cli.Visited(fs)
	cfg, err := common.Setup(func(cfg *config.Config) {
		if set["data"] {
			cfg.Data.Path = *dataPath
		}
		if set["lr"] {
			cfg.Train.LearningRate = *lr
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "train: %v\n", err)
		return cli.ExitFailure
	}
	logger := log.GetLoggerWithName("train")

	ds, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return cli.Fail(err, "Failed to load dataset")
	}
	logger.Info("Dataset loaded", log.PathKey, cfg.Data.Path, log.SamplesKey, ds.Len())

	var initial linear.Params
	weightsPath := cfg.Train.WeightsPath
	if fs.NArg() == 2 {
		weightsPath = fs.Arg(1)
		initial, err = linear.LoadParams(weightsPath)
		if err != nil {
			return cli.Fail(err, "Failed to load weights")
		}
		logger.Info("Resuming from weights", log.PathKey, weightsPath,
			log.WeightKey, initial.Weight, log.BiasKey, initial.Bias)
	}

	started := time.Now()
	reg := linear.NewGDRegressor(
		linear.WithEpochs(epochs),
		linear.WithLearningRate(cfg.Train.LearningRate),
		linear.WithInitialParams(initial),
	)
	if err := reg.Fit(ds.X(), ds.Y()); err != nil {
		return cli.Fail(err, "Training failed")
	}
	elapsed := time.Since(started)
	p := reg.Params()

	if err := p.Save(weightsPath); err != nil {
		return cli.Fail(err, "Failed to save weights")
	}
	logger.Info("Weights saved", log.OperationKey, log.OperationSave, log.PathKey, weightsPath)

	fmt.Fprintf(stdout, "epochs: %d\nloss: %g\nweight: %g\nbias: %g\nweights: %s\n",
		epochs, reg.FinalLoss(), p.Weight, p.Bias, weightsPath)

	if cfg.History.Path != "" {
		if err := record(ctx, cfg.History.Path, history.Run{
			StartedAt:     started,
			Duration:      elapsed,
			Epochs:        epochs,
			LearningRate:  cfg.Train.LearningRate,
			Samples:       ds.Len(),
			InitialWeight: initial.Weight,
			InitialBias:   initial.Bias,
			FinalWeight:   p.Weight,
			FinalBias:     p.Bias,
			FinalLoss:     reg.FinalLoss(),
			WeightsPath:   weightsPath,
		}); err != nil {
			return cli.Fail(err, "Failed to record training run")
		}
	}

	if *plotDir != "" {
		if err := plots(*plotDir, ds, p, reg.LossHistory()); err != nil {
			return cli.Fail(err, "Failed to write plots")
		}
		logger.Info("Plots written", log.PathKey, *plotDir)
	}
	return cli.ExitOK
}

func record(ctx context.Context, path string, run history.Run) error {
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.Record(ctx, run)
	if err != nil {
		return err
	}
	log.GetLoggerWithName("train").Info("Training run recorded", log.RunIDKey, id, log.PathKey, path)
	return nil
}

func plots(dir string, ds *dataset.Dataset, p linear.Params, losses []float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	if err := report.PlotFit(filepath.Join(dir, "fit.png"), ds, p); err != nil {
		return err
	}
	if len(losses) == 0 {
		return nil
	}
	return report.PlotLoss(filepath.Join(dir, "loss.png"), losses)
}
