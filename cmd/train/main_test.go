package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/history"
	"github.com/ezoic/lifeexp/internal/cli"
	"github.com/ezoic/lifeexp/linear"
)

type fixture struct {
	dir, config, weights, db string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv(config.EnvFile, "")

	dir := t.TempDir()
	f := fixture{
		dir:     dir,
		config:  filepath.Join(dir, "lifeexp.yaml"),
		weights: filepath.Join(dir, "weights.gob"),
		db:      filepath.Join(dir, "runs.db"),
	}
	data := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(data, []byte("Country,BMI,Life Expectancy\nA,20,70\nB,30,60\n"), 0o644))

	cfg := fmt.Sprintf("data:\n  path: %s\ntrain:\n  weights_path: %s\nhistory:\n  path: %s\nlog:\n  level: warn\n",
		data, f.weights, f.db)
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

func TestTrainFromZero(t *testing.T) {
	f := newFixture(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", f.config, "1"}, &stdout, &stderr)
	require.Equal(t, cli.ExitOK, code, stderr.String())

	p, err := linear.LoadParams(f.weights)
	require.NoError(t, err)
	assert.InDelta(t, 0.0032, p.Weight, 1e-15)
	assert.InDelta(t, 0.00013, p.Bias, 1e-15)
	assert.Contains(t, stdout.String(), "epochs: 1\n")

	store, err := history.Open(context.Background(), f.db)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Epochs)
	assert.Equal(t, 2, runs[0].Samples)
	assert.Equal(t, 1e-6, runs[0].LearningRate)
	assert.Equal(t, f.weights, runs[0].WeightsPath)
}

func TestTrainResumesAndSavesBack(t *testing.T) {
	f := newFixture(t)
	resume := filepath.Join(f.dir, "resume.json")
	start := linear.Params{Weight: 1, Bias: 2}
	require.NoError(t, start.Save(resume))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", f.config, "-lr", "1e-4", "5", resume}, &stdout, &stderr)
	require.Equal(t, cli.ExitOK, code, stderr.String())

	got, err := linear.LoadParams(resume)
	require.NoError(t, err)
	want := linear.NewGDRegressor(linear.WithEpochs(5), linear.WithLearningRate(1e-4), linear.WithInitialParams(start))
	require.NoError(t, want.Fit(
		mat.NewDense(2, 1, []float64{20, 30}),
		mat.NewDense(2, 1, []float64{70, 60}),
	))
	assert.Equal(t, want.Params(), got)

	_, err = os.Stat(f.weights)
	assert.True(t, os.IsNotExist(err), "default weights path must not be written")
}

func TestTrainZeroEpochsKeepsWeights(t *testing.T) {
	f := newFixture(t)
	start := linear.Params{Weight: 0.25, Bias: 60}
	require.NoError(t, start.Save(f.weights))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", f.config, "0", f.weights}, &stdout, &stderr)
	require.Equal(t, cli.ExitOK, code, stderr.String())

	got, err := linear.LoadParams(f.weights)
	require.NoError(t, err)
	assert.Equal(t, start, got)
}

func TestTrainWritesPlots(t *testing.T) {
	f := newFixture(t)
	plots := filepath.Join(f.dir, "plots")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", f.config, "-plot", plots, "3"}, &stdout, &stderr)
	require.Equal(t, cli.ExitOK, code, stderr.String())

	assert.FileExists(t, filepath.Join(plots, "fit.png"))
	assert.FileExists(t, filepath.Join(plots, "loss.png"))
}

func TestTrainUsage(t *testing.T) {
	f := newFixture(t)
	for _, args := range [][]string{
		{},
		{"-config", f.config},
		{"-config", f.config, "-1"},
		{"-config", f.config, "ten"},
		{"-config", f.config, "1", "a", "b"},
		{"-bogus", "1"},
	} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, cli.ExitUsage, run(context.Background(), args, &stdout, &stderr), "%v", args)
	}
}

func TestTrainFailures(t *testing.T) {
	f := newFixture(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", f.config, "1", filepath.Join(f.dir, "missing.gob")}, &stdout, &stderr)
	assert.Equal(t, cli.ExitFailure, code)

	code = run(context.Background(), []string{"-config", f.config, "-data", filepath.Join(f.dir, "missing.csv"), "1"}, &stdout, &stderr)
	assert.Equal(t, cli.ExitFailure, code)

	code = run(context.Background(), []string{"-config", filepath.Join(f.dir, "missing.yaml"), "1"}, &stdout, &stderr)
	assert.Equal(t, cli.ExitFailure, code)
}

func TestTrainValidatesFlagOverrides(t *testing.T) {
	f := newFixture(t)
	var stdout, stderr bytes.Buffer

	for _, args := range [][]string{
		{"-config", f.config, "-lr", "-1", "1"},
		{"-config", f.config, "-lr", "0", "1"},
		{"-config", f.config, "-data", "", "1"},
	} {
		assert.Equal(t, cli.ExitFailure, run(context.Background(), args, &stdout, &stderr), "%v", args)
	}
	_, err := os.Stat(f.weights)
	assert.True(t, os.IsNotExist(err))
}

func TestTrainLogLevelFlagOverridesConfig(t *testing.T) {
	f := newFixture(t)
	body, err := os.ReadFile(f.config)
	require.NoError(t, err)
	bad := bytes.Replace(body, []byte("level: warn"), []byte("level: loud"), 1)
	require.NoError(t, os.WriteFile(f.config, bad, 0o644))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, cli.ExitFailure, run(context.Background(), []string{"-config", f.config, "1"}, &stdout, &stderr))
	code := run(context.Background(), []string{"-config", f.config, "-log-level", "warn", "1"}, &stdout, &stderr)
	assert.Equal(t, cli.ExitOK, code, stderr.String())
}
