package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/lifeexp/dataset"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sample() *dataset.Dataset {
	return &dataset.Dataset{
		Features: []float64{20.6, 26.4, 27.2, 22.0},
		Labels:   []float64{52.8, 76.8, 75.5, 60.1},
	}
}

func TestPlotFit(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "fit.png")
	require.NoError(t, PlotFit(png, sample(), linear.Params{Weight: 2.5, Bias: 5}))
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	svg := filepath.Join(dir, "fit.svg")
	require.NoError(t, PlotFit(svg, sample(), linear.Params{}))
	data, err = os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestPlotFitErrors(t *testing.T) {
	dir := t.TempDir()

	err := PlotFit(filepath.Join(dir, "empty.png"), &dataset.Dataset{}, linear.Params{})
	assert.ErrorIs(t, err, errors.ErrEmptyData)

	err = PlotFit(filepath.Join(dir, "fit.unknown"), sample(), linear.Params{})
	assert.Error(t, err)

	err = PlotFit(filepath.Join(dir, "nan.png"), sample(), linear.Params{Weight: math.NaN()})
	assert.Error(t, err)
}

func TestPlotLoss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.png")
	require.NoError(t, PlotLoss(path, []float64{4250, 3000, 2100, 1500}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	assert.ErrorIs(t, PlotLoss(path, nil), errors.ErrInvalidInput)
}
