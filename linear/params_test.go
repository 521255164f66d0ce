package linear_test

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/lifeexp/core/model"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/errors"
)

func TestParams_SaveLoad(t *testing.T) {
	values := []linear.Params{
		{},
		{Weight: 0.0032, Bias: 0.00013},
		{Weight: 0.1 + 0.2, Bias: -1.0 / 3},
		{Weight: math.MaxFloat64, Bias: math.SmallestNonzeroFloat64},
	}

	for _, name := range []string{"weights.gob", "weights.json"} {
		for _, want := range values {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, want.Save(path))

			got, err := linear.LoadParams(path)
			require.NoError(t, err)
			assert.Equal(t, math.Float64bits(want.Weight), math.Float64bits(got.Weight), name)
			assert.Equal(t, math.Float64bits(want.Bias), math.Float64bits(got.Bias), name)
		}
	}
}

func TestParams_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.gob")
	require.NoError(t, linear.Params{Weight: 1}.Save(path))
	require.NoError(t, linear.Params{Weight: 2, Bias: 3}.Save(path))

	got, err := linear.LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, linear.Params{Weight: 2, Bias: 3}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}

func TestParams_SaveToMissingDirectory(t *testing.T) {
	err := linear.Params{}.Save(filepath.Join(t.TempDir(), "missing", "weights.gob"))
	assert.Error(t, err)
}

func TestLoadParams_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := linear.LoadParams(filepath.Join(dir, "missing.gob"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.gob")
	require.NoError(t, os.WriteFile(garbage, []byte("not a model"), 0o644))
	_, err = linear.LoadParams(garbage)
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestLoadParams_SKLearnJSON(t *testing.T) {
	params, err := json.Marshal(model.SKLearnLinearRegressionParams{
		Coefficients: []float64{0.25},
		Intercept:    60,
		NFeatures:    1,
	})
	require.NoError(t, err)

	doc, err := json.Marshal(model.SKLearnModel{
		ModelSpec: model.SKLearnModelSpec{
			Name:           "LinearRegression",
			FormatVersion:  model.SKLearnFormatVersion,
			SKLearnVersion: "1.3.0",
		},
		Params: params,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "exported.json")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	got, err := linear.LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, linear.Params{Weight: 0.25, Bias: 60}, got)
}

func TestLoadParams_SKLearnWrongFeatureCount(t *testing.T) {
	params, err := json.Marshal(model.SKLearnLinearRegressionParams{
		Coefficients: []float64{1, 2},
		Intercept:    0,
		NFeatures:    2,
	})
	require.NoError(t, err)
	doc, err := json.Marshal(model.SKLearnModel{
		ModelSpec: model.SKLearnModelSpec{Name: "LinearRegression", FormatVersion: model.SKLearnFormatVersion},
		Params:    params,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "two.json")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	_, err = linear.LoadParams(path)
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}
