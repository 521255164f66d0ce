package linear

import (
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/lifeexp/core/model"
	"github.com/ezoic/lifeexp/pkg/errors"
)

// Params are the parameters of the affine model y = Weight*x + Bias.
// The zero value is the untrained model. Params is a value type: training
// produces new values and never mutates one that has been shared.
type Params struct {
	Weight float64
	Bias   float64
}

// Predict returns Weight*x + Bias.
func (p Params) Predict(x float64) float64 {
	return p.Weight*x + p.Bias
}

// PredictVec applies Predict to every element of x.
func (p Params) PredictVec(x mat.Vector) *mat.VecDense {
	n := x.Len()
	out := make([]float64, n)
	for i := range out {
		out[i] = p.Predict(x.AtVec(i))
	}
	return mat.NewVecDense(n, out)
}

// Save writes p to path. Paths ending in ".json" use the scikit-learn JSON
// model format; anything else uses the checksummed binary model format.
// Both round-trip every float64 exactly.
func (p Params) Save(path string) error {
	if isJSON(path) {
		return model.WriteFileAtomic(path, p.exportSKLearn)
	}
	return model.SaveModel(&p, path)
}

// LoadParams reads parameters written by Params.Save.
func LoadParams(path string) (Params, error) {
	if isJSON(path) {
		skModel, err := model.LoadSKLearnModelFromFile(path)
		if err != nil {
			return Params{}, err
		}
		return paramsFromSKLearn(skModel)
	}

	var p Params
	if err := model.LoadModel(&p, path); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) exportSKLearn(w io.Writer) error {
	return model.ExportSKLearnModel("LinearRegression", model.SKLearnLinearRegressionParams{
		Coefficients: []float64{p.Weight},
		Intercept:    p.Bias,
		NFeatures:    1,
	}, w)
}

func paramsFromSKLearn(m *model.SKLearnModel) (Params, error) {
	sk, err := model.LoadLinearRegressionParams(m)
	if err != nil {
		return Params{}, err
	}
	if sk.NFeatures != 1 {
		return Params{}, errors.NewDimensionError("LoadParams", 1, sk.NFeatures, 1)
	}
	return Params{Weight: sk.Coefficients[0], Bias: sk.Intercept}, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
