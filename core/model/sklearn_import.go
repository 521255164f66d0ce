package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ezoic/lifeexp/pkg/errors"
)

// SKLearnFormatVersion is the only supported JSON model format version.
const SKLearnFormatVersion = "1.0"

// SKLearnModelSpec is the metadata block of a scikit-learn JSON model.
type SKLearnModelSpec struct {
	Name           string `json:"name"`
	FormatVersion  string `json:"format_version"`
	SKLearnVersion string `json:"sklearn_version,omitempty"`
}

// SKLearnLinearRegressionParams are the parameters of a LinearRegression.
type SKLearnLinearRegressionParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	NFeatures    int       `json:"n_features"`
}

// SKLearnModel is a model in the scikit-learn JSON exchange format:
//
//	{
//	  "model_spec": {"name": "LinearRegression", "format_version": "1.0"},
//	  "params": {"coefficients": [0.56], "intercept": 49.3, "n_features": 1}
//	}
type SKLearnModel struct {
	ModelSpec SKLearnModelSpec `json:"model_spec"`
	Params    json.RawMessage  `json:"params"`
}

// LoadSKLearnModelFromFile reads a JSON model from filename.
func LoadSKLearnModelFromFile(filename string) (*SKLearnModel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer func() { _ = file.Close() }()

	return LoadSKLearnModelFromReader(file)
}

// LoadSKLearnModelFromReader reads a JSON model from r and validates its spec.
func LoadSKLearnModelFromReader(r io.Reader) (*SKLearnModel, error) {
	var m SKLearnModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decode JSON model")
	}

	switch {
	case m.ModelSpec.FormatVersion == "":
		return nil, errors.NewValueError("LoadSKLearnModel", "format_version is required")
	case m.ModelSpec.FormatVersion != SKLearnFormatVersion:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat,
			"LoadSKLearnModel: format version %s", m.ModelSpec.FormatVersion)
	case m.ModelSpec.Name == "":
		return nil, errors.NewValueError("LoadSKLearnModel", "model name is required")
	}

	return &m, nil
}

// LoadLinearRegressionParams decodes and validates LinearRegression params.
func LoadLinearRegressionParams(m *SKLearnModel) (*SKLearnLinearRegressionParams, error) {
	if m.ModelSpec.Name != "LinearRegression" {
		return nil, errors.NewValueError("LoadLinearRegressionParams",
			fmt.Sprintf("expected LinearRegression, got %s", m.ModelSpec.Name))
	}

	var params SKLearnLinearRegressionParams
	if err := json.Unmarshal(m.Params, &params); err != nil {
		return nil, errors.Wrap(err, "unmarshal params")
	}

	if len(params.Coefficients) == 0 {
		return nil, errors.NewValueError("LoadLinearRegressionParams", "coefficients cannot be empty")
	}
	if params.NFeatures != len(params.Coefficients) {
		return nil, errors.NewValueError("LoadLinearRegressionParams",
			fmt.Sprintf("n_features (%d) does not match coefficients length (%d)",
				params.NFeatures, len(params.Coefficients)))
	}

	return &params, nil
}

// ExportSKLearnModel writes params as a JSON model named modelName to w.
func ExportSKLearnModel(modelName string, params interface{}, w io.Writer) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "marshal params")
	}

	m := SKLearnModel{
		ModelSpec: SKLearnModelSpec{
			Name:          modelName,
			FormatVersion: SKLearnFormatVersion,
		},
		Params: paramsJSON,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&m); err != nil {
		return errors.Wrap(err, "encode JSON model")
	}
	return nil
}
