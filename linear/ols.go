package linear

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/lifeexp/pkg/errors"
)

// LeastSquares returns the parameters minimising the mean squared error on
// (x, y) in closed form. It needs at least two samples and x must not be
// constant.
func LeastSquares(x, y []float64) (Params, error) {
	if len(x) != len(y) {
		return Params{}, errors.NewDimensionError("LeastSquares", len(x), len(y), 0)
	}
	if len(x) < 2 {
		return Params{}, errors.NewValueError("LeastSquares", "need at least two samples")
	}
	if stat.Variance(x, nil) == 0 {
		return Params{}, errors.NewValueError("LeastSquares", "feature has zero variance")
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Params{Weight: beta, Bias: alpha}, nil
}
