package linear

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ezoic/lifeexp/pkg/errors"
)

// MSEGradient evaluates the mean squared error of p on (x, y) and its
// gradient with respect to Weight and Bias:
//
//	r[i]    = p.Weight*x[i] + p.Bias - y[i]
//	loss    = (1/n) Σ r[i]²
//	dWeight = (2/n) Σ r[i]*x[i]
//	dBias   = (2/n) Σ r[i]
func MSEGradient(p Params, x, y []float64) (loss, dWeight, dBias float64, err error) {
	n := len(x)
	if n == 0 {
		return 0, 0, 0, errors.NewModelError("MSEGradient", "no samples", errors.ErrEmptyData)
	}
	if len(y) != n {
		return 0, 0, 0, errors.NewDimensionError("MSEGradient", n, len(y), 0)
	}
	loss, dWeight, dBias = mseGradient(p, x, y, make([]float64, n))
	return loss, dWeight, dBias, nil
}

// mseGradient is MSEGradient without validation. resid must have len(x)
// elements and is overwritten.
func mseGradient(p Params, x, y, resid []float64) (loss, dWeight, dBias float64) {
	floats.ScaleTo(resid, p.Weight, x)
	floats.AddConst(p.Bias, resid)
	floats.Sub(resid, y)

	n := float64(len(x))
	loss = floats.Dot(resid, resid) / n
	dWeight = 2 / n * floats.Dot(resid, x)
	dBias = 2 / n * floats.Sum(resid)
	return loss, dWeight, dBias
}

// Step performs one full-batch gradient descent update and returns the
// updated parameters together with the loss of p (before the update).
func Step(p Params, x, y []float64, learningRate float64) (Params, float64, error) {
	loss, dW, dB, err := MSEGradient(p, x, y)
	if err != nil {
		return p, 0, err
	}
	return Params{
		Weight: p.Weight - learningRate*dW,
		Bias:   p.Bias - learningRate*dB,
	}, loss, nil
}
