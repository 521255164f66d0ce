// Package metrics provides evaluation metrics for the regression model.
//
//   - MSE: Mean Squared Error, the training objective
//   - RMSE: Root Mean Squared Error, in the units of the target
//   - MAE: Mean Absolute Error
//   - R2Score: coefficient of determination
//
// Example usage:
//
//	mse, err := metrics.MSE(yTrue, yPred)
//	r2, err := metrics.R2Score(yTrue, yPred)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/lifeexp/pkg/errors"
)

// MSE calculates the Mean Squared Error between true and predicted values.
//
// MSE measures the average squared differences between predictions and actual
// values. It is the loss minimised by gradient descent training, so the value
// reported here matches the training loss for the same parameters.
//
// Parameters:
//   - yTrue: True target values as a vector
//   - yPred: Predicted values as a vector
//
// Returns:
//   - float64: MSE value (non-negative)
//   - error: nil if successful, otherwise an error describing the failure
//
// Errors:
//   - ValueError: if input vectors are empty
//   - DimensionError: if yTrue and yPred have different lengths
//
// Example:
//
//	mse, err := metrics.MSE(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("MSE: %.4f\n", mse)
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validate("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE calculates the Root Mean Squared Error.
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error.
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validate("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination, 1 - RSS/TSS.
// It fails when yTrue has no variance.
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validate("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := make([]float64, n)
	for i := range truth {
		truth[i] = yTrue.AtVec(i)
	}
	mean := stat.Mean(truth, nil)

	var tss, rss float64
	for i, y := range truth {
		tss += (y - mean) * (y - mean)
		d := y - yPred.AtVec(i)
		rss += d * d
	}

	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

func validate(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}
