// Package linear implements the single-feature linear regression used to
// predict life expectancy from BMI.
//
// The model is the affine map y = w*x + b (Params). GDRegressor fits it with
// a fixed number of full-batch gradient descent steps on the mean squared
// error, starting from zero or from previously saved parameters:
//
//	reg := linear.NewGDRegressor(linear.WithEpochs(1000))
//	if err := reg.Fit(ds.X(), ds.Y()); err != nil {
//		log.Fatal(err)
//	}
//	err = reg.Params().Save("weights.gob")
//
// LeastSquares gives the closed-form optimum for comparison.
package linear

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/lifeexp/core/model"
	"github.com/ezoic/lifeexp/metrics"
	"github.com/ezoic/lifeexp/pkg/errors"
	"github.com/ezoic/lifeexp/pkg/log"
)

// DefaultLearningRate is the step size used when none is configured.
const DefaultLearningRate = 1e-6

// EpochFunc is called after the loss of each epoch is computed and before
// the update is applied. p holds the parameters that produced loss.
type EpochFunc func(epoch int, loss float64, p Params)

// GDRegressor fits Params by full-batch gradient descent. It runs exactly
// the configured number of epochs: there is no convergence check, early
// stopping or gradient clipping, and non-finite values propagate.
type GDRegressor struct {
	State *model.StateManager

	learningRate float64
	epochs       int
	initial      Params
	onEpoch      EpochFunc

	params      Params
	lossHistory []float64
	finalLoss   float64

	logger log.Logger
}

// Option configures a GDRegressor.
type Option func(*GDRegressor)

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(lr float64) Option {
	return func(r *GDRegressor) {
		r.learningRate = lr
	}
}

// WithEpochs sets the number of full passes over the data.
func WithEpochs(epochs int) Option {
	return func(r *GDRegressor) {
		r.epochs = epochs
	}
}

// WithInitialParams starts training from p instead of zero.
func WithInitialParams(p Params) Option {
	return func(r *GDRegressor) {
		r.initial = p
	}
}

// WithEpochCallback registers fn to observe every epoch.
func WithEpochCallback(fn EpochFunc) Option {
	return func(r *GDRegressor) {
		r.onEpoch = fn
	}
}

// WithLogger replaces the default logger.
func WithLogger(l log.Logger) Option {
	return func(r *GDRegressor) {
		r.logger = l
	}
}

// NewGDRegressor creates an untrained regressor with learning rate
// DefaultLearningRate and zero epochs.
func NewGDRegressor(opts ...Option) *GDRegressor {
	r := &GDRegressor{
		State:        model.NewStateManager(),
		learningRate: DefaultLearningRate,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.GetLoggerWithName("linear").With(log.ModelNameKey, "GDRegressor")
	}
	r.params = r.initial
	return r
}

// Fit trains the model on X (n×1) and y (n or n×1).
//
// Errors:
//   - ErrEmptyData: if X has no rows
//   - ValueError: if X or y has more than one column
//   - DimensionError: if X and y differ in length
//   - ValidationError: if the learning rate is not positive or epochs is negative
func (r *GDRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GDRegressor.Fit")

	n, c := X.Dims()
	ny, cy := y.Dims()
	switch {
	case n == 0:
		return errors.NewModelError("GDRegressor.Fit", "no samples", errors.ErrEmptyData)
	case c != 1:
		return errors.NewValueError("GDRegressor.Fit", "X must have exactly one feature column")
	case ny != n:
		return errors.NewDimensionError("GDRegressor.Fit", n, ny, 0)
	case cy != 1:
		return errors.NewValueError("GDRegressor.Fit", "y must be a column vector")
	}
	if !(r.learningRate > 0) || math.IsInf(r.learningRate, 0) {
		return errors.NewValidationError("learning_rate", "must be a positive finite number", r.learningRate)
	}
	if r.epochs < 0 {
		return errors.NewValidationError("epochs", "must not be negative", r.epochs)
	}

	start := time.Now()
	x := mat.Col(nil, 0, X)
	yv := mat.Col(nil, 0, y)
	resid := make([]float64, n)

	r.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.EpochsKey, r.epochs,
		log.LearningRateKey, r.learningRate,
		log.WeightKey, r.initial.Weight,
		log.BiasKey, r.initial.Bias,
	)

	p := r.initial
	history := make([]float64, 0, r.epochs)
	for epoch := 1; epoch <= r.epochs; epoch++ {
		loss, dW, dB := mseGradient(p, x, yv, resid)
		history = append(history, loss)
		r.logger.Debug("Epoch", log.EpochKey, epoch, log.LossKey, loss)
		if r.onEpoch != nil {
			r.onEpoch(epoch, loss, p)
		}
		p.Weight -= r.learningRate * dW
		p.Bias -= r.learningRate * dB
	}

	finalLoss, _, _ := mseGradient(p, x, yv, resid)
	for _, v := range []struct {
		name string
		val  float64
	}{{"weight", p.Weight}, {"bias", p.Bias}, {"loss", finalLoss}} {
		errors.Warn(errors.CheckScalar(v.name, v.val, r.epochs))
	}

	r.params = p
	r.lossHistory = history
	r.finalLoss = finalLoss
	r.State.SetFitted()
	r.State.SetDimensions(1, n)

	r.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.LossKey, finalLoss,
		log.WeightKey, p.Weight,
		log.BiasKey, p.Bias,
	)
	return nil
}

// Predict returns an n×1 matrix of predictions for X (n×1).
func (r *GDRegressor) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "GDRegressor.Predict")
	if !r.State.IsFitted() {
		return nil, errors.NewNotFittedError("GDRegressor", "Predict")
	}

	n, c := X.Dims()
	if nFeatures, _ := r.State.Dimensions(); c != nFeatures {
		return nil, errors.NewDimensionError("GDRegressor.Predict", nFeatures, c, 1)
	}

	r.logger.Debug("Prediction",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, n,
	)

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, r.params.Predict(X.At(i, 0)))
	}
	return out, nil
}

// Score returns the R² of the fitted model on (X, y).
func (r *GDRegressor) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, "GDRegressor.Score")
	if !r.State.IsFitted() {
		return 0, errors.NewNotFittedError("GDRegressor", "Score")
	}

	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	n, _ := y.Dims()
	if pn, _ := pred.Dims(); pn != n {
		return 0, errors.NewDimensionError("GDRegressor.Score", pn, n, 0)
	}
	return metrics.R2Score(mat.NewVecDense(n, mat.Col(nil, 0, y)), mat.NewVecDense(n, mat.Col(nil, 0, pred)))
}

// Params returns the current parameters. Before Fit these are the initial
// parameters.
func (r *GDRegressor) Params() Params {
	return r.params
}

// LossHistory returns the training loss of every epoch, computed before
// that epoch's update.
func (r *GDRegressor) LossHistory() []float64 {
	return append([]float64(nil), r.lossHistory...)
}

// FinalLoss returns the training loss of the fitted parameters.
func (r *GDRegressor) FinalLoss() float64 {
	return r.finalLoss
}

// IsFitted reports whether Fit has completed.
func (r *GDRegressor) IsFitted() bool {
	return r.State.IsFitted()
}
