package errors

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// NumericalInstabilityError reports a NaN or Inf produced by a computation.
type NumericalInstabilityError struct {
	Name      string
	Value     float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("lifeexp: numerical instability in %s at iteration %d: %v",
		e.Name, e.Iteration, e.Value)
}

// CheckScalar returns a NumericalInstabilityError if v is NaN or infinite.
func CheckScalar(name string, v float64, iteration int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &NumericalInstabilityError{Name: name, Value: v, Iteration: iteration}
	}
	return nil
}

var (
	warnMu      sync.RWMutex
	warnHandler = func(err error) {
		zlog.Warn().Err(err).Msg("warning")
	}
)

// Warn reports a non-fatal condition. By default it is logged through the
// global zerolog logger; SetWarningHandler replaces that.
func Warn(err error) {
	if err == nil {
		return
	}
	warnMu.RLock()
	h := warnHandler
	warnMu.RUnlock()
	h(err)
}

// SetWarningHandler installs h as the warning sink and returns the previous one.
func SetWarningHandler(h func(error)) func(error) {
	warnMu.Lock()
	defer warnMu.Unlock()
	prev := warnHandler
	warnHandler = h
	return prev
}

// WarnTo returns a handler that writes warnings to logger.
func WarnTo(logger zerolog.Logger) func(error) {
	return func(err error) {
		logger.Warn().Err(err).Msg("warning")
	}
}
