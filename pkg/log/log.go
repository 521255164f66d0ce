// Package log provides structured logging for lifeexp.
//
// Components log through the small Logger interface with alternating
// key/value fields, so model code does not depend on a concrete logging
// library:
//
//	logger := log.GetLoggerWithName("linear").With(log.ModelNameKey, "GDRegressor")
//	logger.Info("Training started", log.SamplesKey, n, log.EpochsKey, epochs)
//
// The implementation is backed by zerolog. Code that wants the zerolog
// event API directly can use GetLogger:
//
//	log.GetLogger().Error().Err(err).Str("path", path).Msg("load failed")
package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Standard field keys.
const (
	ModelNameKey    = "model_name"
	ComponentKey    = "component"
	OperationKey    = "operation"
	PhaseKey        = "phase"
	SamplesKey      = "samples"
	FeaturesKey     = "features"
	PredsKey        = "predictions"
	DurationMsKey   = "duration_ms"
	EpochKey        = "epoch"
	EpochsKey       = "epochs"
	LossKey         = "loss"
	WeightKey       = "weight"
	BiasKey         = "bias"
	LearningRateKey = "learning_rate"
	PathKey         = "path"
	MethodKey       = "method"
	RouteKey        = "route"
	StatusKey       = "status"
	ClientIPKey     = "client_ip"
	RunIDKey        = "run_id"
)

// Standard field values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationLoad    = "load"
	OperationSave    = "save"
	OperationReload  = "reload"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
)

// Logger is the logging interface used by lifeexp components.
// Fields are alternating key/value pairs. If the first field of Error is an
// error value it is attached as the event's error.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider creates named loggers.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level zerolog.Level)
}

var (
	mu       sync.RWMutex
	provider LoggerProvider = NewZerologProvider(zerolog.InfoLevel)
)

// SetProvider replaces the global provider.
func SetProvider(p LoggerProvider) {
	mu.Lock()
	defer mu.Unlock()
	provider = p
}

// SetupLogger configures the global console logger at the named level.
func SetupLogger(level string) {
	// Console output to stderr cannot fail to open.
	_ = Configure(Options{Level: level})
}

// GetLogger returns the global zerolog logger.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if zp, ok := provider.(*ZerologProvider); ok {
		return &zp.base
	}
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return &l
}

// GetLoggerWithName returns a logger tagged with component name.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// LogError logs err at error level with msg and optional fields.
func LogError(err error, msg string, fields ...interface{}) {
	mu.RLock()
	p := provider
	mu.RUnlock()
	p.GetLogger().Error(msg, append([]interface{}{err}, fields...)...)
}

// ToLogLevel parses a level name, defaulting to info.
func ToLogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
