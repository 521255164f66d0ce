// Package errors provides the error types used across lifeexp.
//
// It is a thin layer over github.com/cockroachdb/errors: every constructor
// records a stack trace, and all types participate in the standard
// errors.Is / errors.As / errors.Unwrap protocol.
//
// Sentinel errors identify a class of failure:
//
//	if errors.Is(err, errors.ErrEmptyData) { ... }
//
// Typed errors carry the details of a failure:
//
//	var dimErr *errors.DimensionError
//	if errors.As(err, &dimErr) {
//		fmt.Println(dimErr.Expected, dimErr.Got)
//	}
//
// Use fmt.Sprintf("%+v", err) to print the recorded stack.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors.
var (
	// ErrEmptyData is returned when an operation receives no samples.
	ErrEmptyData = errors.New("empty data")
	// ErrDimensionMismatch is returned when two inputs disagree in shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotFitted is returned when a model is used before training.
	ErrNotFitted = errors.New("model not fitted")
	// ErrInvalidInput is returned for malformed or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrChecksumMismatch is returned when a persisted payload fails verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnsupportedFormat is returned for unknown file formats or versions.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// New creates an error with a stack trace.
func New(msg string) error { return errors.New(msg) }

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error { return errors.Newf(format, args...) }

// Wrap annotates err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Unwrap returns the next error in err's chain.
func Unwrap(err error) error { return errors.Unwrap(err) }

// DimensionError reports a shape mismatch along one axis.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError for op.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("lifeexp: %s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Axis, e.Expected, e.Got)
}

// Is makes errors.Is(err, ErrDimensionMismatch) true for any DimensionError.
func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// NotFittedError reports use of an untrained model.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("lifeexp: %s: this instance is not fitted yet; call Fit before %s",
		e.ModelName, e.Method)
}

func (e *NotFittedError) Is(target error) bool { return target == ErrNotFitted }

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("lifeexp: %s: %s", e.Op, e.Message)
}

func (e *ValueError) Is(target error) bool { return target == ErrInvalidInput }

// ModelError is a failure inside a model operation, wrapping its cause.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lifeexp: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("lifeexp: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ValidationError reports a parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lifeexp: invalid %s (%v): %s", e.ParamName, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ParseError reports input that could not be parsed, with its location.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Err    error
}

// NewParseError creates a ParseError for field at line of source.
func NewParseError(source string, line int, field string, err error) error {
	return errors.WithStack(&ParseError{Source: source, Line: line, Field: field, Err: err})
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("lifeexp: %s: %v", e.Source, e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("lifeexp: %s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("lifeexp: %s:%d: field %q: %v", e.Source, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Recover converts a panic in the calling function into an error assigned
// to *errp. It must be deferred directly:
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Model.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		var err error
		switch v := r.(type) {
		case error:
			err = errors.Wrapf(v, "%s: panic", op)
		default:
			err = errors.Newf("%s: panic: %v", op, v)
		}
		*errp = err
	}
}
