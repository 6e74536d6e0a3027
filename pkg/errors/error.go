// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, insufficient data, bad configuration
//   - Data/Resource errors (200-299): Malformed series, missing data, query failures
//   - Indicator errors (300-399): Registry lookups and numerical failures
//   - Strategy errors (400-499): Rule loading and version checks
//   - Backtest errors (600-699): Simulator configuration and run errors
//   - Output errors (700-799): Report and ledger writing
//   - Callback errors (800-899): Callback execution failures
//
// The indicator and simulator packages only ever surface four kinds of
// failure. Use IsInsufficientData, IsInvalidInput, IsCalculationError and
// IsInvalidData to classify them.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidPeriod, "period must be positive")
//	err := errors.Newf(errors.ErrCodeInvalidData, "expected %d signals, got %d", n, m)
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", originalErr)
//
//	if errors.IsInsufficientData(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from the outermost coded error in the chain.
// An InsufficientDataError reports ErrCodeInsufficientData.
// Returns ErrCodeUnknown if no coded error is found.
func GetCode(err error) ErrorCode {
	for err != nil {
		switch e := err.(type) { //nolint:errorlint // walking the chain manually
		case *Error:
			return e.Code
		case *InsufficientDataError:
			return ErrCodeInsufficientData
		}

		err = errors.Unwrap(err)
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError represents an error when there is not enough data
// for a calculation (e.g., an indicator still inside its warm-up period).
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// IsInsufficientData reports whether err means "not enough data yet",
// either as an InsufficientDataError or an *Error carrying ErrCodeInsufficientData.
func IsInsufficientData(err error) bool {
	if IsInsufficientDataError(err) {
		return true
	}

	return hasCodeInChain(err, ErrCodeInsufficientData)
}

// IsInvalidInput reports whether err was caused by a rejected parameter or sample.
func IsInvalidInput(err error) bool {
	return hasCodeInChain(err,
		ErrCodeInvalidInput,
		ErrCodeInvalidPeriod,
		ErrCodeInvalidMultiplier,
		ErrCodeInvalidSmoothing,
	)
}

// IsCalculationError reports whether err is a numerically undefined result.
func IsCalculationError(err error) bool {
	return hasCodeInChain(err, ErrCodeCalculation)
}

// IsInvalidData reports whether err was caused by a malformed input series.
func IsInvalidData(err error) bool {
	return hasCodeInChain(err, ErrCodeInvalidData)
}

func hasCodeInChain(err error, codes ...ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		for _, code := range codes {
			if e.Code == code {
				return true
			}
		}

		err = e.Cause
	}

	return false
}
