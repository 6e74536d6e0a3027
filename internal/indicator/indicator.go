// Package indicator implements streaming technical indicators.
//
// Every indicator owns its state and is fed one sample at a time through
// Update. Value fails with an InsufficientDataError until the indicator
// has seen Warmup() samples. An invalid sample is rejected with an
// InvalidInput error and leaves the indicator untouched.
package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Indicator interface defines methods that any streaming indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Update feeds the next sample
	Update(sample types.Sample) error
	// Value returns the current primary output
	Value() (float64, error)
	// Ready reports whether Value is available
	Ready() bool
	// Warmup returns the number of samples needed before Value is available
	Warmup() int
	// Reset returns the indicator to its freshly constructed state
	Reset()
}

// PriceIndicator is an indicator that can also be driven by a bare price series.
type PriceIndicator interface {
	Indicator
	// Push feeds the next value as if it were a close price
	Push(value float64) error
}

func validatePeriod(name types.IndicatorType, period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be a positive integer, got %d", name, period)
	}

	return nil
}

func validateValue(name types.IndicatorType, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Newf(errors.ErrCodeInvalidInput, "%s received a non-finite value %v", name, value)
	}

	return nil
}

func validateSample(name types.IndicatorType, sample types.Sample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	for _, v := range []float64{sample.Open, sample.High, sample.Low, sample.Close, sample.Volume} {
		if err := validateValue(name, v); err != nil {
			return err
		}
	}

	return nil
}

func notReady(name types.IndicatorType, required, actual int) error {
	return errors.NewInsufficientDataErrorf(required, actual, "",
		"insufficient data for %s: required %d, got %d", name, required, actual)
}
