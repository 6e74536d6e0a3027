// Package forecast implements streaming forecasters (smoothers, a rolling linear
// regression, moving average, AR(p) and GARCH(1,1)) plus batch volatility estimators.
package forecast

import (
	"math"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Forecaster is a streaming model that can project h steps ahead.
type Forecaster interface {
	Update(value float64) error
	Forecast(horizon int) (float64, error)
	Ready() bool
	Reset()
}

func validateValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Newf(errors.ErrCodeInvalidInput, "non-finite value %v", value)
	}

	return nil
}

func validateHorizon(horizon int) error {
	if horizon < 0 {
		return errors.Newf(errors.ErrCodeInvalidInput, "forecast horizon must not be negative, got %d", horizon)
	}

	return nil
}

func validateSmoothing(name string, value float64) error {
	if !(value > 0 && value < 1) {
		return errors.Newf(errors.ErrCodeInvalidSmoothing, "%s must be in (0, 1), got %v", name, value)
	}

	return nil
}
