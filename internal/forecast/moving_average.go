package forecast

import (
	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// MovingAverage forecasts every horizon as the mean of the last period values.
type MovingAverage struct {
	window *window.RollingWindow
}

// NewMovingAverage creates a moving average forecaster over period values.
func NewMovingAverage(period int) (*MovingAverage, error) {
	w, err := window.New(period)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidPeriod, err, "invalid moving average period %d", period)
	}

	return &MovingAverage{window: w}, nil
}

// Update appends the next observation.
func (m *MovingAverage) Update(value float64) error {
	if err := validateValue(value); err != nil {
		return err
	}

	m.window.Push(value)

	return nil
}

// Forecast returns the mean of the window for every horizon.
func (m *MovingAverage) Forecast(horizon int) (float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return 0, err
	}

	return m.window.Mean()
}

func (m *MovingAverage) Ready() bool { return m.window.Full() }

func (m *MovingAverage) Reset() { m.window.Reset() }
