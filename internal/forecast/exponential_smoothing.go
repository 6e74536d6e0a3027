package forecast

import (
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// ExponentialSmoothing is single exponential smoothing. The first value seeds the level.
type ExponentialSmoothing struct {
	alpha  float64
	level  float64
	seeded bool
}

// NewExponentialSmoothing creates a smoother with alpha in (0, 1).
func NewExponentialSmoothing(alpha float64) (*ExponentialSmoothing, error) {
	if err := validateSmoothing("alpha", alpha); err != nil {
		return nil, err
	}

	return &ExponentialSmoothing{alpha: alpha}, nil
}

// Update folds the next observation into the level.
func (s *ExponentialSmoothing) Update(value float64) error {
	if err := validateValue(value); err != nil {
		return err
	}

	if !s.seeded {
		s.level = value
		s.seeded = true

		return nil
	}

	s.level = s.alpha*value + (1-s.alpha)*s.level

	return nil
}

// Level returns the smoothed level.
func (s *ExponentialSmoothing) Level() (float64, error) {
	if !s.seeded {
		return 0, errors.NewInsufficientDataError(1, 0, "", "exponential smoothing has no observations")
	}

	return s.level, nil
}

// Forecast returns the level for every horizon.
func (s *ExponentialSmoothing) Forecast(horizon int) (float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return 0, err
	}

	return s.Level()
}

func (s *ExponentialSmoothing) Ready() bool { return s.seeded }

func (s *ExponentialSmoothing) Reset() {
	s.level = 0
	s.seeded = false
}

// DoubleExponentialSmoothing is Holt's linear trend method.
// The first value seeds the level with a zero trend.
type DoubleExponentialSmoothing struct {
	alpha  float64
	beta   float64
	level  float64
	trend  float64
	seeded bool
}

// NewDoubleExponentialSmoothing creates a Holt smoother with alpha and beta in (0, 1).
func NewDoubleExponentialSmoothing(alpha, beta float64) (*DoubleExponentialSmoothing, error) {
	if err := validateSmoothing("alpha", alpha); err != nil {
		return nil, err
	}

	if err := validateSmoothing("beta", beta); err != nil {
		return nil, err
	}

	return &DoubleExponentialSmoothing{alpha: alpha, beta: beta}, nil
}

// Update folds the next observation into level and trend.
func (s *DoubleExponentialSmoothing) Update(value float64) error {
	if err := validateValue(value); err != nil {
		return err
	}

	if !s.seeded {
		s.level = value
		s.trend = 0
		s.seeded = true

		return nil
	}

	prevLevel := s.level
	s.level = s.alpha*value + (1-s.alpha)*(prevLevel+s.trend)
	s.trend = s.beta*(s.level-prevLevel) + (1-s.beta)*s.trend

	return nil
}

// Level returns the smoothed level.
func (s *DoubleExponentialSmoothing) Level() (float64, error) {
	if !s.seeded {
		return 0, errors.NewInsufficientDataError(1, 0, "", "double exponential smoothing has no observations")
	}

	return s.level, nil
}

// Trend returns the smoothed trend.
func (s *DoubleExponentialSmoothing) Trend() (float64, error) {
	if !s.seeded {
		return 0, errors.NewInsufficientDataError(1, 0, "", "double exponential smoothing has no observations")
	}

	return s.trend, nil
}

// Forecast returns level + horizon * trend.
func (s *DoubleExponentialSmoothing) Forecast(horizon int) (float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return 0, err
	}

	if !s.seeded {
		return 0, errors.NewInsufficientDataError(1, 0, "", "double exponential smoothing has no observations")
	}

	return s.level + float64(horizon)*s.trend, nil
}

func (s *DoubleExponentialSmoothing) Ready() bool { return s.seeded }

func (s *DoubleExponentialSmoothing) Reset() {
	s.level = 0
	s.trend = 0
	s.seeded = false
}
