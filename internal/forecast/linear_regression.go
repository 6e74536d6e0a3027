package forecast

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const degenerateEpsilon = 1e-10

// LinearRegression fits an ordinary least squares line over the last period
// values against their index 0..n-1 in the window.
type LinearRegression struct {
	period int
	window *window.RollingWindow
}

// Fit is one least squares solution.
type Fit struct {
	Slope     float64
	Intercept float64
	// Points is the number of values the fit used.
	Points int
}

// NewLinearRegression creates a rolling regression over period points. period must be at least 2.
func NewLinearRegression(period int) (*LinearRegression, error) {
	if period < 2 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "linear regression period must be at least 2, got %d", period)
	}

	w, err := window.New(period)
	if err != nil {
		return nil, err
	}

	return &LinearRegression{period: period, window: w}, nil
}

// Update appends the next observation.
func (lr *LinearRegression) Update(value float64) error {
	if err := validateValue(value); err != nil {
		return err
	}

	lr.window.Push(value)

	return nil
}

// Fit solves for slope and intercept over the points held so far.
func (lr *LinearRegression) Fit() (Fit, error) {
	ys := lr.window.Values()
	n := len(ys)

	if n < 2 {
		return Fit{}, errors.NewInsufficientDataErrorf(2, n, "", "linear regression needs 2 points, has %d", n)
	}

	var sumX, sumY, sumXY, sumXX float64

	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)

	denominator := fn*sumXX - sumX*sumX
	if math.Abs(denominator) < degenerateEpsilon {
		return Fit{}, errors.New(errors.ErrCodeCalculation, "linear regression is undefined for zero index variance")
	}

	slope := (fn*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / fn

	return Fit{Slope: slope, Intercept: intercept, Points: n}, nil
}

// Slope returns the fitted slope per step.
func (lr *LinearRegression) Slope() (float64, error) {
	fit, err := lr.Fit()
	if err != nil {
		return 0, err
	}

	return fit.Slope, nil
}

// Intercept returns the fitted value at the oldest point of the window.
func (lr *LinearRegression) Intercept() (float64, error) {
	fit, err := lr.Fit()
	if err != nil {
		return 0, err
	}

	return fit.Intercept, nil
}

// RSquared returns the coefficient of determination.
// A window with no variance in the values is a calculation error.
func (lr *LinearRegression) RSquared() (float64, error) {
	fit, err := lr.Fit()
	if err != nil {
		return 0, err
	}

	ys := lr.window.Values()

	mean := 0.0
	for _, y := range ys {
		mean += y
	}

	mean /= float64(len(ys))

	var ssTotal, ssResidual float64

	for i, y := range ys {
		predicted := fit.Slope*float64(i) + fit.Intercept
		ssTotal += (y - mean) * (y - mean)
		ssResidual += (y - predicted) * (y - predicted)
	}

	if ssTotal < degenerateEpsilon {
		return 0, errors.New(errors.ErrCodeCalculation, "r squared is undefined when all values are equal")
	}

	return 1 - ssResidual/ssTotal, nil
}

// Forecast projects the line horizon steps past the newest point.
func (lr *LinearRegression) Forecast(horizon int) (float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return 0, err
	}

	fit, err := lr.Fit()
	if err != nil {
		return 0, err
	}

	x := float64(fit.Points - 1 + horizon)

	return fit.Slope*x + fit.Intercept, nil
}

func (lr *LinearRegression) Ready() bool { return lr.window.Len() >= 2 }
func (lr *LinearRegression) Reset()      { lr.window.Reset() }
