package forecast

import (
	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Autoregressive is an AR(p) model refitted over the last period values.
//
// The coefficients solve the Yule-Walker equations of the demeaned window
// with the Levinson-Durbin recursion. Forecasts iterate the fitted recursion
// forward and add the window mean back.
type Autoregressive struct {
	order  int
	window *window.RollingWindow
}

// ARFit is one Yule-Walker solution.
type ARFit struct {
	// Coefficients[i] weighs the value i+1 steps back.
	Coefficients []float64
	Mean         float64
	// NoiseVariance is the one-step prediction error variance left by the fit.
	NoiseVariance float64
}

// NewAutoregressive creates an AR(order) model fitted over period values.
// order must be at least 1 and period at least order+2.
func NewAutoregressive(order, period int) (*Autoregressive, error) {
	if order < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "autoregressive order must be at least 1, got %d", order)
	}

	if period < order+2 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"autoregressive period must be at least order+2 (%d), got %d", order+2, period)
	}

	w, err := window.New(period)
	if err != nil {
		return nil, err
	}

	return &Autoregressive{order: order, window: w}, nil
}

// Order returns p.
func (a *Autoregressive) Order() int { return a.order }

// Update appends the next observation.
func (a *Autoregressive) Update(value float64) error {
	if err := validateValue(value); err != nil {
		return err
	}

	a.window.Push(value)

	return nil
}

// Fit solves for the coefficients over a full window.
// A flat window fits all-zero coefficients, so it forecasts its own level.
func (a *Autoregressive) Fit() (ARFit, error) {
	mean, err := a.window.Mean()
	if err != nil {
		return ARFit{}, err
	}

	xs := a.window.Values()
	n := float64(len(xs))

	autocov := make([]float64, a.order+1)
	for lag := range autocov {
		for t := lag; t < len(xs); t++ {
			autocov[lag] += (xs[t] - mean) * (xs[t-lag] - mean)
		}

		autocov[lag] /= n
	}

	coefficients := make([]float64, a.order)

	if autocov[0] <= degenerateEpsilon*mean*mean {
		return ARFit{Coefficients: coefficients, Mean: mean}, nil
	}

	noise := autocov[0]
	previous := make([]float64, a.order)

	for k := 1; k <= a.order; k++ {
		acc := autocov[k]
		for j := 1; j < k; j++ {
			acc -= previous[j-1] * autocov[k-j]
		}

		reflection := acc / noise

		coefficients[k-1] = reflection
		for j := 1; j < k; j++ {
			coefficients[j-1] = previous[j-1] - reflection*previous[k-j-1]
		}

		noise *= 1 - reflection*reflection
		copy(previous, coefficients)

		// the window is predicted exactly, higher lags add nothing
		if noise <= 0 {
			noise = 0

			break
		}
	}

	return ARFit{Coefficients: coefficients, Mean: mean, NoiseVariance: noise}, nil
}

// Forecast iterates the fitted recursion horizon steps past the newest value.
// Horizon 0 returns the newest value.
func (a *Autoregressive) Forecast(horizon int) (float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return 0, err
	}

	fit, err := a.Fit()
	if err != nil {
		return 0, err
	}

	xs := a.window.Values()
	if horizon == 0 {
		return xs[len(xs)-1], nil
	}

	history := make([]float64, 0, a.order+horizon)
	for _, x := range xs[len(xs)-a.order:] {
		history = append(history, x-fit.Mean)
	}

	var next float64

	for step := 0; step < horizon; step++ {
		next = 0
		for i, c := range fit.Coefficients {
			next += c * history[len(history)-1-i]
		}

		history = append(history, next)
	}

	return next + fit.Mean, nil
}

func (a *Autoregressive) Ready() bool { return a.window.Full() }

func (a *Autoregressive) Reset() { a.window.Reset() }
