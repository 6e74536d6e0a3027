package forecast

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Returns converts prices into simple period returns. Prices must be positive.
func Returns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, errors.NewInsufficientDataErrorf(2, len(prices), "", "returns need 2 prices, have %d", len(prices))
	}

	returns := make([]float64, 0, len(prices)-1)

	for i, p := range prices {
		if err := validateValue(p); err != nil {
			return nil, err
		}

		if p <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidInput, "price %d must be positive, got %v", i, p)
		}

		if i > 0 {
			returns = append(returns, p/prices[i-1]-1)
		}
	}

	return returns, nil
}

// HistoricalVolatility is the rolling population standard deviation of returns.
// The result has one value per full window, len(returns)-period+1 in total.
func HistoricalVolatility(returns []float64, period int) ([]float64, error) {
	w, err := window.New(period)
	if err != nil {
		return nil, err
	}

	if len(returns) < period {
		return nil, errors.NewInsufficientDataErrorf(period, len(returns), "",
			"historical volatility needs %d returns, has %d", period, len(returns))
	}

	volatility := make([]float64, 0, len(returns)-period+1)

	for _, r := range returns {
		if err := validateValue(r); err != nil {
			return nil, err
		}

		w.Push(r)

		if !w.Full() {
			continue
		}

		std, err := w.StdDev()
		if err != nil {
			return nil, err
		}

		volatility = append(volatility, std)
	}

	return volatility, nil
}

// EWMAVolatility is the exponentially weighted volatility with decay lambda in (0, 1):
// sigma²(i) = lambda·sigma²(i-1) + (1-lambda)·r(i)², seeded with the first squared return.
// The result has one value per return.
func EWMAVolatility(returns []float64, lambda float64) ([]float64, error) {
	if err := validateSmoothing("lambda", lambda); err != nil {
		return nil, err
	}

	if len(returns) == 0 {
		return nil, errors.NewInsufficientDataError(1, 0, "", "ewma volatility needs at least one return")
	}

	volatility := make([]float64, len(returns))
	variance := 0.0

	for i, r := range returns {
		if err := validateValue(r); err != nil {
			return nil, err
		}

		if i == 0 {
			variance = r * r
		} else {
			variance = lambda*variance + (1-lambda)*r*r
		}

		volatility[i] = math.Sqrt(variance)
	}

	return volatility, nil
}

// ParkinsonVolatility estimates the volatility of each bar from its range:
// |ln(high/low)| / (2·sqrt(ln 2)). High and low must be positive.
func ParkinsonVolatility(samples []types.Sample) ([]float64, error) {
	if len(samples) == 0 {
		return nil, errors.NewInsufficientDataError(1, 0, "", "parkinson volatility needs at least one sample")
	}

	scale := 2 * math.Sqrt(math.Ln2)
	volatility := make([]float64, len(samples))

	for i, s := range samples {
		if s.Low <= 0 || s.High < s.Low {
			return nil, errors.Newf(errors.ErrCodeInvalidInput,
				"sample %d needs 0 < low <= high, got low %v high %v", i, s.Low, s.High)
		}

		volatility[i] = math.Abs(math.Log(s.High/s.Low)) / scale
	}

	return volatility, nil
}

// ForecastVolatility fits a variance targeted GARCH(1,1) to prices and returns
// the volatility forecast for each of the next horizon periods.
func ForecastVolatility(prices []float64, horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "volatility forecast horizon must be at least 1, got %d", horizon)
	}

	returns, err := Returns(prices)
	if err != nil {
		return nil, err
	}

	params, err := VarianceTargetedParams(returns)
	if err != nil {
		return nil, err
	}

	model, err := NewGARCH(params)
	if err != nil {
		return nil, err
	}

	for _, p := range prices {
		if err := model.Update(p); err != nil {
			return nil, err
		}
	}

	forecasts := make([]float64, horizon)
	for h := range forecasts {
		if forecasts[h], err = model.Forecast(h + 1); err != nil {
			return nil, err
		}
	}

	return forecasts, nil
}

// AnnualizeVolatility scales a per period volatility to a yearly one,
// e.g. periodsPerYear 252 for daily returns.
func AnnualizeVolatility(volatility float64, periodsPerYear float64) (float64, error) {
	if periodsPerYear <= 0 || math.IsNaN(periodsPerYear) || math.IsInf(periodsPerYear, 0) {
		return 0, errors.Newf(errors.ErrCodeInvalidInput, "periods per year must be positive, got %v", periodsPerYear)
	}

	return volatility * math.Sqrt(periodsPerYear), nil
}
