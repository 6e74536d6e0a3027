package forecast

import (
	"math"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Accuracy compares a forecast with realized values. Percentages are in percent.
type Accuracy struct {
	MAE   float64 `yaml:"mae" json:"mae"`
	MSE   float64 `yaml:"mse" json:"mse"`
	RMSE  float64 `yaml:"rmse" json:"rmse"`
	MAPE  float64 `yaml:"mape" json:"mape"`
	SMAPE float64 `yaml:"smape" json:"smape"`
	// DirectionAccuracy is the fraction of steps where the forecast called the
	// direction of the move from the previous actual value correctly.
	DirectionAccuracy float64 `yaml:"direction_accuracy" json:"direction_accuracy"`
}

// MeasureAccuracy scores forecast against actual. Both must have the same non-zero length.
// MAPE skips zero actual values but still averages over every point.
func MeasureAccuracy(forecast, actual []float64) (Accuracy, error) {
	if len(forecast) != len(actual) || len(forecast) == 0 {
		return Accuracy{}, errors.Newf(errors.ErrCodeInvalidData,
			"forecast and actual must have the same non-zero length, got %d and %d", len(forecast), len(actual))
	}

	n := float64(len(actual))

	var absSum, sqSum, apeSum, sapeSum float64

	for i := range actual {
		a, f := actual[i], forecast[i]
		e := a - f

		absSum += math.Abs(e)
		sqSum += e * e

		if a != 0 {
			apeSum += math.Abs(e) / math.Abs(a) * 100
		}

		if denom := math.Abs(a) + math.Abs(f); denom != 0 {
			sapeSum += 200 * math.Abs(e) / denom
		}
	}

	result := Accuracy{
		MAE:   absSum / n,
		MSE:   sqSum / n,
		MAPE:  apeSum / n,
		SMAPE: sapeSum / n,
	}
	result.RMSE = math.Sqrt(result.MSE)

	if len(actual) > 1 {
		hits := 0

		for i := 1; i < len(actual); i++ {
			if sign(forecast[i]-actual[i-1]) == sign(actual[i]-actual[i-1]) {
				hits++
			}
		}

		result.DirectionAccuracy = float64(hits) / float64(len(actual)-1)
	}

	return result, nil
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Backtest walks a forecaster over values. Before each value is fed, the model
// predicts the value horizon steps past the last one it has seen, and the
// predictions are scored against what actually followed.
func Backtest(model Forecaster, values []float64, horizon int) (Accuracy, error) {
	if horizon < 1 {
		return Accuracy{}, errors.Newf(errors.ErrCodeInvalidInput, "backtest horizon must be at least 1, got %d", horizon)
	}

	var predicted, realized []float64

	for i, v := range values {
		if target := i - 1 + horizon; model.Ready() && target < len(values) {
			f, err := model.Forecast(horizon)
			if err != nil {
				return Accuracy{}, err
			}

			predicted = append(predicted, f)
			realized = append(realized, values[target])
		}

		if err := model.Update(v); err != nil {
			return Accuracy{}, err
		}
	}

	if len(predicted) == 0 {
		return Accuracy{}, errors.NewInsufficientDataErrorf(horizon+1, len(values), "",
			"not enough values to score a %d-step forecast", horizon)
	}

	return MeasureAccuracy(predicted, realized)
}
