package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

var validate = validator.New()

// Sample is one OHLCV bar.
type Sample struct {
	Symbol string    `yaml:"symbol" json:"symbol"`
	Time   time.Time `yaml:"time" json:"time"`
	Open   float64   `yaml:"open" json:"open"`
	High   float64   `yaml:"high" json:"high" validate:"gtefield=Low"`
	Low    float64   `yaml:"low" json:"low"`
	Close  float64   `yaml:"close" json:"close"`
	Volume float64   `yaml:"volume" json:"volume" validate:"gte=0"`
}

// Validate rejects a negative volume or a low above the high.
func (s Sample) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidInput, err,
			"invalid sample at %s (high=%v low=%v volume=%v)", s.Time.Format(time.RFC3339), s.High, s.Low, s.Volume)
	}

	return nil
}

// TypicalPrice returns (high + low + close) / 3.
func (s Sample) TypicalPrice() float64 {
	return (s.High + s.Low + s.Close) / 3
}

// ValidateSeries checks every sample and that timestamps strictly increase.
// Any violation is reported as InvalidData.
func ValidateSeries(samples []Sample) error {
	for i, s := range samples {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidData, err, "sample %d is invalid", i)
		}

		if i > 0 && !s.Time.After(samples[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidData,
				"timestamps must strictly increase: sample %d at %s is not after %s",
				i, s.Time.Format(time.RFC3339), samples[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Closes extracts the close prices of a series.
func Closes(samples []Sample) []float64 {
	closes := make([]float64, len(samples))
	for i, s := range samples {
		closes[i] = s.Close
	}

	return closes
}
