package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// EMA is an exponential moving average seeded with the SMA of its first period values.
// After the seed every value updates the average with multiplier 2/(period+1).
type EMA struct {
	period     int
	multiplier float64
	count      int
	sum        float64
	current    float64
}

// NewEMA creates an exponential moving average.
func NewEMA(period int) (*EMA, error) {
	if err := validatePeriod(types.IndicatorTypeEMA, period); err != nil {
		return nil, err
	}

	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}, nil
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Update feeds the close of the sample.
func (e *EMA) Update(sample types.Sample) error {
	if err := validateSample(e.Name(), sample); err != nil {
		return err
	}

	e.push(sample.Close)

	return nil
}

// Push feeds a raw value.
func (e *EMA) Push(value float64) error {
	if err := validateValue(e.Name(), value); err != nil {
		return err
	}

	e.push(value)

	return nil
}

func (e *EMA) push(price float64) {
	e.count++

	if e.count <= e.period {
		e.sum += price
		if e.count == e.period {
			e.current = e.sum / float64(e.period)
		}

		return
	}

	e.current = price*e.multiplier + e.current*(1-e.multiplier)
}

// Value returns the current average.
func (e *EMA) Value() (float64, error) {
	if !e.Ready() {
		return 0, notReady(e.Name(), e.period, e.count)
	}

	return e.current, nil
}

func (e *EMA) Ready() bool { return e.count >= e.period }
func (e *EMA) Warmup() int { return e.period }

func (e *EMA) Reset() {
	e.count = 0
	e.sum = 0
	e.current = 0
}
