package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// ATR is the Average True Range with Wilder smoothing.
// The first bar has no previous close, so its true range is high - low.
type ATR struct {
	period    int
	count     int
	prevClose float64
	trSum     float64
	current   float64
}

// NewATR creates a new ATR indicator.
func NewATR(period int) (*ATR, error) {
	if err := validatePeriod(types.IndicatorTypeATR, period); err != nil {
		return nil, err
	}

	return &ATR{period: period}, nil
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Update feeds the high, low and close of the sample.
func (a *ATR) Update(sample types.Sample) error {
	if err := validateSample(a.Name(), sample); err != nil {
		return err
	}

	tr := sample.High - sample.Low
	if a.count > 0 {
		tr = math.Max(tr, math.Max(math.Abs(sample.High-a.prevClose), math.Abs(sample.Low-a.prevClose)))
	}

	a.prevClose = sample.Close
	a.count++

	if a.count <= a.period {
		a.trSum += tr
		if a.count == a.period {
			a.current = a.trSum / float64(a.period)
		}

		return nil
	}

	p := float64(a.period)
	a.current = (a.current*(p-1) + tr) / p

	return nil
}

// Value returns the current average true range.
func (a *ATR) Value() (float64, error) {
	if !a.Ready() {
		return 0, notReady(a.Name(), a.period, a.count)
	}

	return a.current, nil
}

func (a *ATR) Ready() bool { return a.count >= a.period }
func (a *ATR) Warmup() int { return a.period }

func (a *ATR) Reset() {
	a.count = 0
	a.prevClose = 0
	a.trSum = 0
	a.current = 0
}
