package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// RSI calculates the Relative Strength Index using Wilder's smoothing method.
// The first average gain and loss are the plain means of the first period
// deltas, so the first value is available after period+1 closes.
type RSI struct {
	period    int
	count     int
	prevClose float64
	avgGain   float64
	avgLoss   float64
}

// NewRSI creates a new RSI indicator with the given period (typically 14).
func NewRSI(period int) (*RSI, error) {
	if err := validatePeriod(types.IndicatorTypeRSI, period); err != nil {
		return nil, err
	}

	return &RSI{period: period}, nil
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Update feeds the close of the sample.
func (r *RSI) Update(sample types.Sample) error {
	if err := validateSample(r.Name(), sample); err != nil {
		return err
	}

	r.push(sample.Close)

	return nil
}

// Push feeds a raw value.
func (r *RSI) Push(value float64) error {
	if err := validateValue(r.Name(), value); err != nil {
		return err
	}

	r.push(value)

	return nil
}

func (r *RSI) push(price float64) {
	r.count++

	if r.count == 1 {
		r.prevClose = price

		return
	}

	delta := price - r.prevClose
	r.prevClose = price

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if r.count <= r.period+1 {
		r.avgGain += gain
		r.avgLoss += loss

		if r.count == r.period+1 {
			r.avgGain /= float64(r.period)
			r.avgLoss /= float64(r.period)
		}

		return
	}

	p := float64(r.period)
	r.avgGain = (r.avgGain*(p-1) + gain) / p
	r.avgLoss = (r.avgLoss*(p-1) + loss) / p
}

// Value returns the RSI in [0, 100]. A window without losses reads 100.
func (r *RSI) Value() (float64, error) {
	if !r.Ready() {
		return 0, notReady(r.Name(), r.period+1, r.count)
	}

	if r.avgLoss == 0 {
		return 100, nil
	}

	rs := r.avgGain / r.avgLoss

	return 100 - 100/(1+rs), nil
}

func (r *RSI) Ready() bool { return r.count > r.period }
func (r *RSI) Warmup() int { return r.period + 1 }

func (r *RSI) Reset() {
	r.count = 0
	r.prevClose = 0
	r.avgGain = 0
	r.avgLoss = 0
}
