package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// OBV is On-Balance Volume. The first sample sets the baseline to 0; each
// later sample adds its volume on an up close and subtracts it on a down close.
type OBV struct {
	count     int
	prevClose float64
	value     float64
}

// NewOBV creates an On-Balance Volume indicator.
func NewOBV() *OBV {
	return &OBV{}
}

// Name returns the name of the indicator.
func (o *OBV) Name() types.IndicatorType {
	return types.IndicatorTypeOBV
}

// Update feeds the close and volume of the sample.
func (o *OBV) Update(sample types.Sample) error {
	if err := validateSample(o.Name(), sample); err != nil {
		return err
	}

	if o.count > 0 {
		switch {
		case sample.Close > o.prevClose:
			o.value += sample.Volume
		case sample.Close < o.prevClose:
			o.value -= sample.Volume
		}
	}

	o.prevClose = sample.Close
	o.count++

	return nil
}

// Value returns the running OBV.
func (o *OBV) Value() (float64, error) {
	if !o.Ready() {
		return 0, notReady(o.Name(), 1, 0)
	}

	return o.value, nil
}

func (o *OBV) Ready() bool { return o.count > 0 }
func (o *OBV) Warmup() int { return 1 }

func (o *OBV) Reset() {
	o.count = 0
	o.prevClose = 0
	o.value = 0
}
