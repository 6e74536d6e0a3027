package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// VPT is the Volume Price Trend: a running sum of volume * (close - prevClose) / prevClose.
// The first sample sets the baseline to 0.
type VPT struct {
	count     int
	prevClose float64
	value     float64
}

// NewVPT creates a Volume Price Trend indicator.
func NewVPT() *VPT {
	return &VPT{}
}

// Name returns the name of the indicator.
func (v *VPT) Name() types.IndicatorType {
	return types.IndicatorTypeVPT
}

// Update feeds the close and volume of the sample.
// A zero previous close is a calculation error: the bar adds nothing to the
// running value but still becomes the baseline for the next one.
func (v *VPT) Update(sample types.Sample) error {
	if err := validateSample(v.Name(), sample); err != nil {
		return err
	}

	var err error

	if v.count > 0 {
		if v.prevClose == 0 {
			err = errors.New(errors.ErrCodeCalculation, "vpt is undefined when the previous close is zero")
		} else {
			v.value += sample.Volume * (sample.Close - v.prevClose) / v.prevClose
		}
	}

	v.prevClose = sample.Close
	v.count++

	return err
}

// Value returns the running VPT.
func (v *VPT) Value() (float64, error) {
	if !v.Ready() {
		return 0, notReady(v.Name(), 1, 0)
	}

	return v.value, nil
}

func (v *VPT) Ready() bool { return v.count > 0 }
func (v *VPT) Warmup() int { return 1 }

func (v *VPT) Reset() {
	v.count = 0
	v.prevClose = 0
	v.value = 0
}
