package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
)

// SMA is the arithmetic mean of the last period closes.
type SMA struct {
	period int
	window *window.RollingWindow
}

// NewSMA creates a simple moving average over period values.
func NewSMA(period int) (*SMA, error) {
	if err := validatePeriod(types.IndicatorTypeSMA, period); err != nil {
		return nil, err
	}

	w, err := window.New(period)
	if err != nil {
		return nil, err
	}

	return &SMA{period: period, window: w}, nil
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Update feeds the close of the sample.
func (s *SMA) Update(sample types.Sample) error {
	if err := validateSample(s.Name(), sample); err != nil {
		return err
	}

	s.window.Push(sample.Close)

	return nil
}

// Push feeds a raw value.
func (s *SMA) Push(value float64) error {
	if err := validateValue(s.Name(), value); err != nil {
		return err
	}

	s.window.Push(value)

	return nil
}

// Value returns the mean of the window.
func (s *SMA) Value() (float64, error) {
	if !s.Ready() {
		return 0, notReady(s.Name(), s.period, s.window.Len())
	}

	return s.window.Mean()
}

func (s *SMA) Ready() bool { return s.window.Full() }
func (s *SMA) Warmup() int { return s.period }
func (s *SMA) Reset()      { s.window.Reset() }
func (s *SMA) Period() int { return s.period }
