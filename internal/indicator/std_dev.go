package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
)

// StdDev is the population standard deviation of the last period closes.
type StdDev struct {
	period int
	window *window.RollingWindow
}

// NewStdDev creates a rolling standard deviation.
func NewStdDev(period int) (*StdDev, error) {
	if err := validatePeriod(types.IndicatorTypeStdDev, period); err != nil {
		return nil, err
	}

	w, _ := window.New(period)

	return &StdDev{period: period, window: w}, nil
}

// Name returns the name of the indicator.
func (s *StdDev) Name() types.IndicatorType {
	return types.IndicatorTypeStdDev
}

// Update feeds the close of the sample.
func (s *StdDev) Update(sample types.Sample) error {
	if err := validateSample(s.Name(), sample); err != nil {
		return err
	}

	s.window.Push(sample.Close)

	return nil
}

// Push feeds a raw value.
func (s *StdDev) Push(value float64) error {
	if err := validateValue(s.Name(), value); err != nil {
		return err
	}

	s.window.Push(value)

	return nil
}

// Value returns the standard deviation.
func (s *StdDev) Value() (float64, error) {
	if !s.Ready() {
		return 0, notReady(s.Name(), s.period, s.window.Len())
	}

	return s.window.StdDev()
}

func (s *StdDev) Ready() bool { return s.window.Full() }
func (s *StdDev) Warmup() int { return s.period }
func (s *StdDev) Reset()      { s.window.Reset() }
