package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
)

// Stochastic is the stochastic oscillator. %K places the close within the
// high-low range of the last k bars; %D is the SMA of %K over d values.
// A flat range reads 50.
type Stochastic struct {
	kPeriod int
	dPeriod int
	highs   *window.RollingWindow
	lows    *window.RollingWindow
	d       *SMA
	k       float64
}

// NewStochastic creates a stochastic oscillator.
func NewStochastic(kPeriod, dPeriod int) (*Stochastic, error) {
	if err := validatePeriod(types.IndicatorTypeStochastic, kPeriod); err != nil {
		return nil, err
	}

	if err := validatePeriod(types.IndicatorTypeStochastic, dPeriod); err != nil {
		return nil, err
	}

	highs, _ := window.New(kPeriod)
	lows, _ := window.New(kPeriod)
	d, _ := NewSMA(dPeriod)

	return &Stochastic{kPeriod: kPeriod, dPeriod: dPeriod, highs: highs, lows: lows, d: d}, nil
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Update feeds the high, low and close of the sample.
func (s *Stochastic) Update(sample types.Sample) error {
	if err := validateSample(s.Name(), sample); err != nil {
		return err
	}

	s.highs.Push(sample.High)
	s.lows.Push(sample.Low)

	if !s.highs.Full() {
		return nil
	}

	highest, _ := s.highs.Max()
	lowest, _ := s.lows.Min()

	s.k = 50
	if highest != lowest {
		s.k = (sample.Close - lowest) / (highest - lowest) * 100
	}

	s.d.window.Push(s.k)

	return nil
}

// Value returns %K.
func (s *Stochastic) Value() (float64, error) {
	return s.K()
}

// K returns %K.
func (s *Stochastic) K() (float64, error) {
	if !s.Ready() {
		return 0, notReady(s.Name(), s.kPeriod, s.highs.Len())
	}

	return s.k, nil
}

// D returns %D.
func (s *Stochastic) D() (float64, error) {
	if !s.d.Ready() {
		actual := s.highs.Len()
		if s.Ready() {
			actual = s.kPeriod + s.d.window.Len() - 1
		}

		return 0, notReady(s.Name(), s.kPeriod+s.dPeriod-1, actual)
	}

	return s.d.Value()
}

func (s *Stochastic) Ready() bool { return s.highs.Full() }
func (s *Stochastic) Warmup() int { return s.kPeriod }

func (s *Stochastic) Reset() {
	s.highs.Reset()
	s.lows.Reset()
	s.d.Reset()
	s.k = 0
}
