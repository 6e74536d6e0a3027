package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// MACD is the difference of a fast and a slow EMA with an EMA signal line on top.
//
// The line is available once the slow EMA is seeded. The signal line consumes
// line values only, so it needs slow+signal-1 samples.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	fast         *EMA
	slow         *EMA
	signal       *EMA
	line         float64
}

// NewMACD creates a MACD. fast must be strictly smaller than slow.
func NewMACD(fast, slow, signal int) (*MACD, error) {
	for _, p := range []int{fast, slow, signal} {
		if err := validatePeriod(types.IndicatorTypeMACD, p); err != nil {
			return nil, err
		}
	}

	if fast >= slow {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"macd fast period (%d) must be smaller than slow period (%d)", fast, slow)
	}

	fastEMA, _ := NewEMA(fast)
	slowEMA, _ := NewEMA(slow)
	signalEMA, _ := NewEMA(signal)

	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
		fast:         fastEMA,
		slow:         slowEMA,
		signal:       signalEMA,
	}, nil
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Update feeds the close of the sample.
func (m *MACD) Update(sample types.Sample) error {
	if err := validateSample(m.Name(), sample); err != nil {
		return err
	}

	m.push(sample.Close)

	return nil
}

// Push feeds a raw value.
func (m *MACD) Push(value float64) error {
	if err := validateValue(m.Name(), value); err != nil {
		return err
	}

	m.push(value)

	return nil
}

func (m *MACD) push(price float64) {
	m.fast.push(price)
	m.slow.push(price)

	if !m.slow.Ready() {
		return
	}

	m.line = m.fast.current - m.slow.current
	m.signal.push(m.line)
}

// Value returns the MACD line.
func (m *MACD) Value() (float64, error) {
	return m.Line()
}

// Line returns fast EMA minus slow EMA.
func (m *MACD) Line() (float64, error) {
	if !m.Ready() {
		return 0, notReady(m.Name(), m.slowPeriod, m.slow.count)
	}

	return m.line, nil
}

// Signal returns the EMA of the MACD line.
func (m *MACD) Signal() (float64, error) {
	if !m.SignalReady() {
		return 0, notReady(m.Name(), m.slowPeriod+m.signalPeriod-1, m.slow.count)
	}

	return m.signal.current, nil
}

// Histogram returns the MACD line minus the signal line.
func (m *MACD) Histogram() (float64, error) {
	signal, err := m.Signal()
	if err != nil {
		return 0, err
	}

	return m.line - signal, nil
}

func (m *MACD) Ready() bool       { return m.slow.Ready() }
func (m *MACD) SignalReady() bool { return m.signal.Ready() }
func (m *MACD) Warmup() int       { return m.slowPeriod }

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.line = 0
}
