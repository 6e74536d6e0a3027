package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// BollingerBands places bands k population standard deviations around an SMA.
type BollingerBands struct {
	period     int
	multiplier float64
	window     *window.RollingWindow
}

// Bands is one reading of the three Bollinger lines.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// NewBollingerBands creates Bollinger Bands over period values with width multiplier k.
func NewBollingerBands(period int, k float64) (*BollingerBands, error) {
	if err := validatePeriod(types.IndicatorTypeBollingerBands, period); err != nil {
		return nil, err
	}

	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, errors.Newf(errors.ErrCodeInvalidMultiplier, "bollinger multiplier must be a positive number, got %v", k)
	}

	w, err := window.New(period)
	if err != nil {
		return nil, err
	}

	return &BollingerBands{period: period, multiplier: k, window: w}, nil
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Update feeds the close of the sample.
func (bb *BollingerBands) Update(sample types.Sample) error {
	if err := validateSample(bb.Name(), sample); err != nil {
		return err
	}

	bb.window.Push(sample.Close)

	return nil
}

// Push feeds a raw value.
func (bb *BollingerBands) Push(value float64) error {
	if err := validateValue(bb.Name(), value); err != nil {
		return err
	}

	bb.window.Push(value)

	return nil
}

// Value returns the middle band.
func (bb *BollingerBands) Value() (float64, error) {
	bands, err := bb.Bands()
	if err != nil {
		return 0, err
	}

	return bands.Middle, nil
}

// Bands returns the upper, middle and lower bands.
func (bb *BollingerBands) Bands() (Bands, error) {
	if !bb.Ready() {
		return Bands{}, notReady(bb.Name(), bb.period, bb.window.Len())
	}

	middle, err := bb.window.Mean()
	if err != nil {
		return Bands{}, err
	}

	std, err := bb.window.StdDev()
	if err != nil {
		return Bands{}, err
	}

	return Bands{
		Upper:  middle + bb.multiplier*std,
		Middle: middle,
		Lower:  middle - bb.multiplier*std,
	}, nil
}

// PercentB locates price within the bands: 0 at the lower band, 1 at the upper band.
// It fails with a calculation error when the bands have collapsed.
func (bb *BollingerBands) PercentB(price float64) (float64, error) {
	bands, err := bb.Bands()
	if err != nil {
		return 0, err
	}

	width := bands.Upper - bands.Lower
	if width == 0 {
		return 0, errors.New(errors.ErrCodeCalculation, "percent b is undefined when upper and lower bands are equal")
	}

	return (price - bands.Lower) / width, nil
}

// BandWidth returns (upper - lower) / middle as a percentage.
func (bb *BollingerBands) BandWidth() (float64, error) {
	bands, err := bb.Bands()
	if err != nil {
		return 0, err
	}

	if bands.Middle == 0 {
		return 0, errors.New(errors.ErrCodeCalculation, "band width is undefined when the middle band is zero")
	}

	return (bands.Upper - bands.Lower) / bands.Middle * 100, nil
}

func (bb *BollingerBands) Ready() bool { return bb.window.Full() }
func (bb *BollingerBands) Warmup() int { return bb.period }
func (bb *BollingerBands) Reset()      { bb.window.Reset() }
