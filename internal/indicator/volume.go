package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// VWMA is the volume-weighted moving average of the close over period bars.
type VWMA struct {
	period int
	pv     *window.RollingWindow
	volume *window.RollingWindow
}

// NewVWMA creates a volume-weighted moving average.
func NewVWMA(period int) (*VWMA, error) {
	if err := validatePeriod(types.IndicatorTypeVWMA, period); err != nil {
		return nil, err
	}

	pv, _ := window.New(period)
	volume, _ := window.New(period)

	return &VWMA{period: period, pv: pv, volume: volume}, nil
}

// Name returns the name of the indicator.
func (v *VWMA) Name() types.IndicatorType {
	return types.IndicatorTypeVWMA
}

// Update feeds the close and volume of the sample.
func (v *VWMA) Update(sample types.Sample) error {
	if err := validateSample(v.Name(), sample); err != nil {
		return err
	}

	v.pv.Push(sample.Close * sample.Volume)
	v.volume.Push(sample.Volume)

	return nil
}

// Value returns the VWMA. A window without volume is a calculation error.
func (v *VWMA) Value() (float64, error) {
	if !v.Ready() {
		return 0, notReady(v.Name(), v.period, v.volume.Len())
	}

	if v.volume.NonZero() == 0 {
		return 0, errors.New(errors.ErrCodeCalculation, "vwma is undefined with zero volume")
	}

	return v.pv.Sum() / v.volume.Sum(), nil
}

func (v *VWMA) Ready() bool { return v.volume.Full() }
func (v *VWMA) Warmup() int { return v.period }

func (v *VWMA) Reset() {
	v.pv.Reset()
	v.volume.Reset()
}

// VolumeMA is the simple moving average of volume.
type VolumeMA struct {
	sma *SMA
}

// NewVolumeMA creates a moving average of volume.
func NewVolumeMA(period int) (*VolumeMA, error) {
	if err := validatePeriod(types.IndicatorTypeVolumeMA, period); err != nil {
		return nil, err
	}

	sma, err := NewSMA(period)
	if err != nil {
		return nil, err
	}

	return &VolumeMA{sma: sma}, nil
}

// Name returns the name of the indicator.
func (v *VolumeMA) Name() types.IndicatorType {
	return types.IndicatorTypeVolumeMA
}

// Update feeds the volume of the sample.
func (v *VolumeMA) Update(sample types.Sample) error {
	if err := validateSample(v.Name(), sample); err != nil {
		return err
	}

	v.sma.window.Push(sample.Volume)

	return nil
}

// Value returns the average volume.
func (v *VolumeMA) Value() (float64, error) {
	if !v.Ready() {
		return 0, notReady(v.Name(), v.sma.period, v.sma.window.Len())
	}

	return v.sma.Value()
}

func (v *VolumeMA) Ready() bool { return v.sma.Ready() }
func (v *VolumeMA) Warmup() int { return v.sma.period }
func (v *VolumeMA) Reset()      { v.sma.Reset() }

// VROC is the volume rate of change in percent against the volume period bars ago.
type VROC struct {
	period int
	volume *window.RollingWindow
}

// NewVROC creates a volume rate of change indicator.
func NewVROC(period int) (*VROC, error) {
	if err := validatePeriod(types.IndicatorTypeVROC, period); err != nil {
		return nil, err
	}

	volume, _ := window.New(period + 1)

	return &VROC{period: period, volume: volume}, nil
}

// Name returns the name of the indicator.
func (v *VROC) Name() types.IndicatorType {
	return types.IndicatorTypeVROC
}

// Update feeds the volume of the sample.
func (v *VROC) Update(sample types.Sample) error {
	if err := validateSample(v.Name(), sample); err != nil {
		return err
	}

	v.volume.Push(sample.Volume)

	return nil
}

// Value returns the percentage change. A zero reference volume is a calculation error.
func (v *VROC) Value() (float64, error) {
	if !v.Ready() {
		return 0, notReady(v.Name(), v.period+1, v.volume.Len())
	}

	past, _ := v.volume.Oldest()
	current, _ := v.volume.Newest()

	if past == 0 {
		return 0, errors.New(errors.ErrCodeCalculation, "vroc is undefined when the reference volume is zero")
	}

	return (current - past) / past * 100, nil
}

func (v *VROC) Ready() bool { return v.volume.Full() }
func (v *VROC) Warmup() int { return v.period + 1 }
func (v *VROC) Reset()      { v.volume.Reset() }
