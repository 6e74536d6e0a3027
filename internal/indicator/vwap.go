package indicator

import (
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/window"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// VWAPMode selects how far back the VWAP accumulates.
type VWAPMode string

const (
	// VWAPModeRolling averages over the last N bars
	VWAPModeRolling VWAPMode = "rolling"
	// VWAPModeSession accumulates from the start of each trading session
	VWAPModeSession VWAPMode = "session"
)

// VWAP is the volume-weighted average of the typical price (high+low+close)/3.
type VWAP struct {
	mode VWAPMode

	// rolling mode
	period int
	pv     *window.RollingWindow
	volume *window.RollingWindow

	// session mode
	sessionOpen time.Duration // offset from midnight
	cumPV       float64
	cumVolume   float64
	lastTime    time.Time

	count int
}

// NewRollingVWAP creates a VWAP over the last period bars.
func NewRollingVWAP(period int) (*VWAP, error) {
	if err := validatePeriod(types.IndicatorTypeVWAP, period); err != nil {
		return nil, err
	}

	pv, err := window.New(period)
	if err != nil {
		return nil, err
	}

	volume, err := window.New(period)
	if err != nil {
		return nil, err
	}

	return &VWAP{mode: VWAPModeRolling, period: period, pv: pv, volume: volume}, nil
}

// NewSessionVWAP creates a VWAP that resets on a new calendar day and when
// the bars cross the session open (hour:minute in the samples' own location).
func NewSessionVWAP(openHour, openMinute int) (*VWAP, error) {
	if openHour < 0 || openHour > 23 || openMinute < 0 || openMinute > 59 {
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "invalid session open %02d:%02d", openHour, openMinute)
	}

	return &VWAP{
		mode:        VWAPModeSession,
		sessionOpen: time.Duration(openHour)*time.Hour + time.Duration(openMinute)*time.Minute,
	}, nil
}

// Name returns the name of the indicator.
func (v *VWAP) Name() types.IndicatorType {
	return types.IndicatorTypeVWAP
}

// Mode returns rolling or session.
func (v *VWAP) Mode() VWAPMode {
	return v.mode
}

// Update feeds the typical price and volume of the sample.
func (v *VWAP) Update(sample types.Sample) error {
	if err := validateSample(v.Name(), sample); err != nil {
		return err
	}

	tp := sample.TypicalPrice()

	if v.mode == VWAPModeRolling {
		v.pv.Push(tp * sample.Volume)
		v.volume.Push(sample.Volume)
	} else {
		if v.count > 0 && v.newSession(sample.Time) {
			v.cumPV = 0
			v.cumVolume = 0
		}

		v.cumPV += tp * sample.Volume
		v.cumVolume += sample.Volume
		v.lastTime = sample.Time
	}

	v.count++

	return nil
}

func (v *VWAP) newSession(t time.Time) bool {
	prevYear, prevMonth, prevDay := v.lastTime.Date()

	year, month, day := t.Date()
	if year != prevYear || month != prevMonth || day != prevDay {
		return true
	}

	return sinceMidnight(v.lastTime) < v.sessionOpen && sinceMidnight(t) >= v.sessionOpen
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

// Value returns the VWAP. Zero accumulated volume is a calculation error.
func (v *VWAP) Value() (float64, error) {
	if !v.Ready() {
		return 0, notReady(v.Name(), 1, 0)
	}

	pv, volume := v.cumPV, v.cumVolume
	if v.mode == VWAPModeRolling {
		if v.volume.NonZero() == 0 {
			return 0, errors.New(errors.ErrCodeCalculation, "vwap is undefined with zero volume")
		}

		pv, volume = v.pv.Sum(), v.volume.Sum()
	}

	if volume == 0 {
		return 0, errors.New(errors.ErrCodeCalculation, "vwap is undefined with zero volume")
	}

	return pv / volume, nil
}

func (v *VWAP) Ready() bool { return v.count > 0 }
func (v *VWAP) Warmup() int { return 1 }

func (v *VWAP) Reset() {
	if v.mode == VWAPModeRolling {
		v.pv.Reset()
		v.volume.Reset()
	}

	v.cumPV = 0
	v.cumVolume = 0
	v.lastTime = time.Time{}
	v.count = 0
}
