package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Trade is one round trip. Exit fields and PnL stay empty until the position is closed.
type Trade struct {
	Direction  Direction                  `yaml:"direction" json:"direction"`
	EntryTime  time.Time                  `yaml:"entry_time" json:"entry_time"`
	EntryPrice float64                    `yaml:"entry_price" json:"entry_price"`
	Size       float64                    `yaml:"size" json:"size"`
	EntryFee   float64                    `yaml:"entry_fee" json:"entry_fee"`
	ExitTime   optional.Option[time.Time] `yaml:"exit_time" json:"exit_time"`
	ExitPrice  optional.Option[float64]   `yaml:"exit_price" json:"exit_price"`
	ExitFee    float64                    `yaml:"exit_fee" json:"exit_fee"`
	// PnL is the realized profit net of entry and exit fees.
	// For example, long 10 shares at 100 and sell at 110 with 2 in total fees gives 98.
	PnL optional.Option[float64] `yaml:"pnl" json:"pnl"`
}

// IsClosed reports whether the trade has an exit.
func (t Trade) IsClosed() bool {
	return t.ExitTime.IsSome() && t.PnL.IsSome()
}

// HoldingTime returns exit minus entry time, or zero while the trade is open.
func (t Trade) HoldingTime() time.Duration {
	exit, err := t.ExitTime.Take()
	if err != nil {
		return 0
	}

	return exit.Sub(t.EntryTime)
}

// RealizedPnL returns the realized PnL, or zero while the trade is open.
func (t Trade) RealizedPnL() float64 {
	return t.PnL.TakeOr(0)
}
