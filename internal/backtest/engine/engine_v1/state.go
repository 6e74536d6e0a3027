package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PositionState is the side of the account's single open position.
type PositionState int

const (
	PositionFlat PositionState = iota
	PositionLong
	PositionShort
)

func (p PositionState) String() string {
	switch p {
	case PositionLong:
		return "long"
	case PositionShort:
		return "short"
	default:
		return "flat"
	}
}

// fill is the outcome of sizing an allocation at a price.
type fill struct {
	size     decimal.Decimal
	notional decimal.Decimal
	fee      decimal.Decimal
}

// BacktestState is the account of one run: cash, a signed position and the trade ledger.
// Money is kept in decimal so fees and P&L accumulate without drift.
type BacktestState struct {
	cash       decimal.Decimal
	position   decimal.Decimal
	open       optional.Option[types.Trade]
	trades     []types.Trade
	commission commission_fee.CommissionFee
	slippage   decimal.Decimal
	log        *logger.Logger
}

func NewBacktestState(initialCash float64, commission commission_fee.CommissionFee, slippageRate float64, log *logger.Logger) *BacktestState {
	return &BacktestState{
		cash:       decimal.NewFromFloat(initialCash),
		position:   decimal.Zero,
		open:       optional.None[types.Trade](),
		trades:     nil,
		commission: commission,
		slippage:   decimal.NewFromFloat(slippageRate),
		log:        log,
	}
}

// State returns the side of the open position.
func (b *BacktestState) State() PositionState {
	switch {
	case b.position.IsPositive():
		return PositionLong
	case b.position.IsNegative():
		return PositionShort
	default:
		return PositionFlat
	}
}

// Cash returns the current cash balance.
func (b *BacktestState) Cash() float64 {
	return b.cash.InexactFloat64()
}

// Position returns the signed position size. Shorts are negative.
func (b *BacktestState) Position() float64 {
	return b.position.InexactFloat64()
}

// Equity marks the account to price: cash + position * price.
func (b *BacktestState) Equity(price float64) float64 {
	return b.cash.Add(b.position.Mul(decimal.NewFromFloat(price))).InexactFloat64()
}

// Trades returns the closed trades in the order they were closed.
func (b *BacktestState) Trades() []types.Trade {
	trades := make([]types.Trade, len(b.trades))
	copy(trades, b.trades)

	return trades
}

// OpenLong commits fraction of cash to a long position at price.
// It returns false when there is nothing to allocate.
func (b *BacktestState) OpenLong(at time.Time, price float64, fraction float64) bool {
	f, ok := b.size(price, fraction)
	if !ok {
		return false
	}

	b.cash = b.cash.Sub(f.notional).Sub(f.fee)
	b.position = f.size
	b.openTrade(types.DirectionLong, at, price, f)

	return true
}

// OpenShort sells short an allocation of fraction of cash at price.
// The proceeds net of fees are credited to cash.
func (b *BacktestState) OpenShort(at time.Time, price float64, fraction float64) bool {
	f, ok := b.size(price, fraction)
	if !ok {
		return false
	}

	b.cash = b.cash.Add(f.notional).Sub(f.fee)
	b.position = f.size.Neg()
	b.openTrade(types.DirectionShort, at, price, f)

	return true
}

// Close exits the open position at price and returns the finished trade.
func (b *BacktestState) Close(at time.Time, price float64) (types.Trade, bool) {
	trade, err := b.open.Take()
	if err != nil {
		return types.Trade{}, false
	}

	size := b.position.Abs()
	px := decimal.NewFromFloat(price)
	notional := size.Mul(px)
	fee := b.fee(size, price, notional)
	entryValue := size.Mul(decimal.NewFromFloat(trade.EntryPrice))

	var gross decimal.Decimal
	if trade.Direction == types.DirectionLong {
		b.cash = b.cash.Add(notional).Sub(fee)
		gross = notional.Sub(entryValue)
	} else {
		b.cash = b.cash.Sub(notional).Sub(fee)
		gross = entryValue.Sub(notional)
	}

	pnl := gross.Sub(decimal.NewFromFloat(trade.EntryFee)).Sub(fee)

	trade.ExitTime = optional.Some(at)
	trade.ExitPrice = optional.Some(price)
	trade.ExitFee = fee.InexactFloat64()
	trade.PnL = optional.Some(pnl.InexactFloat64())

	b.position = decimal.Zero
	b.open = optional.None[types.Trade]()
	b.trades = append(b.trades, trade)

	b.log.Debug("Closed position",
		zap.String("direction", string(trade.Direction)),
		zap.Time("time", at),
		zap.Float64("price", price),
		zap.Float64("size", trade.Size),
		zap.Float64("pnl", trade.RealizedPnL()),
		zap.String("cash", b.cash.String()),
	)

	return trade, true
}

func (b *BacktestState) openTrade(direction types.Direction, at time.Time, price float64, f fill) {
	b.open = optional.Some(types.Trade{
		Direction:  direction,
		EntryTime:  at,
		EntryPrice: price,
		Size:       f.size.InexactFloat64(),
		EntryFee:   f.fee.InexactFloat64(),
		ExitTime:   optional.None[time.Time](),
		ExitPrice:  optional.None[float64](),
		ExitFee:    0,
		PnL:        optional.None[float64](),
	})

	b.log.Debug("Opened position",
		zap.String("direction", string(direction)),
		zap.Time("time", at),
		zap.Float64("price", price),
		zap.String("size", f.size.String()),
		zap.String("fee", f.fee.String()),
		zap.String("cash", b.cash.String()),
	)
}

// size spends allocation = cash * fraction so that notional + fee == allocation.
// Proportional fee models are solved exactly; other models take one step back
// from the fee of the full allocation, which keeps the spend within the allocation
// for any fee that does not shrink as the size grows.
func (b *BacktestState) size(price float64, fraction float64) (fill, bool) {
	allocation := b.cash.Mul(decimal.NewFromFloat(fraction))
	if !allocation.IsPositive() || price <= 0 {
		return fill{}, false
	}

	px := decimal.NewFromFloat(price)
	one := decimal.NewFromInt(1)

	if proportional, ok := b.commission.(commission_fee.ProportionalFee); ok {
		rate := decimal.NewFromFloat(proportional.Rate()).Add(b.slippage)
		notional := allocation.Div(one.Add(rate))

		return fill{
			size:     notional.Div(px),
			notional: notional,
			fee:      allocation.Sub(notional),
		}, true
	}

	notional := allocation.Div(one.Add(b.slippage))
	fixed := decimal.NewFromFloat(b.commission.Calculate(notional.Div(px).InexactFloat64(), price))
	notional = allocation.Sub(fixed).Div(one.Add(b.slippage))
	if !notional.IsPositive() {
		return fill{}, false
	}

	size := notional.Div(px)

	return fill{
		size:     size,
		notional: notional,
		fee:      b.fee(size, price, notional),
	}, true
}

func (b *BacktestState) fee(size decimal.Decimal, price float64, notional decimal.Decimal) decimal.Decimal {
	commission := decimal.NewFromFloat(b.commission.Calculate(size.InexactFloat64(), price))

	return commission.Add(notional.Mul(b.slippage))
}
