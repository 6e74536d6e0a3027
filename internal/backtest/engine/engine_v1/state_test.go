package engine

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

type BacktestStateTestSuite struct {
	suite.Suite
	start time.Time
}

func TestBacktestStateSuite(t *testing.T) {
	suite.Run(t, new(BacktestStateTestSuite))
}

func (suite *BacktestStateTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

func (suite *BacktestStateTestSuite) newState(commission commission_fee.CommissionFee, slippage float64) *BacktestState {
	return NewBacktestState(1000, commission, slippage, logger.NewNopLogger())
}

func (suite *BacktestStateTestSuite) TestInitialState() {
	state := suite.newState(commission_fee.NewZeroCommissionFee(), 0)

	suite.Equal(PositionFlat, state.State())
	suite.Equal(1000.0, state.Cash())
	suite.Equal(0.0, state.Position())
	suite.Equal(1000.0, state.Equity(123))
	suite.Empty(state.Trades())

	_, closed := state.Close(suite.start, 100)
	suite.False(closed)
}

func (suite *BacktestStateTestSuite) TestLongRoundTrip() {
	state := suite.newState(commission_fee.NewZeroCommissionFee(), 0)

	suite.True(state.OpenLong(suite.start, 100, 1))
	suite.Equal(PositionLong, state.State())
	suite.Equal(0.0, state.Cash())
	suite.Equal(10.0, state.Position())
	suite.Equal(1200.0, state.Equity(120))

	trade, closed := state.Close(suite.start.Add(time.Hour), 120)
	suite.True(closed)
	suite.True(trade.IsClosed())
	suite.Equal(types.DirectionLong, trade.Direction)
	suite.Equal(200.0, trade.RealizedPnL())
	suite.Equal(time.Hour, trade.HoldingTime())
	suite.Equal(PositionFlat, state.State())
	suite.Equal(1200.0, state.Cash())
	suite.Len(state.Trades(), 1)
}

func (suite *BacktestStateTestSuite) TestShortRoundTrip() {
	state := suite.newState(commission_fee.NewZeroCommissionFee(), 0)

	suite.True(state.OpenShort(suite.start, 100, 1))
	suite.Equal(PositionShort, state.State())
	suite.Equal(2000.0, state.Cash())
	suite.Equal(-10.0, state.Position())
	suite.Equal(1100.0, state.Equity(90))
	suite.Equal(900.0, state.Equity(110))

	trade, closed := state.Close(suite.start.Add(time.Hour), 110)
	suite.True(closed)
	suite.Equal(types.DirectionShort, trade.Direction)
	suite.Equal(-100.0, trade.RealizedPnL())
	suite.Equal(900.0, state.Cash())
}

func (suite *BacktestStateTestSuite) TestFeesReducePnL() {
	state := suite.newState(commission_fee.NewProportionalCommissionFee(0.001), 0.001)

	suite.True(state.OpenShort(suite.start, 50, 1))
	trade, closed := state.Close(suite.start.Add(time.Minute), 50)
	suite.True(closed)

	suite.Positive(trade.EntryFee)
	suite.Positive(trade.ExitFee)
	suite.InDelta(-(trade.EntryFee + trade.ExitFee), trade.RealizedPnL(), 1e-9)
	suite.InDelta(1000-trade.EntryFee-trade.ExitFee, state.Cash(), 1e-9)
}

func (suite *BacktestStateTestSuite) TestNothingToAllocate() {
	state := suite.newState(commission_fee.NewZeroCommissionFee(), 0)

	suite.False(state.OpenLong(suite.start, 0, 1))
	suite.False(state.OpenLong(suite.start, -5, 1))
	suite.Equal(PositionFlat, state.State())

	poor := NewBacktestState(0.5, commission_fee.NewInteractiveBrokerCommissionFee(), 0, logger.NewNopLogger())
	// the minimum fee is larger than the whole allocation
	suite.False(poor.OpenLong(suite.start, 10, 1))
	suite.Equal(0.5, poor.Cash())
}

func (suite *BacktestStateTestSuite) TestTradesIsACopy() {
	state := suite.newState(commission_fee.NewZeroCommissionFee(), 0)
	state.OpenLong(suite.start, 100, 1)
	state.Close(suite.start.Add(time.Hour), 110)

	trades := state.Trades()
	trades[0].EntryPrice = 0

	suite.Equal(100.0, state.Trades()[0].EntryPrice)
}

func (suite *BacktestStateTestSuite) TestPositionStateString() {
	suite.Equal("flat", PositionFlat.String())
	suite.Equal("long", PositionLong.String())
	suite.Equal("short", PositionShort.String())
}
