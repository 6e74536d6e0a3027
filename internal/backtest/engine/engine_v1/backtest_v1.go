package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/stats"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

type BacktestEngineV1 struct {
	config BacktestEngineV1Config
	log    *logger.Logger
}

// NewBacktestEngineV1 validates config and returns an engine.
// A nil logger discards all log output.
func NewBacktestEngineV1(config BacktestEngineV1Config, log *logger.Logger) (engine.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config: config,
		log:    log,
	}, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, samples []types.Sample, signals []types.Signal, callbacks engine.LifecycleCallbacks) (report types.Report, err error) {
	runID := uuid.New().String()

	defer func() {
		if err != nil {
			report = types.Report{}
		}
		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(report, err)
		}
	}()

	samples, signals, err = b.prepare(samples, signals)
	if err != nil {
		return types.Report{}, err
	}

	symbol := samples[0].Symbol

	b.log.Debug("Backtest run started",
		zap.String("run_id", runID),
		zap.String("symbol", symbol),
		zap.Int("bars", len(samples)),
		zap.String("execution_price", string(b.config.ExecutionPrice)),
	)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, symbol, len(samples)); err != nil {
			return types.Report{}, errors.Wrap(errors.ErrCodeCallbackFailed, "run start callback aborted the backtest", err)
		}
	}

	commission := commission_fee.GetCommissionFeeHandler(b.config.Broker, b.config.CommissionRate)
	state := NewBacktestState(b.config.InitialCapital, commission, b.config.SlippageRate, b.log)
	curve := make([]types.EquityPoint, 0, len(samples))
	total := len(samples)

	for i, sample := range samples {
		if err := ctx.Err(); err != nil {
			return types.Report{}, errors.Wrap(errors.ErrCodeBacktestRunFailed, "backtest cancelled", err)
		}

		switch b.config.ExecutionPrice {
		case ExecutionPriceNextOpen:
			if i > 0 {
				if err := b.apply(state, signals[i-1], sample.Time, sample.Open, callbacks); err != nil {
					return types.Report{}, err
				}
			}
		default:
			if err := b.apply(state, signals[i], sample.Time, sample.Close, callbacks); err != nil {
				return types.Report{}, err
			}
		}

		if i == total-1 {
			if err := b.closePosition(state, sample.Time, sample.Close, callbacks); err != nil {
				return types.Report{}, err
			}
		}

		curve = append(curve, types.EquityPoint{
			Time:     sample.Time,
			Equity:   state.Equity(sample.Close),
			Cash:     state.Cash(),
			Position: state.Position(),
		})

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, total); err != nil {
				return types.Report{}, errors.Wrap(errors.ErrCodeCallbackFailed, "process data callback aborted the backtest", err)
			}
		}
	}

	trades := state.Trades()
	equity := make([]float64, len(curve))
	for i, point := range curve {
		equity[i] = point.Equity
	}

	metrics, err := stats.Calculate(b.config.InitialCapital, equity, trades, b.config.Annualization)
	if err != nil {
		return types.Report{}, errors.Wrap(errors.ErrCodeBacktestRunFailed, "failed to calculate performance metrics", err)
	}
	metrics.BuyAndHoldReturn = stats.BuyAndHoldReturn(types.Closes(samples))

	report = types.Report{
		ID:             runID,
		Timestamp:      time.Now(),
		Symbol:         symbol,
		InitialBalance: b.config.InitialCapital,
		FinalBalance:   equity[len(equity)-1],
		TotalTrades:    metrics.TradeCount,
		WinRate:        metrics.WinRate,
		MaxDrawdown:    metrics.MaxDrawdown,
		Metrics:        metrics,
		Trades:         trades,
		EquityCurve:    curve,
	}

	b.log.Debug("Backtest run finished",
		zap.String("run_id", runID),
		zap.Float64("final_balance", report.FinalBalance),
		zap.Int("trades", report.TotalTrades),
		zap.Float64("total_return", metrics.TotalReturn),
	)

	return report, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := EmptyConfig()

	return config.GenerateSchemaJSON()
}

// prepare validates the inputs and cuts them to the configured time window.
func (b *BacktestEngineV1) prepare(samples []types.Sample, signals []types.Signal) ([]types.Sample, []types.Signal, error) {
	if len(samples) != len(signals) {
		return nil, nil, errors.Newf(errors.ErrCodeInvalidData,
			"signals must match samples one to one: got %d samples and %d signals", len(samples), len(signals))
	}

	if err := types.ValidateSeries(samples); err != nil {
		return nil, nil, err
	}

	for i, signal := range signals {
		if signal != types.SignalHold && signal != types.SignalBuy && signal != types.SignalSell {
			return nil, nil, errors.Newf(errors.ErrCodeInvalidData, "signal %d has unknown value %d", i, int(signal))
		}
	}

	first, last := 0, len(samples)
	if start, err := b.config.StartTime.Take(); err == nil {
		for first < last && samples[first].Time.Before(start) {
			first++
		}
	}
	if end, err := b.config.EndTime.Take(); err == nil {
		for last > first && samples[last-1].Time.After(end) {
			last--
		}
	}

	if last-first < 2 {
		return nil, nil, errors.NewInsufficientDataErrorf(2, last-first, "",
			"backtest needs at least 2 samples, got %d", last-first)
	}

	return samples[first:last], signals[first:last], nil
}

// apply executes one signal at price.
func (b *BacktestEngineV1) apply(state *BacktestState, signal types.Signal, at time.Time, price float64, callbacks engine.LifecycleCallbacks) error {
	switch signal {
	case types.SignalBuy:
		if state.State() == PositionLong {
			return nil
		}

		if err := b.closePosition(state, at, price, callbacks); err != nil {
			return err
		}

		state.OpenLong(at, price, b.config.PositionSize)
	case types.SignalSell:
		if state.State() == PositionShort {
			return nil
		}

		if err := b.closePosition(state, at, price, callbacks); err != nil {
			return err
		}

		if b.config.ShortSelling {
			state.OpenShort(at, price, b.config.PositionSize)
		}
	}

	return nil
}

func (b *BacktestEngineV1) closePosition(state *BacktestState, at time.Time, price float64, callbacks engine.LifecycleCallbacks) error {
	trade, closed := state.Close(at, price)
	if !closed || callbacks.OnTrade == nil {
		return nil
	}

	if err := (*callbacks.OnTrade)(trade); err != nil {
		return errors.Wrap(errors.ErrCodeCallbackFailed, "trade callback aborted the backtest", err)
	}

	return nil
}
