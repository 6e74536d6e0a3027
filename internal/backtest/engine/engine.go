package engine

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Lifecycle callback types for a backtest run.
// All callbacks with error return can abort execution if they return an error.

// OnRunStartCallback is called once the inputs are validated and before the first bar is simulated.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, symbol string, totalDataPoints int) error

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnTradeCallback is called every time a round trip is closed.
type OnTradeCallback func(trade types.Trade) error

// OnRunEndCallback is called when the run ends (always called via defer).
// report is empty when err is not nil.
type OnRunEndCallback func(report types.Report, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnProcessData *OnProcessDataCallback
	OnTrade       *OnTradeCallback
	OnRunEnd      *OnRunEndCallback
}

// Engine simulates a signal-driven strategy over a price series.
type Engine interface {
	// Run replays samples with one signal per sample and returns the report.
	// signals must have the same length as samples. Nothing is returned on failure.
	// The context can be used to cancel the run between bars.
	Run(ctx context.Context, samples []types.Sample, signals []types.Signal, callbacks LifecycleCallbacks) (types.Report, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
