package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/datasource"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/writer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// dataFlags are shared by every command that reads market data.
func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "Path to a CSV or parquet file with time, symbol, open, high, low, close and volume columns",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "Symbol to backtest. May be omitted when the file holds a single symbol",
		},
		&cli.StringFlag{
			Name:  "interval",
			Usage: "Resample the bars to this interval (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w)",
		},
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "Path to the engine config YAML",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory the results are written to",
			Value:   "results",
		},
	}
}

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Run one strategy over a data file",
		Flags: append(dataFlags(),
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Path to the strategy YAML",
				Required: true,
			},
		),
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	config, err := engine_v1.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	s, err := strategy.Load(cmd.String("strategy"))
	if err != nil {
		return err
	}

	samples, err := loadSamples(cmd, log)
	if err != nil {
		return err
	}

	signals, err := s.GenerateSignals(samples)
	if err != nil {
		return err
	}

	backtest, err := engine_v1.NewBacktestEngineV1(config, log)
	if err != nil {
		return err
	}

	onTrade := engine.OnTradeCallback(func(trade types.Trade) error {
		log.Debug("Trade closed",
			zap.String("direction", string(trade.Direction)),
			zap.Time("entry_time", trade.EntryTime),
			zap.Float64("pnl", trade.RealizedPnL()),
		)

		return nil
	})

	report, err := backtest.Run(ctx, samples, signals, engine.LifecycleCallbacks{OnTrade: &onTrade})
	if err != nil {
		return err
	}

	report.Strategy = s.Name

	report, err = writer.NewParquetWriter(cmd.String("output")).Write(report)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(cmd), renderReport(report))

	return err
}

// loadSamples reads the bars selected by the data flags.
func loadSamples(cmd *cli.Command, log *logger.Logger) ([]types.Sample, error) {
	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err := ds.Initialize(cmd.String("data")); err != nil {
		return nil, err
	}

	symbol := cmd.String("symbol")
	if symbol == "" {
		symbols, err := ds.Symbols()
		if err != nil {
			return nil, err
		}

		if len(symbols) != 1 {
			return nil, fmt.Errorf("%s holds %d symbols, choose one with --symbol", cmd.String("data"), len(symbols))
		}

		symbol = symbols[0]
	}

	query := datasource.Query{Symbol: symbol}

	var samples []types.Sample
	if interval := cmd.String("interval"); interval != "" {
		samples, err = ds.Resample(query, datasource.Interval(interval))
	} else {
		samples, err = ds.ReadAll(query)
	}

	if err != nil {
		return nil, err
	}

	log.Info("Loaded market data",
		zap.String("symbol", symbol),
		zap.Int("bars", len(samples)),
	)

	return samples, nil
}
