package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	engine_v1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/batch"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/rxtech-lab/argo-quant/internal/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Run many strategies over the same data in parallel",
		Flags: append(dataFlags(),
			&cli.StringSliceFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Strategy YAML files or glob patterns, repeatable",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of backtests run at the same time, 0 uses every CPU",
				Value:   0,
			},
		),
		Action: sweepAction,
	}
}

func sweepAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	config, err := engine_v1.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	paths, err := expandPatterns(cmd.StringSlice("strategy"))
	if err != nil {
		return err
	}

	jobs := make([]batch.Job, 0, len(paths))

	for _, path := range paths {
		s, err := strategy.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		jobs = append(jobs, batch.Job{Strategy: s, Config: config})
	}

	samples, err := loadSamples(cmd, log)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %d strategies", len(jobs))),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(stderr(cmd)),
	)

	registry := prometheus.NewRegistry()

	workers := int(cmd.Int("workers"))
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	runner, err := batch.NewRunner(workers, registry,
		batch.WithLogger(log),
		batch.WithResultCallback(func(batch.Result) {
			_ = bar.Add(1)
		}),
	)
	if err != nil {
		return err
	}

	results, runErr := runner.Run(ctx, samples, jobs)
	_ = bar.Finish()

	w := writer.NewParquetWriter(cmd.String("output"))

	for i, result := range results {
		if result.Err != nil {
			continue
		}

		written, err := w.Write(result.Report)
		if err != nil {
			return err
		}

		results[i].Report = written
	}

	logRunTotals(log, registry)

	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}

		return results[i].Report.Metrics.TotalReturn > results[j].Report.Metrics.TotalReturn
	})

	if _, err := fmt.Fprintln(stdout(cmd), renderSweep(results)); err != nil {
		return err
	}

	return runErr
}

// logRunTotals logs the run counters of the sweep, one line per strategy and status.
func logRunTotals(log *logger.Logger, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Warn("Failed to gather sweep metrics", zap.Error(err))

		return
	}

	for _, family := range families {
		if family.GetName() != "argo_quant_runs_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			fields := []zap.Field{zap.Float64("runs", metric.GetCounter().GetValue())}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}

			log.Info("Sweep runs", fields...)
		}
	}
}

// expandPatterns resolves glob patterns and keeps plain paths as given.
func expandPatterns(patterns []string) ([]string, error) {
	var paths []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid strategy pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			paths = append(paths, pattern)

			continue
		}

		paths = append(paths, matches...)
	}

	return paths, nil
}
