package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/writer"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/urfave/cli/v3"
)

func generateCommand() *cli.Command {
	defaults := mocks.DefaultConfig()

	return &cli.Command{
		Name:  "generate",
		Usage: "Write synthetic OHLCV bars to a CSV or parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output file, .csv or .parquet",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Symbol written on every bar",
				Value: defaults.Symbol,
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of bars",
				Value: 1000,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random seed, the same seed always produces the same bars",
				Value: 42,
			},
			&cli.TimestampFlag{
				Name:  "start",
				Usage: "Time of the first bar in `YYYY-MM-DD` format",
				Value: defaults.StartTime,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Time between bars",
				Value: 24 * time.Hour,
			},
			&cli.FloatFlag{
				Name:  "price",
				Usage: "Initial price",
				Value: defaults.InitialPrice,
			},
			&cli.FloatFlag{
				Name:  "volatility",
				Usage: "Standard deviation of the per bar return",
				Value: 0.01,
			},
			&cli.FloatFlag{
				Name:  "trend",
				Usage: "Total drift over the whole series, e.g. 0.2 for a 20% rise",
				Value: defaults.Trend,
			},
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "Average volume per bar",
				Value: defaults.VolumeBase,
			},
		},
		Action: generateAction,
	}
}

func generateAction(_ context.Context, cmd *cli.Command) error {
	count := int(cmd.Int("count"))
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	config := mocks.GeneratorConfig{
		Symbol:         cmd.String("symbol"),
		StartTime:      cmd.Timestamp("start").UTC(),
		Interval:       cmd.Duration("interval"),
		Count:          count,
		InitialPrice:   cmd.Float("price"),
		Volatility:     cmd.Float("volatility"),
		Trend:          cmd.Float("trend"),
		VolumeBase:     cmd.Float("volume"),
		VolumeVariance: mocks.DefaultConfig().VolumeVariance,
	}

	samples := mocks.NewDataGenerator(int64(cmd.Int("seed"))).Generate(config)

	output := cmd.String("output")
	if err := writer.WriteSamples(output, samples); err != nil {
		return err
	}

	_, err := fmt.Fprintf(stdout(cmd), "Wrote %d %s bars to %s\n", len(samples), config.Symbol, output)

	return err
}
