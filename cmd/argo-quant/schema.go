package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	engine_v1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"
)

const (
	engineSchemaName   = "backtest-engine-v1-config.json"
	engineSampleName   = "backtest-engine-v1-config.yaml"
	strategySchemaName = "strategy.json"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Write the JSON schemas of the engine and strategy configs, plus a sample engine config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory the schemas are written to",
				Value:   "config",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.String("output")
	config := engine_v1.EmptyConfig()

	engineSchema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate engine schema: %w", err)
	}

	if err := generateSchemaFile(engineSchema, filepath.Join(dir, engineSchemaName)); err != nil {
		return err
	}

	strategySchema, err := strategy.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate strategy schema: %w", err)
	}

	if err := generateSchemaFile(strategySchema, filepath.Join(dir, strategySchemaName)); err != nil {
		return err
	}

	config.InitialCapital = 10000
	if err := generateSampleConfig(config, filepath.Join(dir, engineSampleName), engineSchemaName); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout(cmd), "Schemas written to %s\n", dir)

	return err
}

// generateSchemaFile writes schema to path, creating the directory if needed.
func generateSchemaFile(schema string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(schema), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes config as YAML unless path already exists.
func generateSampleConfig(config engine_v1.BacktestEngineV1Config, path string, schemaName string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.WriteFile(path, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	return nil
}

// getSchemaReference returns the comment that points YAML editors at a schema.
func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
