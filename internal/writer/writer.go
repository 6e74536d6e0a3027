// Package writer persists backtest results: the report as YAML and the
// trade ledger and equity curve as parquet files.
package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	tradesFileName = "trades.parquet"
	equityFileName = "equity_curve.parquet"
	statsFileName  = "stats.yaml"

	csvTimeLayout = "2006-01-02 15:04:05"
)

// ResultWriter defines the interface for writing backtest results
type ResultWriter interface {
	// Write stores one report and returns it with the file paths filled in
	Write(report types.Report) (types.Report, error)
}

// ParquetWriter writes each run into its own folder under baseDir.
// The folder is named <symbol>_<strategy>_<run id>.
type ParquetWriter struct {
	baseDir string
}

// NewParquetWriter creates a writer rooted at baseDir.
func NewParquetWriter(baseDir string) *ParquetWriter {
	return &ParquetWriter{baseDir: baseDir}
}

// Write implements ResultWriter.
func (w *ParquetWriter) Write(report types.Report) (types.Report, error) {
	runDir := filepath.Join(w.baseDir, runFolderName(report))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return types.Report{}, errors.Wrap(errors.ErrCodeWriteFailed, "failed to create run directory", err)
	}

	report.TradesFilePath = filepath.Join(runDir, tradesFileName)
	if err := WriteTrades(report.TradesFilePath, report.Trades); err != nil {
		return types.Report{}, err
	}

	report.EquityFilePath = filepath.Join(runDir, equityFileName)
	if err := WriteEquityCurve(report.EquityFilePath, report.EquityCurve); err != nil {
		return types.Report{}, err
	}

	if err := WriteReport(filepath.Join(runDir, statsFileName), report); err != nil {
		return types.Report{}, err
	}

	return report, nil
}

// WriteReport writes the report summary as YAML.
func WriteReport(path string, report types.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to marshal report to YAML", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write report", err)
	}

	return nil
}

// WriteTrades writes the trade ledger as parquet.
func WriteTrades(path string, trades []types.Trade) error {
	if err := parquet.WriteFile(path, toTradeRecords(trades)); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write trades to %s", path)
	}

	return nil
}

// WriteEquityCurve writes the equity curve as parquet.
func WriteEquityCurve(path string, curve []types.EquityPoint) error {
	if err := parquet.WriteFile(path, toEquityRecords(curve)); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write equity curve to %s", path)
	}

	return nil
}

// ReadTrades reads a trade ledger written by WriteTrades.
func ReadTrades(path string) ([]TradeRecord, error) {
	rows, err := parquet.ReadFile[TradeRecord](path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read trades from %s", path)
	}

	return rows, nil
}

// ReadEquityCurve reads an equity curve written by WriteEquityCurve.
func ReadEquityCurve(path string) ([]EquityRecord, error) {
	rows, err := parquet.ReadFile[EquityRecord](path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read equity curve from %s", path)
	}

	return rows, nil
}

// WriteSamples writes OHLCV bars as CSV or parquet, chosen by the file extension.
// Both formats can be loaded back by the DuckDB data source.
func WriteSamples(path string, samples []types.Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create output directory", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		if err := parquet.WriteFile(path, toSampleRecords(samples)); err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write samples to %s", path)
		}

		return nil
	case ".csv":
		return writeSamplesCSV(path, samples)
	default:
		return errors.Newf(errors.ErrCodeInvalidInput, "unsupported output file %q, expected .csv or .parquet", path)
	}
}

func writeSamplesCSV(path string, samples []types.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create samples file", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write([]string{"time", "symbol", "open", "high", "low", "close", "volume"}); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write header", err)
	}

	for _, s := range samples {
		record := []string{
			s.Time.UTC().Format(csvTimeLayout),
			s.Symbol,
			formatFloat(s.Open),
			formatFloat(s.High),
			formatFloat(s.Low),
			formatFloat(s.Close),
			formatFloat(s.Volume),
		}

		if err := w.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write sample", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to flush samples", err)
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func runFolderName(report types.Report) string {
	parts := []string{}
	if report.Symbol != "" {
		parts = append(parts, report.Symbol)
	}
	if report.Strategy != "" {
		parts = append(parts, report.Strategy)
	}

	id := report.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "run"
	}

	parts = append(parts, id)

	return sanitize(strings.Join(parts, "_"))
}

// sanitize keeps folder names portable.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '-'
		}
	}, name)
}

var _ ResultWriter = (*ParquetWriter)(nil)
