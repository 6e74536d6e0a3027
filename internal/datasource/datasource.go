// Package datasource loads OHLCV samples from CSV or parquet files through DuckDB.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

// Query narrows a read to one symbol and a closed time range.
// An empty Symbol matches every symbol.
type Query struct {
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
}

type DataSource interface {
	// Initialize points the data source at a CSV or parquet file. Calling it again replaces the previous file.
	Initialize(path string) error
	// ReadAll returns the matching samples ordered by time
	ReadAll(query Query) ([]types.Sample, error)
	// Resample aggregates the matching samples into bars of the given interval
	Resample(query Query, interval Interval) ([]types.Sample, error)
	// Count returns the number of matching rows
	Count(query Query) (int, error)
	// Symbols returns the distinct symbols in the file
	Symbols() ([]string, error)
	// Close closes the data source and releases any resources
	Close() error
}
