package datasource

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

const viewName = "market_data"

type DuckDBDataSource struct {
	db          *sql.DB
	logger      *logger.Logger
	sq          squirrel.StatementBuilderType
	initialized bool
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// Use ":memory:" for an in-memory database.
// This is distinct from Initialize() which points the database at market data.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:          db,
		logger:      logger,
		sq:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		initialized: false,
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	reader, err := readFunction(path)
	if err != nil {
		return err
	}

	// First drop the view if it exists
	_, err = d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, viewName))
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// Squirrel doesn't support CREATE VIEW, and table functions take no bind parameters
	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT
			time,
			CAST(symbol AS VARCHAR) AS symbol,
			CAST(open AS DOUBLE) AS open,
			CAST(high AS DOUBLE) AS high,
			CAST(low AS DOUBLE) AS low,
			CAST(close AS DOUBLE) AS close,
			CAST(volume AS DOUBLE) AS volume
		FROM %s(%s);
	`, viewName, reader, quoteLiteral(path))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to load market data from %s", path)
	}

	d.initialized = true

	return nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(query Query) ([]types.Sample, error) {
	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	sqlQuery, args, err := d.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From(viewName).
		Where(conditions(query)).
		OrderBy("time ASC", "symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	return d.querySamples(sqlQuery, args)
}

// Resample implements DataSource.
// A bar opens with the first open of its bucket and closes with the last close.
func (d *DuckDBDataSource) Resample(query Query, interval Interval) ([]types.Sample, error) {
	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	minutes, err := getIntervalMinutes(interval)
	if err != nil {
		return nil, err
	}

	bucket := fmt.Sprintf("time_bucket(INTERVAL '%d minutes', time)", minutes)

	sqlQuery, args, err := d.sq.
		Select(
			bucket+" AS bucket_time",
			"symbol",
			"arg_min(open, time) AS open",
			"MAX(high) AS high",
			"MIN(low) AS low",
			"arg_max(close, time) AS close",
			"SUM(volume) AS volume",
		).
		From(viewName).
		Where(conditions(query)).
		GroupBy("bucket_time", "symbol").
		OrderBy("bucket_time ASC", "symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	return d.querySamples(sqlQuery, args)
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(query Query) (int, error) {
	if err := d.checkInitialized(); err != nil {
		return 0, err
	}

	sqlQuery, args, err := d.sq.
		Select("COUNT(*)").
		From(viewName).
		Where(conditions(query)).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(sqlQuery, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count market data", err)
	}

	return count, nil
}

// Symbols implements DataSource.
func (d *DuckDBDataSource) Symbols() ([]string, error) {
	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	sqlQuery, args, err := d.sq.
		Select("DISTINCT symbol").
		From(viewName).
		OrderBy("symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return symbols, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

func (d *DuckDBDataSource) checkInitialized() error {
	if !d.initialized {
		return errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized, call Initialize first")
	}

	return nil
}

func (d *DuckDBDataSource) querySamples(query string, args []interface{}) ([]types.Sample, error) {
	d.logger.Debug("Querying market data", zap.String("query", query), zap.Int("args", len(args)))

	// Use prepared statement for better performance
	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	// Pre-allocate slice with reasonable capacity
	result := make([]types.Sample, 0, 1000)

	for rows.Next() {
		var (
			timestamp                      time.Time
			open, high, low, close, volume float64
			symbol                         string
		)

		if err := rows.Scan(&timestamp, &symbol, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		result = append(result, types.Sample{
			Symbol: symbol,
			Time:   timestamp.UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return result, nil
}

// conditions turns a query into a squirrel WHERE clause.
func conditions(query Query) squirrel.And {
	where := squirrel.And{}

	if query.Symbol != "" {
		where = append(where, squirrel.Eq{"symbol": query.Symbol})
	}

	if start, err := query.Start.Take(); err == nil {
		where = append(where, squirrel.GtOrEq{"time": start})
	}

	if end, err := query.End.Take(); err == nil {
		where = append(where, squirrel.LtOrEq{"time": end})
	}

	return where
}
