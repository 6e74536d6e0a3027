package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/parquet-go/parquet-go"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type WriterTestSuite struct {
	suite.Suite
	tmpDir string
	start  time.Time
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

func (suite *WriterTestSuite) SetupTest() {
	suite.tmpDir = suite.T().TempDir()
	suite.start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

func (suite *WriterTestSuite) report() types.Report {
	closed := types.Trade{
		Direction:  types.DirectionLong,
		EntryTime:  suite.start,
		EntryPrice: 100,
		Size:       10,
		EntryFee:   1,
		ExitTime:   optional.Some(suite.start.Add(48 * time.Hour)),
		ExitPrice:  optional.Some(110.0),
		ExitFee:    1.1,
		PnL:        optional.Some(97.9),
	}
	open := types.Trade{
		Direction:  types.DirectionShort,
		EntryTime:  suite.start.Add(48 * time.Hour),
		EntryPrice: 110,
		Size:       9,
		ExitTime:   optional.None[time.Time](),
		ExitPrice:  optional.None[float64](),
		PnL:        optional.None[float64](),
	}

	return types.Report{
		ID:             "0f8fad5b-d9cb-469f-a165-70867728950e",
		Timestamp:      suite.start,
		Symbol:         "SPY",
		Strategy:       "rsi mean/reversion",
		InitialBalance: 1000,
		FinalBalance:   1097.9,
		TotalTrades:    1,
		WinRate:        1,
		Trades:         []types.Trade{closed, open},
		EquityCurve: []types.EquityPoint{
			{Time: suite.start, Equity: 1000, Cash: 0, Position: 10},
			{Time: suite.start.Add(24 * time.Hour), Equity: 1050, Cash: 0, Position: 10},
			{Time: suite.start.Add(48 * time.Hour), Equity: 1097.9, Cash: 1097.9, Position: 0},
		},
	}
}

func (suite *WriterTestSuite) TestWriteRun() {
	w := NewParquetWriter(suite.tmpDir)

	written, err := w.Write(suite.report())
	suite.Require().NoError(err)

	runDir := filepath.Join(suite.tmpDir, "SPY_rsi-mean-reversion_0f8fad5b")
	suite.Equal(filepath.Join(runDir, "trades.parquet"), written.TradesFilePath)
	suite.Equal(filepath.Join(runDir, "equity_curve.parquet"), written.EquityFilePath)
	suite.FileExists(filepath.Join(runDir, "stats.yaml"))

	trades, err := ReadTrades(written.TradesFilePath)
	suite.Require().NoError(err)
	suite.Require().Len(trades, 2)
	suite.Equal("long", trades[0].Direction)
	suite.Equal(suite.start.UnixMilli(), trades[0].EntryTime)
	suite.Equal(110.0, trades[0].ExitPrice)
	suite.Equal(97.9, trades[0].PnL)
	suite.True(trades[0].Closed)
	suite.Equal("short", trades[1].Direction)
	suite.False(trades[1].Closed)
	suite.Equal(int64(0), trades[1].ExitTime)

	curve, err := ReadEquityCurve(written.EquityFilePath)
	suite.Require().NoError(err)
	suite.Require().Len(curve, 3)
	suite.Equal(1050.0, curve[1].Equity)
	suite.Equal(suite.start.Add(24*time.Hour).UnixMilli(), curve[1].Time)
}

func (suite *WriterTestSuite) TestWriteReportYAML() {
	path := filepath.Join(suite.tmpDir, "stats.yaml")
	suite.Require().NoError(WriteReport(path, suite.report()))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var decoded map[string]interface{}
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))
	suite.Equal("SPY", decoded["symbol"])
	suite.Equal(1097.9, decoded["final_balance"])
	// trades and the curve live in parquet
	suite.NotContains(decoded, "trades")
	suite.NotContains(decoded, "equity_curve")
}

func (suite *WriterTestSuite) TestWriteEmptyRun() {
	w := NewParquetWriter(suite.tmpDir)

	written, err := w.Write(types.Report{})
	suite.Require().NoError(err)
	suite.Contains(written.TradesFilePath, "run")

	trades, err := ReadTrades(written.TradesFilePath)
	suite.Require().NoError(err)
	suite.Empty(trades)
}

func (suite *WriterTestSuite) TestWriteSamplesParquet() {
	samples := mocks.FromCloses([]float64{100, 101, 102})
	path := filepath.Join(suite.tmpDir, "data", "bars.parquet")

	suite.Require().NoError(WriteSamples(path, samples))

	rows, err := parquet.ReadFile[SampleRecord](path)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)
	suite.Equal(samples[2], rows[2].Sample())
}

func (suite *WriterTestSuite) TestWriteSamplesCSV() {
	samples := mocks.FromCloses([]float64{100, 101.25})
	path := filepath.Join(suite.tmpDir, "bars.csv")

	suite.Require().NoError(WriteSamples(path, samples))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	suite.Require().Len(lines, 3)
	suite.Equal("time,symbol,open,high,low,close,volume", lines[0])
	suite.Equal("2024-01-03 00:00:00,TEST,101.25,101.25,101.25,101.25,1000", lines[2])
}

func (suite *WriterTestSuite) TestWriteSamplesUnsupported() {
	err := WriteSamples(filepath.Join(suite.tmpDir, "bars.json"), nil)
	suite.Error(err)
	suite.True(errors.IsInvalidInput(err))
}

func (suite *WriterTestSuite) TestReadMissingFile() {
	_, err := ReadTrades(filepath.Join(suite.tmpDir, "missing.parquet"))
	suite.Error(err)
	suite.Equal(errors.ErrCodeDataNotFound, errors.GetCode(err))
}
