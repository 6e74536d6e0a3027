package mocks

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

type DataGeneratorTestSuite struct {
	suite.Suite
}

func TestDataGeneratorSuite(t *testing.T) {
	suite.Run(t, new(DataGeneratorTestSuite))
}

func (suite *DataGeneratorTestSuite) TestGenerateProducesValidSeries() {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 500

	data := gen.Generate(config)
	suite.Len(data, 500)
	suite.NoError(types.ValidateSeries(data))

	for i, d := range data {
		suite.Equal(config.Symbol, d.Symbol)
		suite.Positive(d.Low, "low at %d", i)
		suite.GreaterOrEqual(d.High, d.Low)

		if i > 0 {
			suite.Equal(config.Interval, d.Time.Sub(data[i-1].Time))
		}
	}
}

func (suite *DataGeneratorTestSuite) TestReproducibility() {
	config := DefaultConfig()
	config.Count = 10

	suite.Equal(NewDataGenerator(42).Generate(config), NewDataGenerator(42).Generate(config))
	suite.NotEqual(NewDataGenerator(42).Generate(config), NewDataGenerator(123).Generate(config))
}

func (suite *DataGeneratorTestSuite) TestGenerate10K() {
	data := Generate10K("SPY")
	suite.Len(data, 10000)
	suite.Equal("SPY", data[0].Symbol)
	suite.True(data[1].Time.After(data[0].Time))
}

func (suite *DataGeneratorTestSuite) TestGenerateMultiSymbol() {
	symbols := []string{"AAPL", "GOOG", "MSFT"}
	config := DefaultConfig()
	config.Count = 100

	data := NewDataGenerator(42).GenerateMultiSymbol(symbols, config)
	suite.Len(data, len(symbols)*config.Count)

	counts := make(map[string]int)
	for _, d := range data {
		counts[d.Symbol]++
	}

	for _, symbol := range symbols {
		suite.Equal(config.Count, counts[symbol])
	}
}

func (suite *DataGeneratorTestSuite) TestFromCloses() {
	samples := FromCloses([]float64{100, 102, 101})
	suite.Len(samples, 3)
	suite.NoError(types.ValidateSeries(samples))
	suite.Equal(102.0, samples[1].Open)
	suite.Equal(102.0, samples[1].Close)
	suite.Equal(24*time.Hour, samples[1].Time.Sub(samples[0].Time))
}

func (suite *DataGeneratorTestSuite) TestDefaultConfig() {
	config := DefaultConfig()
	suite.Equal(10000, config.Count)
	suite.Equal("TEST", config.Symbol)
	suite.Equal(time.Minute, config.Interval)
	suite.Equal(100.0, config.InitialPrice)
}

func (suite *DataGeneratorTestSuite) TestBarsStayWithinConfiguredBounds() {
	config := DefaultConfig()
	config.Count = 1000
	config.Volatility = 0.01

	data := NewDataGenerator(7).Generate(config)

	for i, d := range data {
		reach := config.Volatility*d.Open*0.5 + 2e-4
		suite.LessOrEqual(d.High-math.Max(d.Open, d.Close), reach, "high at %d", i)
		suite.LessOrEqual(math.Min(d.Open, d.Close)-d.Low, reach, "low at %d", i)

		suite.GreaterOrEqual(d.Volume, config.VolumeBase*(1-config.VolumeVariance)-0.01)
		suite.LessOrEqual(d.Volume, config.VolumeBase*(1+config.VolumeVariance)+0.01)

		if i > 0 {
			suite.InDelta(data[i-1].Close, d.Open, 1e-4, "open at %d", i)
		}
	}
}
