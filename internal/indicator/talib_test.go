package indicator_test

import (
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/stretchr/testify/suite"
)

// TALibTestSuite checks the streaming indicators against the batch TA-Lib port.
type TALibTestSuite struct {
	suite.Suite
	samples []types.Sample
	closes  []float64
}

func TestTALibSuite(t *testing.T) {
	suite.Run(t, new(TALibTestSuite))
}

func (suite *TALibTestSuite) SetupSuite() {
	gen := mocks.NewDataGenerator(2024)
	config := mocks.DefaultConfig()
	config.Count = 600
	config.Volatility = 0.01

	suite.samples = gen.Generate(config)
	suite.closes = types.Closes(suite.samples)
}

func (suite *TALibTestSuite) stream(ind indicator.Indicator) []float64 {
	values := make([]float64, len(suite.samples))

	for i, s := range suite.samples {
		suite.Require().NoError(ind.Update(s))

		if ind.Ready() {
			v, err := ind.Value()
			suite.Require().NoError(err)

			values[i] = v
		}
	}

	return values
}

func (suite *TALibTestSuite) TestSMA() {
	for _, period := range []int{3, 10, 50} {
		sma, err := indicator.NewSMA(period)
		suite.Require().NoError(err)

		got := suite.stream(sma)
		want := talib.Sma(suite.closes, period)

		for i := period - 1; i < len(want); i++ {
			suite.InDelta(want[i], got[i], 1e-8, "sma(%d) at %d", period, i)
		}
	}
}

func (suite *TALibTestSuite) TestEMA() {
	for _, period := range []int{5, 12, 26} {
		ema, err := indicator.NewEMA(period)
		suite.Require().NoError(err)

		got := suite.stream(ema)
		want := talib.Ema(suite.closes, period)

		for i := period - 1; i < len(want); i++ {
			suite.InDelta(want[i], got[i], 1e-8, "ema(%d) at %d", period, i)
		}
	}
}

func (suite *TALibTestSuite) TestRSI() {
	for _, period := range []int{2, 14} {
		rsi, err := indicator.NewRSI(period)
		suite.Require().NoError(err)

		got := suite.stream(rsi)
		want := talib.Rsi(suite.closes, period)

		for i := period; i < len(want); i++ {
			suite.InDelta(want[i], got[i], 1e-6, "rsi(%d) at %d", period, i)
		}
	}
}

func (suite *TALibTestSuite) TestBollingerBands() {
	const period = 20

	bb, err := indicator.NewBollingerBands(period, 2)
	suite.Require().NoError(err)

	upper, middle, lower := talib.BBands(suite.closes, period, 2.0, 2.0, 0)

	for i, s := range suite.samples {
		suite.Require().NoError(bb.Update(s))

		if i < period-1 {
			suite.False(bb.Ready())

			continue
		}

		bands, err := bb.Bands()
		suite.Require().NoError(err)
		suite.InDelta(upper[i], bands.Upper, 1e-6, "upper at %d", i)
		suite.InDelta(middle[i], bands.Middle, 1e-6, "middle at %d", i)
		suite.InDelta(lower[i], bands.Lower, 1e-6, "lower at %d", i)
	}
}

func (suite *TALibTestSuite) TestDeterministic() {
	run := func() []float64 {
		macd, err := indicator.NewMACD(12, 26, 9)
		suite.Require().NoError(err)

		return suite.stream(macd)
	}

	suite.Equal(run(), run())
}
