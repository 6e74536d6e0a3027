package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestNewRSIInvalidPeriod() {
	_, err := NewRSI(0)
	suite.True(errors.IsInvalidInput(err))
}

func (suite *RSITestSuite) TestAllGainsReadsHundred() {
	rsi, err := NewRSI(2)
	suite.Require().NoError(err)
	suite.Equal(3, rsi.Warmup())

	for i, p := range []float64{10, 10.5} {
		suite.NoError(rsi.Update(closeBar(i, p)))
		_, err := rsi.Value()
		suite.True(errors.IsInsufficientData(err))
	}

	suite.NoError(rsi.Update(closeBar(2, 11)))

	value, err := rsi.Value()
	suite.NoError(err)
	suite.Equal(100.0, value)
}

func (suite *RSITestSuite) TestWilderSmoothing() {
	rsi, err := NewRSI(2)
	suite.Require().NoError(err)

	for _, p := range []float64{10, 11, 10} {
		suite.NoError(rsi.Push(p))
	}

	value, err := rsi.Value()
	suite.NoError(err)
	suite.InDelta(50.0, value, 1e-9)

	// avg gain (0.5*1 + 2)/2 = 1.25, avg loss (0.5*1 + 0)/2 = 0.25
	suite.NoError(rsi.Push(12))

	value, err = rsi.Value()
	suite.NoError(err)
	suite.InDelta(100-100/6.0, value, 1e-9)
}

func (suite *RSITestSuite) TestBounded() {
	rsi, err := NewRSI(14)
	suite.Require().NoError(err)

	for _, s := range mocks.Generate10K("TEST")[:2000] {
		suite.Require().NoError(rsi.Update(s))

		if !rsi.Ready() {
			continue
		}

		value, err := rsi.Value()
		suite.Require().NoError(err)
		suite.GreaterOrEqual(value, 0.0)
		suite.LessOrEqual(value, 100.0)
	}
}
