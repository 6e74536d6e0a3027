package indicator

import (
	"math/rand"
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SMATestSuite struct {
	suite.Suite
}

func TestSMASuite(t *testing.T) {
	suite.Run(t, new(SMATestSuite))
}

func (suite *SMATestSuite) TestNewSMAInvalidPeriod() {
	_, err := NewSMA(0)
	suite.True(errors.IsInvalidInput(err))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *SMATestSuite) TestName() {
	sma, err := NewSMA(3)
	suite.Require().NoError(err)
	suite.Equal(types.IndicatorTypeSMA, sma.Name())
	suite.Equal(3, sma.Warmup())
	suite.Equal(3, sma.Period())
}

func (suite *SMATestSuite) TestRollingMean() {
	sma, err := NewSMA(3)
	suite.Require().NoError(err)

	expected := []struct {
		ready bool
		value float64
	}{
		{ready: false},
		{ready: false},
		{ready: true, value: 102},
		{ready: true, value: 103},
		{ready: true, value: 104},
	}

	for i, price := range []float64{100, 102, 104, 103, 105} {
		suite.Require().NoError(sma.Update(closeBar(i, price)))
		suite.Equal(expected[i].ready, sma.Ready())

		value, err := sma.Value()
		if !expected[i].ready {
			suite.True(errors.IsInsufficientData(err))

			var insufficient *errors.InsufficientDataError
			suite.Require().True(errors.As(err, &insufficient))
			suite.Equal(3, insufficient.Required)
			suite.Equal(i+1, insufficient.Actual)

			continue
		}

		suite.NoError(err)
		suite.InDelta(expected[i].value, value, 1e-9)
	}
}

func (suite *SMATestSuite) TestMatchesArithmeticMean() {
	rng := rand.New(rand.NewSource(7))
	sma, err := NewSMA(10)
	suite.Require().NoError(err)

	prices := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		price := 50 + rng.Float64()*50
		prices = append(prices, price)
		suite.Require().NoError(sma.Push(price))

		if i < 9 {
			continue
		}

		sum := 0.0
		for _, p := range prices[i-9:] {
			sum += p
		}

		value, err := sma.Value()
		suite.NoError(err)
		suite.InDelta(sum/10, value, 1e-9)
	}
}

func (suite *SMATestSuite) TestInvalidSampleLeavesStateUntouched() {
	sma, err := NewSMA(2)
	suite.Require().NoError(err)

	suite.NoError(sma.Update(closeBar(0, 10)))

	bad := ohlcvBar(1, 9, 11, 10, 100)
	err = sma.Update(bad)
	suite.True(errors.IsInvalidInput(err))

	negative := ohlcvBar(1, 11, 9, 10, -1)
	err = sma.Update(negative)
	suite.True(errors.IsInvalidInput(err))

	suite.False(sma.Ready())
	suite.NoError(sma.Update(closeBar(1, 20)))

	value, err := sma.Value()
	suite.NoError(err)
	suite.Equal(15.0, value)
}

func (suite *SMATestSuite) TestPushRejectsNaN() {
	sma, err := NewSMA(2)
	suite.Require().NoError(err)

	nan := 0.0
	err = sma.Push(nan / nan)
	suite.True(errors.IsInvalidInput(err))
}

func (suite *SMATestSuite) TestReset() {
	sma, err := NewSMA(2)
	suite.Require().NoError(err)

	suite.NoError(sma.Push(1))
	suite.NoError(sma.Push(2))
	sma.Reset()
	suite.False(sma.Ready())
}
