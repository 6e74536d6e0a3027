package forecast

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type AccuracyTestSuite struct {
	suite.Suite
}

func TestAccuracySuite(t *testing.T) {
	suite.Run(t, new(AccuracyTestSuite))
}

func (suite *AccuracyTestSuite) TestMeasureAccuracy() {
	acc, err := MeasureAccuracy([]float64{1, 2, 3}, []float64{2, 2, 2})
	suite.Require().NoError(err)

	suite.InDelta(2.0/3.0, acc.MAE, 1e-12)
	suite.InDelta(2.0/3.0, acc.MSE, 1e-12)
	suite.InDelta(math.Sqrt(2.0/3.0), acc.RMSE, 1e-12)
	suite.InDelta(100.0/3.0, acc.MAPE, 1e-9)
	suite.InDelta((200.0/3.0+40)/3, acc.SMAPE, 1e-9)
	suite.InDelta(0.5, acc.DirectionAccuracy, 1e-12)
}

func (suite *AccuracyTestSuite) TestMismatchedLengths() {
	_, err := MeasureAccuracy([]float64{1}, []float64{1, 2})
	suite.True(errors.IsInvalidData(err))

	_, err = MeasureAccuracy(nil, nil)
	suite.True(errors.IsInvalidData(err))
}

func (suite *AccuracyTestSuite) TestBacktestPerfectTrend() {
	lr, err := NewLinearRegression(2)
	suite.Require().NoError(err)

	acc, err := Backtest(lr, []float64{1, 2, 3, 4, 5}, 1)
	suite.Require().NoError(err)
	suite.InDelta(0.0, acc.MAE, 1e-12)
	suite.Equal(1.0, acc.DirectionAccuracy)
}

func (suite *AccuracyTestSuite) TestBacktestErrors() {
	ses, err := NewExponentialSmoothing(0.3)
	suite.Require().NoError(err)

	_, err = Backtest(ses, []float64{1, 2, 3}, 0)
	suite.True(errors.IsInvalidInput(err))

	_, err = Backtest(ses, []float64{1}, 1)
	suite.True(errors.IsInsufficientData(err))
}
