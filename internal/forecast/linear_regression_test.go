package forecast

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LinearRegressionTestSuite struct {
	suite.Suite
}

func TestLinearRegressionSuite(t *testing.T) {
	suite.Run(t, new(LinearRegressionTestSuite))
}

func (suite *LinearRegressionTestSuite) TestPeriodTooSmall() {
	_, err := NewLinearRegression(1)
	suite.True(errors.IsInvalidInput(err))
}

func (suite *LinearRegressionTestSuite) TestNeedsTwoPoints() {
	lr, err := NewLinearRegression(3)
	suite.Require().NoError(err)

	suite.NoError(lr.Update(1))
	suite.False(lr.Ready())

	_, err = lr.Slope()
	suite.True(errors.IsInsufficientData(err))

	_, err = lr.Forecast(1)
	suite.True(errors.IsInsufficientData(err))
}

func (suite *LinearRegressionTestSuite) TestPerfectLine() {
	lr, err := NewLinearRegression(3)
	suite.Require().NoError(err)

	for _, v := range []float64{1, 3, 5} {
		suite.NoError(lr.Update(v))
	}

	fit, err := lr.Fit()
	suite.NoError(err)
	suite.InDelta(2.0, fit.Slope, 1e-12)
	suite.InDelta(1.0, fit.Intercept, 1e-12)
	suite.Equal(3, fit.Points)

	r2, err := lr.RSquared()
	suite.NoError(err)
	suite.InDelta(1.0, r2, 1e-12)

	f, err := lr.Forecast(1)
	suite.NoError(err)
	suite.InDelta(7.0, f, 1e-12)

	// the window slides to 3, 5, 7
	suite.NoError(lr.Update(7))

	intercept, err := lr.Intercept()
	suite.NoError(err)
	suite.InDelta(3.0, intercept, 1e-12)

	f, err = lr.Forecast(1)
	suite.NoError(err)
	suite.InDelta(9.0, f, 1e-12)
}

func (suite *LinearRegressionTestSuite) TestRSquared() {
	lr, err := NewLinearRegression(4)
	suite.Require().NoError(err)

	for _, v := range []float64{1, 2, 1, 2} {
		suite.NoError(lr.Update(v))
	}

	slope, err := lr.Slope()
	suite.NoError(err)
	suite.InDelta(0.2, slope, 1e-12)

	r2, err := lr.RSquared()
	suite.NoError(err)
	suite.InDelta(0.2, r2, 1e-12)
}

func (suite *LinearRegressionTestSuite) TestFlatSeries() {
	lr, err := NewLinearRegression(3)
	suite.Require().NoError(err)

	for i := 0; i < 3; i++ {
		suite.NoError(lr.Update(5))
	}

	slope, err := lr.Slope()
	suite.NoError(err)
	suite.InDelta(0.0, slope, 1e-12)

	_, err = lr.RSquared()
	suite.True(errors.IsCalculationError(err))

	lr.Reset()
	suite.False(lr.Ready())
}
