package forecast

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SmoothingTestSuite struct {
	suite.Suite
}

func TestSmoothingSuite(t *testing.T) {
	suite.Run(t, new(SmoothingTestSuite))
}

func (suite *SmoothingTestSuite) TestAlphaOutOfRange() {
	for _, alpha := range []float64{0, 1, -0.1, 1.5} {
		_, err := NewExponentialSmoothing(alpha)
		suite.True(errors.IsInvalidInput(err), "alpha %v", alpha)
	}

	_, err := NewDoubleExponentialSmoothing(0.5, 1)
	suite.True(errors.IsInvalidInput(err))

	_, err = NewDoubleExponentialSmoothing(0, 0.5)
	suite.True(errors.IsInvalidInput(err))
}

func (suite *SmoothingTestSuite) TestSingle() {
	ses, err := NewExponentialSmoothing(0.5)
	suite.Require().NoError(err)

	_, err = ses.Forecast(1)
	suite.True(errors.IsInsufficientData(err))

	suite.NoError(ses.Update(10))

	level, err := ses.Level()
	suite.NoError(err)
	suite.Equal(10.0, level)

	suite.NoError(ses.Update(20))
	suite.NoError(ses.Update(30))

	for _, h := range []int{0, 1, 10} {
		f, err := ses.Forecast(h)
		suite.NoError(err)
		suite.InDelta(22.5, f, 1e-12)
	}

	_, err = ses.Forecast(-1)
	suite.True(errors.IsInvalidInput(err))

	ses.Reset()
	suite.False(ses.Ready())
}

func (suite *SmoothingTestSuite) TestHolt() {
	holt, err := NewDoubleExponentialSmoothing(0.5, 0.5)
	suite.Require().NoError(err)

	_, err = holt.Trend()
	suite.True(errors.IsInsufficientData(err))

	suite.NoError(holt.Update(10))

	trend, err := holt.Trend()
	suite.NoError(err)
	suite.Equal(0.0, trend)

	suite.NoError(holt.Update(20))

	level, _ := holt.Level()
	trend, _ = holt.Trend()
	suite.InDelta(15.0, level, 1e-12)
	suite.InDelta(2.5, trend, 1e-12)

	f, err := holt.Forecast(2)
	suite.NoError(err)
	suite.InDelta(20.0, f, 1e-12)

	suite.NoError(holt.Update(30))

	level, _ = holt.Level()
	trend, _ = holt.Trend()
	suite.InDelta(23.75, level, 1e-12)
	suite.InDelta(5.625, trend, 1e-12)

	err = holt.Update(nan())
	suite.True(errors.IsInvalidInput(err))

	level, _ = holt.Level()
	suite.InDelta(23.75, level, 1e-12)
}

func nan() float64 {
	zero := 0.0

	return zero / zero
}
