package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestInvalidParameters() {
	_, err := NewBollingerBands(0, 2)
	suite.True(errors.IsInvalidInput(err))

	_, err = NewBollingerBands(20, 0)
	suite.True(errors.IsInvalidInput(err))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidMultiplier))

	_, err = NewBollingerBands(20, math.Inf(1))
	suite.True(errors.IsInvalidInput(err))
}

func (suite *BollingerBandsTestSuite) TestBands() {
	bb, err := NewBollingerBands(4, 2)
	suite.Require().NoError(err)

	for i, p := range []float64{2, 4, 4} {
		suite.NoError(bb.Update(closeBar(i, p)))
	}

	_, err = bb.Bands()
	suite.True(errors.IsInsufficientData(err))

	suite.NoError(bb.Push(4))

	bands, err := bb.Bands()
	suite.NoError(err)

	std := math.Sqrt(0.75)
	suite.InDelta(3.5, bands.Middle, 1e-12)
	suite.InDelta(3.5+2*std, bands.Upper, 1e-12)
	suite.InDelta(3.5-2*std, bands.Lower, 1e-12)

	middle, err := bb.Value()
	suite.NoError(err)
	suite.Equal(bands.Middle, middle)

	percentB, err := bb.PercentB(3.5)
	suite.NoError(err)
	suite.InDelta(0.5, percentB, 1e-12)

	percentB, err = bb.PercentB(bands.Upper)
	suite.NoError(err)
	suite.InDelta(1.0, percentB, 1e-12)

	width, err := bb.BandWidth()
	suite.NoError(err)
	suite.InDelta(4*std/3.5*100, width, 1e-9)
}

func (suite *BollingerBandsTestSuite) TestFlatWindowPercentBIsCalculationError() {
	bb, err := NewBollingerBands(4, 2)
	suite.Require().NoError(err)

	for i := 0; i < 4; i++ {
		suite.NoError(bb.Push(5))
	}

	bands, err := bb.Bands()
	suite.NoError(err)
	suite.Equal(bands.Upper, bands.Lower)

	_, err = bb.PercentB(5)
	suite.True(errors.IsCalculationError(err))
}

func (suite *BollingerBandsTestSuite) TestBandOrdering() {
	bb, err := NewBollingerBands(20, 2)
	suite.Require().NoError(err)

	for _, s := range mocks.Generate10K("TEST")[:500] {
		suite.Require().NoError(bb.Update(s))

		if !bb.Ready() {
			continue
		}

		bands, err := bb.Bands()
		suite.Require().NoError(err)
		suite.GreaterOrEqual(bands.Upper, bands.Middle)
		suite.GreaterOrEqual(bands.Middle, bands.Lower)
	}
}
