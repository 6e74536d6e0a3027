package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SampleTestSuite struct {
	suite.Suite
}

func TestSampleSuite(t *testing.T) {
	suite.Run(t, new(SampleTestSuite))
}

func (suite *SampleTestSuite) bar(minute int, low, high, volume float64) Sample {
	return Sample{
		Symbol: "SPY",
		Time:   time.Date(2024, 3, 4, 9, 30+minute, 0, 0, time.UTC),
		Open:   low,
		High:   high,
		Low:    low,
		Close:  high,
		Volume: volume,
	}
}

func (suite *SampleTestSuite) TestValidate() {
	tests := []struct {
		name    string
		sample  Sample
		wantErr bool
	}{
		{name: "valid", sample: suite.bar(0, 99, 101, 1000)},
		{name: "flat bar", sample: suite.bar(0, 100, 100, 0)},
		{name: "negative volume", sample: suite.bar(0, 99, 101, -1), wantErr: true},
		{name: "low above high", sample: suite.bar(0, 102, 101, 10), wantErr: true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.sample.Validate()
			if tt.wantErr {
				suite.Error(err)
				suite.True(errors.IsInvalidInput(err))

				return
			}

			suite.NoError(err)
		})
	}
}

func (suite *SampleTestSuite) TestTypicalPrice() {
	s := Sample{High: 12, Low: 6, Close: 9}
	suite.InDelta(9.0, s.TypicalPrice(), 1e-12)
}

func (suite *SampleTestSuite) TestValidateSeries() {
	series := []Sample{suite.bar(0, 99, 101, 10), suite.bar(1, 100, 102, 10), suite.bar(2, 101, 103, 10)}
	suite.NoError(ValidateSeries(series))
	suite.NoError(ValidateSeries(nil))

	duplicate := []Sample{suite.bar(0, 99, 101, 10), suite.bar(0, 100, 102, 10)}
	err := ValidateSeries(duplicate)
	suite.Error(err)
	suite.True(errors.IsInvalidData(err))

	badBar := []Sample{suite.bar(0, 99, 101, 10), suite.bar(1, 100, 102, -5)}
	err = ValidateSeries(badBar)
	suite.True(errors.IsInvalidData(err))
}

func (suite *SampleTestSuite) TestCloses() {
	series := []Sample{{Close: 1}, {Close: 2}, {Close: 3}}
	suite.Equal([]float64{1, 2, 3}, Closes(series))
}
