package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestZeroValueIsHold() {
	var s Signal
	suite.Equal(SignalHold, s)
	suite.Equal("hold", s.String())
}

func (suite *SignalTestSuite) TestParseSignal() {
	tests := []struct {
		input   string
		want    Signal
		wantErr bool
	}{
		{input: "buy", want: SignalBuy},
		{input: "SELL", want: SignalSell},
		{input: " Hold ", want: SignalHold},
		{input: "", want: SignalHold},
		{input: "short", wantErr: true},
	}

	for _, tt := range tests {
		suite.Run(tt.input, func() {
			got, err := ParseSignal(tt.input)
			if tt.wantErr {
				suite.Error(err)

				return
			}

			suite.NoError(err)
			suite.Equal(tt.want, got)
		})
	}
}

func (suite *SignalTestSuite) TestYAMLRoundTrip() {
	var signals []Signal
	err := yaml.Unmarshal([]byte("[hold, buy, hold, sell]"), &signals)
	suite.NoError(err)
	suite.Equal([]Signal{SignalHold, SignalBuy, SignalHold, SignalSell}, signals)

	out, err := yaml.Marshal(signals)
	suite.NoError(err)
	suite.Equal("- hold\n- buy\n- hold\n- sell\n", string(out))

	err = yaml.Unmarshal([]byte("[wait]"), &signals)
	suite.Error(err)
}
