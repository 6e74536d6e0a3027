package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const rsiStrategy = `
name: rsi-mean-reversion
engine_version: "^1.0"
indicators:
  - name: rsi
    type: rsi
    params:
      period: 3
rule:
  kind: threshold
  indicator: rsi
  lower: 30
  upper: 70
`

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func (suite *StrategyTestSuite) validStrategy() Strategy {
	return Strategy{
		Name:          "sma-cross",
		EngineVersion: "1.0.0",
		Indicators: []IndicatorConfig{
			{Name: "fast", Type: types.IndicatorTypeSMA, Params: indicator.Params{Period: 2}},
			{Name: "slow", Type: types.IndicatorTypeSMA, Params: indicator.Params{Period: 4}},
		},
		Rule: Rule{Kind: RuleCrossover, Fast: "fast", Slow: "slow"},
	}
}

func (suite *StrategyTestSuite) TestParse() {
	s, err := Parse([]byte(rsiStrategy))
	suite.Require().NoError(err)

	suite.Equal("rsi-mean-reversion", s.Name)
	suite.Require().Len(s.Indicators, 1)
	suite.Equal(types.IndicatorTypeRSI, s.Indicators[0].Type)
	suite.Equal(3, s.Indicators[0].Params.Period)
	suite.Equal(RuleThreshold, s.Rule.Kind)
	suite.Equal(30.0, s.Rule.Lower)
	suite.Equal(70.0, s.Rule.Upper)
}

func (suite *StrategyTestSuite) TestLoad() {
	path := filepath.Join(suite.T().TempDir(), "strategy.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(rsiStrategy), 0644))

	s, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("rsi-mean-reversion", s.Name)

	_, err = Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
	suite.Equal(errors.ErrCodeStrategyConfigError, errors.GetCode(err))
}

func (suite *StrategyTestSuite) TestParseRejectsUnknownKeys() {
	_, err := Parse([]byte(rsiStrategy + "stop_loss: 0.1\n"))
	suite.Error(err)
	suite.Equal(errors.ErrCodeStrategyConfigError, errors.GetCode(err))
}

func (suite *StrategyTestSuite) TestGenerateSignalsRSI() {
	s, err := Parse([]byte(rsiStrategy))
	suite.Require().NoError(err)

	up := mocks.FromCloses([]float64{10, 11, 12, 13, 14})
	signals, err := s.GenerateSignals(up)
	suite.Require().NoError(err)
	// RSI(3) needs 4 samples; a window without losses reads 100
	suite.Equal([]types.Signal{types.SignalHold, types.SignalHold, types.SignalHold, types.SignalSell, types.SignalSell}, signals)

	down := mocks.FromCloses([]float64{14, 13, 12, 11, 10})
	signals, err = s.GenerateSignals(down)
	suite.Require().NoError(err)
	suite.Equal([]types.Signal{types.SignalHold, types.SignalHold, types.SignalHold, types.SignalBuy, types.SignalBuy}, signals)
}

func (suite *StrategyTestSuite) TestGenerateSignalsCrossover() {
	s := suite.validStrategy()
	suite.Require().NoError(s.Validate())

	closes := []float64{10, 10, 10, 10, 12, 14, 10, 6}
	signals, err := s.GenerateSignals(mocks.FromCloses(closes))
	suite.Require().NoError(err)
	suite.Len(signals, len(closes))

	// SMA(2) vs SMA(4): equal at bar 3, 11 vs 10.5 at bar 4, 8 vs 10.5 at bar 7
	suite.Equal(types.SignalBuy, signals[4])
	suite.Equal(types.SignalSell, signals[7])
	for _, i := range []int{0, 1, 2, 3, 5, 6} {
		suite.Equal(types.SignalHold, signals[i], "bar %d", i)
	}
}

func (suite *StrategyTestSuite) TestGenerateSignalsIsRepeatable() {
	s := suite.validStrategy()
	samples := mocks.NewDataGenerator(7).Generate(mocks.GeneratorConfig{
		Symbol:       "SPY",
		StartTime:    mocks.DefaultConfig().StartTime,
		Interval:     mocks.DefaultConfig().Interval,
		Count:        300,
		InitialPrice: 100,
		Volatility:   0.01,
		VolumeBase:   1000,
	})

	first, err := s.GenerateSignals(samples)
	suite.Require().NoError(err)

	second, err := s.GenerateSignals(samples)
	suite.Require().NoError(err)

	suite.Equal(first, second)
}

func (suite *StrategyTestSuite) TestValidate() {
	tests := []struct {
		name   string
		modify func(s *Strategy)
		code   errors.ErrorCode
	}{
		{name: "missing name", modify: func(s *Strategy) { s.Name = "" }, code: errors.ErrCodeStrategyConfigError},
		{name: "missing engine version", modify: func(s *Strategy) { s.EngineVersion = "" }, code: errors.ErrCodeStrategyConfigError},
		{name: "no indicators", modify: func(s *Strategy) { s.Indicators = nil }, code: errors.ErrCodeStrategyConfigError},
		{name: "indicator without type", modify: func(s *Strategy) { s.Indicators[0].Type = "" }, code: errors.ErrCodeStrategyConfigError},
		{name: "duplicate indicator name", modify: func(s *Strategy) { s.Indicators[1].Name = "fast" }, code: errors.ErrCodeStrategyConfigError},
		{name: "missing rule kind", modify: func(s *Strategy) { s.Rule.Kind = "" }, code: errors.ErrCodeStrategyConfigError},
		{name: "unsupported rule", modify: func(s *Strategy) { s.Rule.Kind = "pairs" }, code: errors.ErrCodeUnsupportedRule},
		{name: "bad output", modify: func(s *Strategy) { s.Rule.Output = "upper" }, code: errors.ErrCodeStrategyConfigError},
		{name: "newer major engine", modify: func(s *Strategy) { s.EngineVersion = "2.0.0" }, code: errors.ErrCodeVersionMismatch},
		{name: "unsatisfied constraint", modify: func(s *Strategy) { s.EngineVersion = ">= 1.5" }, code: errors.ErrCodeVersionMismatch},
		{name: "garbage version", modify: func(s *Strategy) { s.EngineVersion = "not-a-version" }, code: errors.ErrCodeInvalidVersion},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			s := suite.validStrategy()
			tt.modify(&s)

			err := s.Validate()
			suite.Error(err)
			suite.Equal(tt.code, errors.GetCode(err))
		})
	}
}

func (suite *StrategyTestSuite) TestUnknownIndicatorType() {
	s := suite.validStrategy()
	s.Indicators[0].Type = "ichimoku"

	_, err := s.NewSignalGenerator(indicator.NewDefaultRegistry())
	suite.Error(err)
	suite.Equal(errors.ErrCodeIndicatorNotFound, errors.GetCode(err))
}

func (suite *StrategyTestSuite) TestInvalidIndicatorParams() {
	s := suite.validStrategy()
	s.Indicators[0].Params.Period = 0

	_, err := s.GenerateSignals(mocks.FromCloses([]float64{1, 2, 3}))
	suite.Error(err)
	suite.True(errors.IsInvalidInput(err))
}

func (suite *StrategyTestSuite) TestGenerateSchemaJSON() {
	schema, err := GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schema, "engine_version")
	suite.Contains(schema, "zero_cross")
}
