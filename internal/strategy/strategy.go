// Package strategy turns indicator readings into buy, sell and hold signals.
//
// A Strategy is declared in YAML: a set of named indicators and one Rule
// reading them. For example an RSI mean reversion strategy:
//
//	name: rsi-mean-reversion
//	engine_version: "^1.0"
//	indicators:
//	  - name: rsi
//	    type: rsi
//	    params:
//	      period: 14
//	rule:
//	  kind: threshold
//	  indicator: rsi
//	  lower: 30
//	  upper: 70
package strategy

import (
	"bytes"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/internal/version"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// IndicatorConfig declares one indicator of a strategy.
type IndicatorConfig struct {
	Name   string              `yaml:"name" json:"name" jsonschema:"title=Name,description=Name the rule uses to reference the indicator" validate:"required"`
	Type   types.IndicatorType `yaml:"type" json:"type" jsonschema:"title=Type,description=Indicator type such as sma or rsi" validate:"required"`
	Params indicator.Params    `yaml:"params" json:"params" jsonschema:"title=Params,description=Indicator parameters"`
}

// Strategy is a declarative signal strategy.
type Strategy struct {
	Name string `yaml:"name" json:"name" jsonschema:"title=Name,description=Strategy name used in reports" validate:"required"`
	// EngineVersion is the engine version the strategy was written for, or a semver constraint.
	EngineVersion string            `yaml:"engine_version" json:"engine_version" jsonschema:"title=Engine Version,description=Engine version or semver constraint,example=^1.0" validate:"required"`
	Indicators    []IndicatorConfig `yaml:"indicators" json:"indicators" jsonschema:"title=Indicators,minItems=1" validate:"required,min=1,dive"`
	Rule          Rule              `yaml:"rule" json:"rule" jsonschema:"title=Rule"`
}

// Load reads and validates a strategy file.
func Load(path string) (Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Strategy{}, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to read strategy file %s", path)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML strategy. Unknown keys are rejected.
func Parse(data []byte) (Strategy, error) {
	var s Strategy

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&s); err != nil {
		return Strategy{}, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy", err)
	}

	if err := s.Validate(); err != nil {
		return Strategy{}, err
	}

	return s, nil
}

// Validate checks the declaration, the rule and the engine version.
func (s Strategy) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy", err)
	}

	declared := make(map[string]types.IndicatorType, len(s.Indicators))

	for _, ic := range s.Indicators {
		if _, exists := declared[ic.Name]; exists {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "indicator name %s is declared twice", ic.Name)
		}

		declared[ic.Name] = ic.Type
	}

	if err := s.Rule.check(declared); err != nil {
		return err
	}

	return version.CheckVersionCompatibility(version.GetVersion(), s.EngineVersion)
}

// NewSignalGenerator builds fresh indicators from the registry and returns a generator over them.
func (s Strategy) NewSignalGenerator(registry indicator.IndicatorRegistry) (*SignalGenerator, error) {
	indicators := make(map[string]indicator.Indicator, len(s.Indicators))

	for _, ic := range s.Indicators {
		ind, err := registry.Create(ic.Type, ic.Params)
		if err != nil {
			return nil, errors.Wrapf(errors.GetCode(err), err, "failed to create indicator %s", ic.Name)
		}

		indicators[ic.Name] = ind
	}

	return NewSignalGenerator(s.Rule, indicators)
}

// GenerateSignals returns one signal per sample using the built-in indicators.
func (s Strategy) GenerateSignals(samples []types.Sample) ([]types.Signal, error) {
	generator, err := s.NewSignalGenerator(indicator.NewDefaultRegistry())
	if err != nil {
		return nil, err
	}

	return generator.Generate(samples)
}
