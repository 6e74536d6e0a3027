package strategy

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// RuleKind selects how indicator readings turn into signals.
type RuleKind string

const (
	// RuleThreshold buys below Lower and sells above Upper.
	RuleThreshold RuleKind = "threshold"
	// RuleCrossover buys when Fast crosses above Slow and sells when it crosses below.
	RuleCrossover RuleKind = "crossover"
	// RuleBand buys when the close is below the lower band and sells above the upper band.
	RuleBand RuleKind = "band"
	// RuleZeroCross buys when the reading crosses above zero and sells when it crosses below.
	RuleZeroCross RuleKind = "zero_cross"
)

// AllRuleKinds lists every supported rule kind.
var AllRuleKinds = []RuleKind{
	RuleThreshold,
	RuleCrossover,
	RuleBand,
	RuleZeroCross,
}

// Output picks one of the readings of a multi-output indicator.
type Output string

const (
	// OutputValue is the primary Value of any indicator.
	OutputValue Output = "value"
	// OutputLine is the MACD line.
	OutputLine Output = "line"
	// OutputSignal is the MACD signal line.
	OutputSignal Output = "signal"
	// OutputHistogram is the MACD histogram.
	OutputHistogram Output = "histogram"
	// OutputK is the stochastic %K.
	OutputK Output = "k"
	// OutputD is the stochastic %D.
	OutputD Output = "d"
)

// Rule is the signal rule of a strategy. Which fields are read depends on Kind.
type Rule struct {
	Kind RuleKind `yaml:"kind" json:"kind" jsonschema:"title=Kind,enum=threshold,enum=crossover,enum=band,enum=zero_cross" validate:"required"`
	// Indicator names the indicator read by threshold, band and zero_cross rules.
	Indicator string `yaml:"indicator,omitempty" json:"indicator,omitempty" jsonschema:"title=Indicator,description=Indicator read by threshold band and zero_cross rules"`
	Output    Output `yaml:"output,omitempty" json:"output,omitempty" jsonschema:"title=Output,description=Reading of a multi-output indicator,enum=value,enum=line,enum=signal,enum=histogram,enum=k,enum=d" validate:"omitempty,oneof=value line signal histogram k d"`
	// Fast and Slow name the two indicators compared by a crossover rule.
	Fast  string  `yaml:"fast,omitempty" json:"fast,omitempty" jsonschema:"title=Fast,description=Fast indicator of a crossover rule"`
	Slow  string  `yaml:"slow,omitempty" json:"slow,omitempty" jsonschema:"title=Slow,description=Slow indicator of a crossover rule"`
	Lower float64 `yaml:"lower,omitempty" json:"lower,omitempty" jsonschema:"title=Lower,description=Buy below this value in a threshold rule"`
	Upper float64 `yaml:"upper,omitempty" json:"upper,omitempty" jsonschema:"title=Upper,description=Sell above this value in a threshold rule"`
}

// check verifies the rule against the declared indicators.
func (r Rule) check(declared map[string]types.IndicatorType) error {
	switch r.Kind {
	case RuleThreshold:
		if err := r.checkReference("indicator", r.Indicator, declared); err != nil {
			return err
		}

		if r.Lower >= r.Upper {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "threshold rule needs lower < upper, got lower=%v upper=%v", r.Lower, r.Upper)
		}
	case RuleCrossover:
		if err := r.checkReference("fast", r.Fast, declared); err != nil {
			return err
		}

		if err := r.checkReference("slow", r.Slow, declared); err != nil {
			return err
		}

		if r.Fast == r.Slow {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "crossover rule compares %s with itself", r.Fast)
		}
	case RuleBand:
		if err := r.checkReference("indicator", r.Indicator, declared); err != nil {
			return err
		}

		if declared[r.Indicator] != types.IndicatorTypeBollingerBands {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "band rule needs a %s indicator, %s is %s",
				types.IndicatorTypeBollingerBands, r.Indicator, declared[r.Indicator])
		}
	case RuleZeroCross:
		if err := r.checkReference("indicator", r.Indicator, declared); err != nil {
			return err
		}
	default:
		return errors.Newf(errors.ErrCodeUnsupportedRule, "unsupported rule kind %q", r.Kind)
	}

	return nil
}

func (r Rule) checkReference(field, name string, declared map[string]types.IndicatorType) error {
	if name == "" {
		return errors.Newf(errors.ErrCodeMissingParameter, "%s rule requires %s", r.Kind, field)
	}

	indicatorType, ok := declared[name]
	if !ok {
		return errors.Newf(errors.ErrCodeStrategyConfigError, "%s rule references unknown indicator %s", r.Kind, name)
	}

	return checkOutput(r.Output, indicatorType)
}

// checkOutput rejects readings the indicator type does not have.
func checkOutput(output Output, indicatorType types.IndicatorType) error {
	switch output {
	case "", OutputValue:
		return nil
	case OutputLine, OutputSignal, OutputHistogram:
		if indicatorType == types.IndicatorTypeMACD {
			return nil
		}
	case OutputK, OutputD:
		if indicatorType == types.IndicatorTypeStochastic {
			return nil
		}
	}

	return errors.Newf(errors.ErrCodeStrategyConfigError, "%s has no %q output", indicatorType, output)
}
