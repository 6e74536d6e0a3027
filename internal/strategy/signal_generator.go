package strategy

import (
	"sort"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

type macdReadings interface {
	Line() (float64, error)
	Signal() (float64, error)
	Histogram() (float64, error)
}

type stochasticReadings interface {
	K() (float64, error)
	D() (float64, error)
}

type bandReadings interface {
	Bands() (indicator.Bands, error)
}

// SignalGenerator feeds samples to a set of named indicators and applies a rule
// to their readings. It holds the previous reading of crossing rules, so use one
// generator per series.
type SignalGenerator struct {
	rule       Rule
	names      []string
	indicators map[string]indicator.Indicator

	// previous difference for crossover and zero_cross, valid when hasPrev is set
	prev    float64
	hasPrev bool
}

// NewSignalGenerator creates a generator over already built indicators.
func NewSignalGenerator(rule Rule, indicators map[string]indicator.Indicator) (*SignalGenerator, error) {
	declared := make(map[string]types.IndicatorType, len(indicators))
	names := make([]string, 0, len(indicators))

	for name, ind := range indicators {
		if ind == nil {
			return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "indicator %s is nil", name)
		}

		declared[name] = ind.Name()
		names = append(names, name)
	}

	if err := rule.check(declared); err != nil {
		return nil, err
	}

	sort.Strings(names)

	return &SignalGenerator{
		rule:       rule,
		names:      names,
		indicators: indicators,
	}, nil
}

// Next feeds one sample to every indicator and returns the signal for it.
// The signal is Hold while any indicator the rule reads is warming up.
func (g *SignalGenerator) Next(sample types.Sample) (types.Signal, error) {
	for _, name := range g.names {
		if err := g.indicators[name].Update(sample); err != nil {
			return types.SignalHold, err
		}
	}

	switch g.rule.Kind {
	case RuleThreshold:
		return g.threshold()
	case RuleCrossover:
		return g.crossover()
	case RuleBand:
		return g.band(sample.Close)
	case RuleZeroCross:
		return g.zeroCross()
	default:
		return types.SignalHold, errors.Newf(errors.ErrCodeUnsupportedRule, "unsupported rule kind %q", g.rule.Kind)
	}
}

// Generate returns one signal per sample.
func (g *SignalGenerator) Generate(samples []types.Sample) ([]types.Signal, error) {
	if err := types.ValidateSeries(samples); err != nil {
		return nil, err
	}

	signals := make([]types.Signal, len(samples))

	for i, sample := range samples {
		signal, err := g.Next(sample)
		if err != nil {
			return nil, errors.Wrapf(errors.GetCode(err), err, "failed to generate signal at sample %d", i)
		}

		signals[i] = signal
	}

	return signals, nil
}

// Reset returns the generator and its indicators to their initial state.
func (g *SignalGenerator) Reset() {
	for _, name := range g.names {
		g.indicators[name].Reset()
	}

	g.prev = 0
	g.hasPrev = false
}

func (g *SignalGenerator) threshold() (types.Signal, error) {
	value, ready, err := g.read(g.rule.Indicator)
	if err != nil || !ready {
		return types.SignalHold, err
	}

	switch {
	case value < g.rule.Lower:
		return types.SignalBuy, nil
	case value > g.rule.Upper:
		return types.SignalSell, nil
	default:
		return types.SignalHold, nil
	}
}

func (g *SignalGenerator) crossover() (types.Signal, error) {
	fast, fastReady, err := g.read(g.rule.Fast)
	if err != nil {
		return types.SignalHold, err
	}

	slow, slowReady, err := g.read(g.rule.Slow)
	if err != nil {
		return types.SignalHold, err
	}

	if !fastReady || !slowReady {
		return types.SignalHold, nil
	}

	return g.cross(fast - slow), nil
}

func (g *SignalGenerator) zeroCross() (types.Signal, error) {
	value, ready, err := g.read(g.rule.Indicator)
	if err != nil || !ready {
		return types.SignalHold, err
	}

	return g.cross(value), nil
}

// cross compares diff with the previous one and reports a sign change.
func (g *SignalGenerator) cross(diff float64) types.Signal {
	prev, hasPrev := g.prev, g.hasPrev
	g.prev, g.hasPrev = diff, true

	switch {
	case !hasPrev:
		return types.SignalHold
	case prev <= 0 && diff > 0:
		return types.SignalBuy
	case prev >= 0 && diff < 0:
		return types.SignalSell
	default:
		return types.SignalHold
	}
}

func (g *SignalGenerator) band(price float64) (types.Signal, error) {
	bb, ok := g.indicators[g.rule.Indicator].(bandReadings)
	if !ok {
		return types.SignalHold, errors.Newf(errors.ErrCodeStrategyConfigError, "indicator %s has no bands", g.rule.Indicator)
	}

	bands, err := bb.Bands()
	if err != nil {
		if errors.IsInsufficientData(err) {
			return types.SignalHold, nil
		}

		return types.SignalHold, err
	}

	switch {
	case price < bands.Lower:
		return types.SignalBuy, nil
	case price > bands.Upper:
		return types.SignalSell, nil
	default:
		return types.SignalHold, nil
	}
}

// read returns the configured output of an indicator. ready is false while it warms up.
func (g *SignalGenerator) read(name string) (float64, bool, error) {
	ind := g.indicators[name]

	var (
		value float64
		err   error
	)

	switch g.rule.Output {
	case "", OutputValue:
		value, err = ind.Value()
	case OutputLine, OutputSignal, OutputHistogram:
		macd, ok := ind.(macdReadings)
		if !ok {
			return 0, false, errors.Newf(errors.ErrCodeStrategyConfigError, "indicator %s has no %q output", name, g.rule.Output)
		}

		switch g.rule.Output {
		case OutputLine:
			value, err = macd.Line()
		case OutputSignal:
			value, err = macd.Signal()
		default:
			value, err = macd.Histogram()
		}
	case OutputK, OutputD:
		stoch, ok := ind.(stochasticReadings)
		if !ok {
			return 0, false, errors.Newf(errors.ErrCodeStrategyConfigError, "indicator %s has no %q output", name, g.rule.Output)
		}

		if g.rule.Output == OutputK {
			value, err = stoch.K()
		} else {
			value, err = stoch.D()
		}
	default:
		return 0, false, errors.Newf(errors.ErrCodeStrategyConfigError, "unknown output %q", g.rule.Output)
	}

	if err != nil {
		if errors.IsInsufficientData(err) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return value, true, nil
}
