package forecast

import (
	"math"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Persistence used by variance targeting, typical of daily equity returns.
const (
	targetAlpha = 0.15
	targetBeta  = 0.8
)

// GARCHParams are the coefficients of sigma²(t+1) = omega + alpha·r(t)² + beta·sigma²(t).
type GARCHParams struct {
	Omega float64 `yaml:"omega" json:"omega"`
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
}

// Validate requires omega > 0, non-negative alpha and beta, and alpha+beta < 1.
func (p GARCHParams) Validate() error {
	for _, v := range []float64{p.Omega, p.Alpha, p.Beta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidInput, "non-finite garch parameter %v", v)
		}
	}

	if p.Omega <= 0 {
		return errors.Newf(errors.ErrCodeInvalidInput, "garch omega must be positive, got %v", p.Omega)
	}

	if p.Alpha < 0 || p.Beta < 0 {
		return errors.Newf(errors.ErrCodeInvalidInput, "garch alpha and beta must not be negative, got %v and %v", p.Alpha, p.Beta)
	}

	if p.Alpha+p.Beta >= 1 {
		return errors.Newf(errors.ErrCodeInvalidInput, "garch alpha+beta must be below 1, got %v", p.Alpha+p.Beta)
	}

	return nil
}

// LongRunVariance is omega/(1-alpha-beta).
func (p GARCHParams) LongRunVariance() float64 {
	return p.Omega / (1 - p.Alpha - p.Beta)
}

// VarianceTargetedParams fixes alpha and beta at 0.15 and 0.8 and picks
// omega so the long run variance equals the population variance of returns.
func VarianceTargetedParams(returns []float64) (GARCHParams, error) {
	if len(returns) < 2 {
		return GARCHParams{}, errors.NewInsufficientDataErrorf(2, len(returns), "", "variance targeting needs 2 returns, has %d", len(returns))
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns))

	if variance <= 0 {
		return GARCHParams{}, errors.New(errors.ErrCodeCalculation, "variance targeting is undefined for constant returns")
	}

	return GARCHParams{
		Omega: (1 - targetAlpha - targetBeta) * variance,
		Alpha: targetAlpha,
		Beta:  targetBeta,
	}, nil
}

// GARCH is a GARCH(1,1) volatility model fed with prices.
//
// Each price after the first yields a simple return. The first return seeds
// the conditional variance with its square. Forecast returns the volatility
// (standard deviation of the return) expected horizon steps ahead.
type GARCH struct {
	params    GARCHParams
	prevPrice float64
	returns   int
	// conditional variance of the next return
	next float64
}

// NewGARCH creates a GARCH(1,1) model.
func NewGARCH(params GARCHParams) (*GARCH, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &GARCH{params: params}, nil
}

// Params returns the model coefficients.
func (g *GARCH) Params() GARCHParams { return g.params }

// Update feeds the next price. Prices must be positive.
func (g *GARCH) Update(price float64) error {
	if err := validateValue(price); err != nil {
		return err
	}

	if price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidInput, "garch needs positive prices, got %v", price)
	}

	if g.prevPrice == 0 {
		g.prevPrice = price

		return nil
	}

	r := price/g.prevPrice - 1
	g.prevPrice = price

	variance := g.next
	if g.returns == 0 {
		variance = r * r
	}

	g.next = g.params.Omega + g.params.Alpha*r*r + g.params.Beta*variance
	g.returns++

	return nil
}

// Variance returns the conditional variance of the next return.
func (g *GARCH) Variance() (float64, error) {
	if !g.Ready() {
		return 0, errors.NewInsufficientDataError(2, g.returns, "", "garch needs two prices")
	}

	return g.next, nil
}

// Forecast returns the volatility expected horizon steps ahead, reverting
// towards the long run level at rate alpha+beta. horizon must be at least 1.
func (g *GARCH) Forecast(horizon int) (float64, error) {
	if horizon < 1 {
		return 0, errors.Newf(errors.ErrCodeInvalidInput, "garch forecast horizon must be at least 1, got %d", horizon)
	}

	next, err := g.Variance()
	if err != nil {
		return 0, err
	}

	longRun := g.params.LongRunVariance()
	persistence := g.params.Alpha + g.params.Beta
	variance := longRun + math.Pow(persistence, float64(horizon-1))*(next-longRun)

	return math.Sqrt(variance), nil
}

func (g *GARCH) Ready() bool { return g.returns > 0 }

func (g *GARCH) Reset() {
	g.prevPrice = 0
	g.returns = 0
	g.next = 0
}
