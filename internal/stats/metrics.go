// Package stats computes performance metrics from an equity curve and a trade ledger.
package stats

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Common annualization factors for the Sharpe ratio and annualized return.
const (
	TradingDaysPerYear    = 252.0
	TradingMinutesPerYear = 252.0 * 390.0
)

// Calculate derives the performance metrics of a run.
//
// initial is the capital before the first bar, equity the account value
// after each bar, trades the round trips of the run, and annualization the
// number of bars per year (252 for daily bars). Total return and drawdown are
// measured from initial so fills on the first bar count against the run.
// Only closed trades count towards trade statistics.
func Calculate(initial float64, equity []float64, trades []types.Trade, annualization float64) (types.PerformanceMetrics, error) {
	if annualization <= 0 || math.IsNaN(annualization) || math.IsInf(annualization, 0) {
		return types.PerformanceMetrics{}, errors.Newf(errors.ErrCodeInvalidInput,
			"annualization factor must be positive, got %v", annualization)
	}

	if len(equity) == 0 {
		return types.PerformanceMetrics{}, errors.NewInsufficientDataError(1, 0, "", "equity curve is empty")
	}

	if initial <= 0 {
		return types.PerformanceMetrics{}, errors.Newf(errors.ErrCodeCalculation,
			"returns are undefined for a non-positive initial capital %v", initial)
	}

	metrics := types.PerformanceMetrics{}
	metrics.TotalReturn = equity[len(equity)-1]/initial - 1
	metrics.AnnualizedReturn = AnnualizedReturn(metrics.TotalReturn, len(equity)-1, annualization)
	metrics.MaxDrawdown = MaxDrawdown(append([]float64{initial}, equity...))
	metrics.SharpeRatio = SharpeRatio(PeriodReturns(equity), annualization)

	summarizeTrades(&metrics, trades)

	return metrics, nil
}

// AnnualizedReturn compounds a total return earned over periods bars to a yearly rate.
// A total loss of 100% or more stays at -1.
func AnnualizedReturn(totalReturn float64, periods int, annualization float64) float64 {
	if periods <= 0 {
		return 0
	}

	growth := 1 + totalReturn
	if growth <= 0 {
		return -1
	}

	return math.Pow(growth, annualization/float64(periods)) - 1
}

// PeriodReturns converts an equity curve into simple bar-to-bar returns.
// Bars following a zero equity are skipped.
func PeriodReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			continue
		}

		returns = append(returns, equity[i]/equity[i-1]-1)
	}

	return returns
}

// SharpeRatio is mean(returns)/std(returns)*sqrt(annualization) with the
// sample standard deviation. It is 0 for fewer than two returns or a flat return series.
func SharpeRatio(returns []float64, annualization float64) float64 {
	if len(returns) < 2 {
		return 0
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

	variance /= float64(len(returns) - 1)

	// constant returns leave only rounding noise in the deviation
	std := math.Sqrt(variance)
	if std <= 1e-12 {
		return 0
	}

	return mean / std * math.Sqrt(annualization)
}

// MaxDrawdown is the largest peak-to-trough decline as a fraction of the peak.
func MaxDrawdown(equity []float64) float64 {
	maxDrawdown := 0.0
	peak := math.Inf(-1)

	for _, e := range equity {
		if e > peak {
			peak = e
		}

		if peak <= 0 {
			continue
		}

		if dd := (peak - e) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	return maxDrawdown
}

// BuyAndHoldReturn is the return of holding from the first to the last price.
func BuyAndHoldReturn(prices []float64) float64 {
	if len(prices) < 2 || prices[0] == 0 {
		return 0
	}

	return prices[len(prices)-1]/prices[0] - 1
}

func summarizeTrades(metrics *types.PerformanceMetrics, trades []types.Trade) {
	var holdingSeconds float64

	for _, trade := range trades {
		metrics.TotalFees += trade.EntryFee + trade.ExitFee

		if !trade.IsClosed() {
			continue
		}

		pnl := trade.RealizedPnL()
		metrics.TradeCount++
		holdingSeconds += trade.HoldingTime().Seconds()

		switch {
		case pnl > 0:
			metrics.WinningTrades++
			metrics.GrossProfit += pnl
			metrics.LargestWin = math.Max(metrics.LargestWin, pnl)
		case pnl < 0:
			metrics.LosingTrades++
			metrics.GrossLoss += -pnl
			metrics.LargestLoss = math.Min(metrics.LargestLoss, pnl)
		}
	}

	if metrics.TradeCount == 0 {
		return
	}

	metrics.WinRate = float64(metrics.WinningTrades) / float64(metrics.TradeCount)
	metrics.AvgHoldingTime = int(holdingSeconds / float64(metrics.TradeCount))

	switch {
	case metrics.GrossLoss > 0:
		metrics.ProfitFactor = metrics.GrossProfit / metrics.GrossLoss
	case metrics.GrossProfit > 0:
		metrics.ProfitFactor = math.Inf(1)
	}
}
