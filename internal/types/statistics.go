package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceMetrics summarizes an equity curve and its trades.
// Returns and drawdown are fractions, so 0.25 means 25%.
type PerformanceMetrics struct {
	TotalReturn      float64 `yaml:"total_return" json:"total_return"`
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	SharpeRatio      float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown      float64 `yaml:"max_drawdown" json:"max_drawdown"`
	WinRate          float64 `yaml:"win_rate" json:"win_rate"`
	// ProfitFactor is gross profit over gross loss. It is +Inf when there are no losing trades.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	TradeCount   int     `yaml:"trade_count" json:"trade_count"`

	WinningTrades int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int     `yaml:"losing_trades" json:"losing_trades"`
	GrossProfit   float64 `yaml:"gross_profit" json:"gross_profit"`
	GrossLoss     float64 `yaml:"gross_loss" json:"gross_loss"`
	LargestWin    float64 `yaml:"largest_win" json:"largest_win"`
	LargestLoss   float64 `yaml:"largest_loss" json:"largest_loss"`
	TotalFees     float64 `yaml:"total_fees" json:"total_fees"`
	// Average holding time of closed trades in seconds
	AvgHoldingTime   int     `yaml:"avg_holding_time" json:"avg_holding_time"`
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
}

// EquityPoint is the account value at the close of one bar.
type EquityPoint struct {
	Time     time.Time `yaml:"time" json:"time"`
	Equity   float64   `yaml:"equity" json:"equity"`
	Cash     float64   `yaml:"cash" json:"cash"`
	Position float64   `yaml:"position" json:"position"`
}

// Report is the result of one backtest run.
type Report struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the simulated instrument.
	Symbol         string             `yaml:"symbol" json:"symbol"`
	Strategy       string             `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	InitialBalance float64            `yaml:"initial_balance" json:"initial_balance"`
	FinalBalance   float64            `yaml:"final_balance" json:"final_balance"`
	TotalTrades    int                `yaml:"total_trades" json:"total_trades"`
	WinRate        float64            `yaml:"win_rate" json:"win_rate"`
	MaxDrawdown    float64            `yaml:"max_drawdown" json:"max_drawdown"`
	Metrics        PerformanceMetrics `yaml:"metrics" json:"metrics"`
	Trades         []Trade            `yaml:"-" json:"trades"`
	EquityCurve    []EquityPoint      `yaml:"-" json:"equity_curve"`
	// TradesFilePath is the path to the trades parquet file, if written.
	TradesFilePath string `yaml:"trades_file_path,omitempty" json:"trades_file_path,omitempty"`
	// EquityFilePath is the path to the equity curve parquet file, if written.
	EquityFilePath string `yaml:"equity_file_path,omitempty" json:"equity_file_path,omitempty"`
}

// Equity returns the equity values of the curve.
func (r Report) Equity() []float64 {
	values := make([]float64, len(r.EquityCurve))
	for i, p := range r.EquityCurve {
		values[i] = p.Equity
	}

	return values
}

// WriteReports writes the summaries of several runs to a YAML file.
func WriteReports(path string, reports []Report) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to marshal reports to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write reports to file: %w", err)
	}

	return nil
}
