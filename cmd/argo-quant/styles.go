package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-quant/internal/batch"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for the left column of the summary.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(20)

	// HeaderStyle for table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	// GainStyle for positive returns.
	GainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// LossStyle for negative returns.
	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	// ErrorStyle for failed runs.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	// BoxStyle frames a report summary.
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// FormatPercent formats a fraction as a signed percentage colored by its sign.
func FormatPercent(value float64) string {
	text := fmt.Sprintf("%+.2f%%", value*100)

	switch {
	case value > 0:
		return GainStyle.Render(text)
	case value < 0:
		return LossStyle.Render(text)
	default:
		return text
	}
}

func formatRatio(value float64) string {
	if math.IsInf(value, 1) {
		return "∞"
	}

	return fmt.Sprintf("%.2f", value)
}

func renderReport(report types.Report) string {
	m := report.Metrics

	rows := [][2]string{
		{"Run", report.ID},
		{"Symbol", report.Symbol},
		{"Strategy", report.Strategy},
		{"Initial balance", fmt.Sprintf("%.2f", report.InitialBalance)},
		{"Final balance", fmt.Sprintf("%.2f", report.FinalBalance)},
		{"Total return", FormatPercent(m.TotalReturn)},
		{"Annualized return", FormatPercent(m.AnnualizedReturn)},
		{"Buy and hold", FormatPercent(m.BuyAndHoldReturn)},
		{"Sharpe ratio", formatRatio(m.SharpeRatio)},
		{"Max drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)},
		{"Trades", fmt.Sprintf("%d (%d won, %d lost)", m.TradeCount, m.WinningTrades, m.LosingTrades)},
		{"Win rate", fmt.Sprintf("%.2f%%", m.WinRate*100)},
		{"Profit factor", formatRatio(m.ProfitFactor)},
		{"Fees", fmt.Sprintf("%.2f", m.TotalFees)},
		{"Avg holding time", (time.Duration(m.AvgHoldingTime) * time.Second).String()},
	}

	if report.TradesFilePath != "" {
		rows = append(rows, [2]string{"Trades file", report.TradesFilePath})
	}
	if report.EquityFilePath != "" {
		rows = append(rows, [2]string{"Equity file", report.EquityFilePath})
	}

	lines := []string{TitleStyle.Render("Backtest report")}
	for _, row := range rows {
		lines = append(lines, LabelStyle.Render(row[0])+row[1])
	}

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderSweep renders one line per result in the given order.
func renderSweep(results []batch.Result) string {
	columns := []int{24, 12, 10, 10, 8, 14}
	cell := func(width int, text string) string {
		return lipgloss.NewStyle().Width(width).Render(text)
	}

	var b strings.Builder

	header := []string{"Strategy", "Return", "Sharpe", "Drawdown", "Trades", "Final balance"}
	for i, h := range header {
		b.WriteString(HeaderStyle.Render(cell(columns[i], h)))
	}
	b.WriteString("\n")

	for _, result := range results {
		name := result.Job.Strategy.Name
		if result.Err != nil {
			b.WriteString(cell(columns[0], name))
			b.WriteString(ErrorStyle.Render(result.Err.Error()))
			b.WriteString("\n")

			continue
		}

		m := result.Report.Metrics
		b.WriteString(cell(columns[0], name))
		b.WriteString(cell(columns[1], FormatPercent(m.TotalReturn)))
		b.WriteString(cell(columns[2], formatRatio(m.SharpeRatio)))
		b.WriteString(cell(columns[3], fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)))
		b.WriteString(cell(columns[4], fmt.Sprintf("%d", m.TradeCount)))
		b.WriteString(cell(columns[5], fmt.Sprintf("%.2f", result.Report.FinalBalance)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
