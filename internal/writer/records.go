package writer

import (
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// TradeRecord is the parquet schema of one closed or open trade.
// Exit columns are zero while the trade is open.
type TradeRecord struct {
	Direction  string  `parquet:"direction"`
	EntryTime  int64   `parquet:"entry_time,timestamp(millisecond)"` // Unix ms
	EntryPrice float64 `parquet:"entry_price"`
	Size       float64 `parquet:"size"`
	EntryFee   float64 `parquet:"entry_fee"`
	ExitTime   int64   `parquet:"exit_time,timestamp(millisecond)"` // Unix ms
	ExitPrice  float64 `parquet:"exit_price"`
	ExitFee    float64 `parquet:"exit_fee"`
	PnL        float64 `parquet:"pnl"`
	Closed     bool    `parquet:"closed"`
}

// EquityRecord is the parquet schema of one equity curve point.
type EquityRecord struct {
	Time     int64   `parquet:"time,timestamp(millisecond)"` // Unix ms
	Equity   float64 `parquet:"equity"`
	Cash     float64 `parquet:"cash"`
	Position float64 `parquet:"position"`
}

// SampleRecord is the parquet schema of one OHLCV bar.
type SampleRecord struct {
	Symbol string  `parquet:"symbol"`
	Time   int64   `parquet:"time,timestamp(millisecond)"` // Unix ms
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"high"`
	Low    float64 `parquet:"low"`
	Close  float64 `parquet:"close"`
	Volume float64 `parquet:"volume"`
}

func toTradeRecords(trades []types.Trade) []TradeRecord {
	records := make([]TradeRecord, len(trades))

	for i, t := range trades {
		record := TradeRecord{
			Direction:  string(t.Direction),
			EntryTime:  t.EntryTime.UnixMilli(),
			EntryPrice: t.EntryPrice,
			Size:       t.Size,
			EntryFee:   t.EntryFee,
			ExitFee:    t.ExitFee,
			ExitPrice:  t.ExitPrice.TakeOr(0),
			PnL:        t.RealizedPnL(),
			Closed:     t.IsClosed(),
		}

		if exit, err := t.ExitTime.Take(); err == nil {
			record.ExitTime = exit.UnixMilli()
		}

		records[i] = record
	}

	return records
}

func toEquityRecords(curve []types.EquityPoint) []EquityRecord {
	records := make([]EquityRecord, len(curve))
	for i, p := range curve {
		records[i] = EquityRecord{
			Time:     p.Time.UnixMilli(),
			Equity:   p.Equity,
			Cash:     p.Cash,
			Position: p.Position,
		}
	}

	return records
}

func toSampleRecords(samples []types.Sample) []SampleRecord {
	records := make([]SampleRecord, len(samples))
	for i, s := range samples {
		records[i] = SampleRecord{
			Symbol: s.Symbol,
			Time:   s.Time.UnixMilli(),
			Open:   s.Open,
			High:   s.High,
			Low:    s.Low,
			Close:  s.Close,
			Volume: s.Volume,
		}
	}

	return records
}

// Sample converts the record back into a sample in UTC.
func (r SampleRecord) Sample() types.Sample {
	return types.Sample{
		Symbol: r.Symbol,
		Time:   time.UnixMilli(r.Time).UTC(),
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}
