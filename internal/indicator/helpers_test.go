package indicator

import (
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

var testStart = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func closeBar(i int, c float64) types.Sample {
	return types.Sample{
		Symbol: "TEST",
		Time:   testStart.Add(time.Duration(i) * time.Minute),
		Open:   c,
		High:   c,
		Low:    c,
		Close:  c,
		Volume: 1000,
	}
}

func ohlcvBar(i int, high, low, c, volume float64) types.Sample {
	return types.Sample{
		Symbol: "TEST",
		Time:   testStart.Add(time.Duration(i) * time.Minute),
		Open:   c,
		High:   high,
		Low:    low,
		Close:  c,
		Volume: volume,
	}
}
