package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// DataGenerator draws synthetic OHLCV bars from a seeded source.
// The same seed and config always yield the same bars.
type DataGenerator struct {
	rng *rand.Rand
}

func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig shapes a synthetic series.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	Interval  time.Duration
	Count     int

	InitialPrice float64
	// Volatility is the standard deviation of one bar's close to close move.
	Volatility float64
	// Trend is the total drift spread evenly over Count bars.
	Trend float64

	VolumeBase float64
	// VolumeVariance bounds the uniform volume jitter as a fraction of VolumeBase.
	VolumeVariance float64
}

// DefaultConfig is 10000 one-minute bars starting at 100 with 0.2% moves.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          10000,
		InitialPrice:   100.0,
		Volatility:     0.002,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate walks the close as a geometric random walk. Each bar opens at the
// previous close, and its high and low stretch past the body by up to half a move.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Sample {
	bars := make([]types.Sample, config.Count)
	price := config.InitialPrice
	at := config.StartTime
	drift := config.Trend / float64(config.Count)

	for i := range bars {
		open := price

		close := open * (1 + config.Volatility*g.normal() + drift)
		if close <= 0 {
			close = open * 0.99
		}

		high, low := g.wicks(open, close, config.Volatility)

		bars[i] = types.Sample{
			Symbol: config.Symbol,
			Time:   at,
			Open:   round(open, 4),
			High:   round(high, 4),
			Low:    round(low, 4),
			Close:  round(close, 4),
			Volume: round(g.volume(config), 2),
		}

		price = close
		at = at.Add(config.Interval)
	}

	return bars
}

// normal is a standard normal draw via Box-Muller.
func (g *DataGenerator) normal() float64 {
	u1, u2 := g.rng.Float64(), g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func (g *DataGenerator) wicks(open, close, volatility float64) (high, low float64) {
	reach := volatility * open * 0.5
	up := math.Abs(g.rng.Float64() * reach)
	down := math.Abs(g.rng.Float64() * reach)

	high = math.Max(open, close) + up
	low = math.Min(open, close) - down

	if low <= 0 {
		low = math.Min(open, close) * 0.99
	}

	return high, low
}

func (g *DataGenerator) volume(config GeneratorConfig) float64 {
	jitter := (g.rng.Float64()*2 - 1) * config.VolumeVariance

	v := config.VolumeBase * (1 + jitter)
	if v < 0 {
		v = config.VolumeBase * 0.1
	}

	return v
}

// GenerateMultiSymbol concatenates one series per symbol. Each symbol gets its
// own starting price and volatility within ±20% of baseConfig.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.Sample {
	var bars []types.Sample

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		bars = append(bars, g.Generate(config)...)
	}

	return bars
}

// Generate10K is DefaultConfig under seed 42, used by benchmarks and long-run tests.
func Generate10K(symbol string) []types.Sample {
	config := DefaultConfig()
	config.Symbol = symbol

	return NewDataGenerator(42).Generate(config)
}

// FromCloses builds daily bars whose open, high, low and close all equal the given prices.
// Volume is constant so price-only indicators and the simulator can be checked by hand.
func FromCloses(closes []float64) []types.Sample {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	samples := make([]types.Sample, len(closes))

	for i, c := range closes {
		samples[i] = types.Sample{
			Symbol: "TEST",
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return samples
}

func round(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
