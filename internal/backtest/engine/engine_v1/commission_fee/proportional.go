package commission_fee

import "math"

// ProportionalCommissionFee charges rate times the traded notional.
type ProportionalCommissionFee struct {
	rate float64
}

// NewProportionalCommissionFee creates a fee model charging rate per unit of notional.
// A rate of 0.001 is 10 basis points.
func NewProportionalCommissionFee(rate float64) ProportionalFee {
	return &ProportionalCommissionFee{rate: rate}
}

func (c *ProportionalCommissionFee) Calculate(quantity float64, price float64) float64 {
	return math.Abs(quantity*price) * c.rate
}

func (c *ProportionalCommissionFee) Rate() float64 {
	return c.rate
}
