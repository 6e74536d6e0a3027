package commission_fee

import "math"

const (
	interactiveBrokerPerShare   = 0.005
	interactiveBrokerMinimumFee = 1.0
)

// InteractiveBrokerCommissionFee charges per share with a minimum per order.
type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(quantity float64, price float64) float64 {
	fee := interactiveBrokerPerShare * math.Abs(quantity)
	if fee < interactiveBrokerMinimumFee {
		return interactiveBrokerMinimumFee
	}

	return fee
}
