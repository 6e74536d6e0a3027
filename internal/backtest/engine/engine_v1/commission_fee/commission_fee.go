package commission_fee

type CommissionFee interface {
	// Calculate the commission fee for trading quantity units at price and returns the fee in USD
	Calculate(quantity float64, price float64) float64
}

// ProportionalFee is a CommissionFee charged as a fixed fraction of the notional.
type ProportionalFee interface {
	CommissionFee
	// Rate returns the fraction of the notional charged per fill
	Rate() float64
}

type Broker string

const (
	BrokerProportional      Broker = "proportional"
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerProportional,
	BrokerInteractiveBroker,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model of broker.
// rate is only read by the proportional broker.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerProportional:
		return NewProportionalCommissionFee(rate)
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
