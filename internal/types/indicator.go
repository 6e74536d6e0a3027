package types

type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeATR            IndicatorType = "atr"
	IndicatorTypeVWAP           IndicatorType = "vwap"
	IndicatorTypeOBV            IndicatorType = "obv"
	IndicatorTypeVPT            IndicatorType = "vpt"
	IndicatorTypeStochastic     IndicatorType = "stochastic_oscillator"
	IndicatorTypeVWMA           IndicatorType = "vwma"
	IndicatorTypeVolumeMA       IndicatorType = "volume_ma"
	IndicatorTypeVROC           IndicatorType = "vroc"
	IndicatorTypeStdDev         IndicatorType = "std_dev"
)
