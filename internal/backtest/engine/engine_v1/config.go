package engine

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-quant/internal/stats"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ExecutionPrice selects the price a signal is filled at.
type ExecutionPrice string

const (
	// ExecutionPriceCurrentClose fills signal i at the close of bar i.
	ExecutionPriceCurrentClose ExecutionPrice = "current_close"
	// ExecutionPriceNextOpen fills signal i at the open of bar i+1. The last signal is dropped.
	ExecutionPriceNextOpen ExecutionPrice = "next_open"
)

var allExecutionPrices = []any{
	ExecutionPriceCurrentClose,
	ExecutionPriceNextOpen,
}

var validate = validator.New()

type BacktestEngineV1Config struct {
	InitialCapital float64               `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0" validate:"gt=0"`
	Broker         commission_fee.Broker `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations" validate:"oneof=proportional interactive_broker zero_commission"`
	CommissionRate float64               `yaml:"commission_rate" json:"commission_rate" jsonschema:"title=Commission Rate,description=Fraction of the notional charged per fill by the proportional broker,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	SlippageRate   float64               `yaml:"slippage_rate" json:"slippage_rate" jsonschema:"title=Slippage Rate,description=Fraction of the notional lost to slippage per fill,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	ExecutionPrice ExecutionPrice        `yaml:"execution_price" json:"execution_price" jsonschema:"title=Execution Price,description=Price a signal is filled at" validate:"required,oneof=current_close next_open"`
	PositionSize   float64               `yaml:"position_size" json:"position_size" jsonschema:"title=Position Size,description=Fraction of cash committed to every new position,minimum=0,maximum=1" validate:"gt=0,lte=1"`
	ShortSelling   bool                  `yaml:"short_selling" json:"short_selling" jsonschema:"title=Short Selling,description=Whether a sell signal opens a short position,default=true"`
	// Annualization is the number of bars per year, 252 for daily bars.
	Annualization float64                    `yaml:"annualization" json:"annualization" jsonschema:"title=Annualization,description=Number of bars per year used by the Sharpe ratio and annualized return,minimum=0" validate:"gt=0"`
	StartTime     optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime       optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// yamlConfig is the wire form of BacktestEngineV1Config. Pointers tell omitted keys apart.
type yamlConfig struct {
	InitialCapital float64               `yaml:"initial_capital"`
	Broker         commission_fee.Broker `yaml:"broker"`
	CommissionRate float64               `yaml:"commission_rate"`
	SlippageRate   float64               `yaml:"slippage_rate"`
	ExecutionPrice ExecutionPrice        `yaml:"execution_price"`
	PositionSize   *float64              `yaml:"position_size"`
	ShortSelling   *bool                 `yaml:"short_selling"`
	Annualization  *float64              `yaml:"annualization"`
	StartTime      *time.Time            `yaml:"start_time,omitempty"`
	EndTime        *time.Time            `yaml:"end_time,omitempty"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Omitted keys keep the defaults of EmptyConfig.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var config yamlConfig
	if err := unmarshal(&config); err != nil {
		return err
	}

	*c = EmptyConfig()
	c.InitialCapital = config.InitialCapital
	c.CommissionRate = config.CommissionRate
	c.SlippageRate = config.SlippageRate

	if config.Broker != "" {
		c.Broker = config.Broker
	}
	if config.ExecutionPrice != "" {
		c.ExecutionPrice = config.ExecutionPrice
	}
	if config.PositionSize != nil {
		c.PositionSize = *config.PositionSize
	}
	if config.ShortSelling != nil {
		c.ShortSelling = *config.ShortSelling
	}
	if config.Annualization != nil {
		c.Annualization = *config.Annualization
	}
	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}
	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// MarshalYAML writes the optional time bounds as plain timestamps.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	config := yamlConfig{
		InitialCapital: c.InitialCapital,
		Broker:         c.Broker,
		CommissionRate: c.CommissionRate,
		SlippageRate:   c.SlippageRate,
		ExecutionPrice: c.ExecutionPrice,
		PositionSize:   &c.PositionSize,
		ShortSelling:   &c.ShortSelling,
		Annualization:  &c.Annualization,
	}

	if start, err := c.StartTime.Take(); err == nil {
		config.StartTime = &start
	}
	if end, err := c.EndTime.Take(); err == nil {
		config.EndTime = &end
	}

	return config, nil
}

// Validate checks the field constraints and that the time bounds are ordered.
func (c BacktestEngineV1Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest engine config", err)
	}

	start, startErr := c.StartTime.Take()
	end, endErr := c.EndTime.Take()
	if startErr == nil && endErr == nil && end.Before(start) {
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"end_time %s is before start_time %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}
			if strings.HasSuffix(t.String(), "engine.ExecutionPrice") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: allExecutionPrices,
				}
			}
			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	config := EmptyConfig()
	config.InitialCapital = 10000
	config.Broker = broker
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}

// LoadConfig reads a YAML engine config. Omitted keys keep the defaults of EmptyConfig.
func LoadConfig(path string) (BacktestEngineV1Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BacktestEngineV1Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read engine config %s", path)
	}

	config := EmptyConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse engine config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		Broker:         commission_fee.BrokerProportional,
		CommissionRate: 0,
		SlippageRate:   0,
		ExecutionPrice: ExecutionPriceCurrentClose,
		PositionSize:   1,
		ShortSelling:   true,
		Annualization:  stats.TradingDaysPerYear,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}
