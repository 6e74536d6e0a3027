package indicator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Params configures an indicator built through the registry.
// Only the fields an indicator needs are read; the rest are ignored.
type Params struct {
	Period     int     `yaml:"period,omitempty" json:"period,omitempty" validate:"gte=0"`
	Fast       int     `yaml:"fast,omitempty" json:"fast,omitempty" validate:"gte=0"`
	Slow       int     `yaml:"slow,omitempty" json:"slow,omitempty" validate:"gte=0"`
	Signal     int     `yaml:"signal,omitempty" json:"signal,omitempty" validate:"gte=0"`
	Multiplier float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty" validate:"gte=0"`
	KPeriod    int     `yaml:"k_period,omitempty" json:"k_period,omitempty" validate:"gte=0"`
	DPeriod    int     `yaml:"d_period,omitempty" json:"d_period,omitempty" validate:"gte=0"`
	// Session switches VWAP to session mode; SessionOpen is "HH:MM", default 09:30.
	Session     bool   `yaml:"session,omitempty" json:"session,omitempty"`
	SessionOpen string `yaml:"session_open,omitempty" json:"session_open,omitempty"`
}

// Factory builds a fresh indicator instance from params.
type Factory func(params Params) (Indicator, error)

// IndicatorRegistry maps indicator names to factories.
type IndicatorRegistry interface {
	Register(name types.IndicatorType, factory Factory) error
	Create(name types.IndicatorType, params Params) (Indicator, error)
	List() []types.IndicatorType
	Remove(name types.IndicatorType) error
}

// IndicatorRegistryV1 is a goroutine-safe IndicatorRegistry.
type IndicatorRegistryV1 struct {
	factories map[types.IndicatorType]Factory
	mu        sync.RWMutex
}

// NewIndicatorRegistry creates an empty registry.
func NewIndicatorRegistry() *IndicatorRegistryV1 {
	return &IndicatorRegistryV1{
		factories: make(map[types.IndicatorType]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry with every built-in indicator.
func NewDefaultRegistry() *IndicatorRegistryV1 {
	r := NewIndicatorRegistry()

	for name, factory := range builtins() {
		// names are unique by construction
		_ = r.Register(name, factory)
	}

	return r
}

// Register adds a factory to the registry.
func (r *IndicatorRegistryV1) Register(name types.IndicatorType, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator %s is already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create builds a new indicator instance.
func (r *IndicatorRegistryV1) Create(name types.IndicatorType, params Params) (Indicator, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	return factory(params)
}

// List returns the registered indicator names in sorted order.
func (r *IndicatorRegistryV1) List() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// Remove deletes a factory from the registry.
func (r *IndicatorRegistryV1) Remove(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	delete(r.factories, name)

	return nil
}

func builtins() map[types.IndicatorType]Factory {
	return map[types.IndicatorType]Factory{
		types.IndicatorTypeSMA: func(p Params) (Indicator, error) {
			return NewSMA(p.Period)
		},
		types.IndicatorTypeEMA: func(p Params) (Indicator, error) {
			return NewEMA(p.Period)
		},
		types.IndicatorTypeRSI: func(p Params) (Indicator, error) {
			return NewRSI(p.Period)
		},
		types.IndicatorTypeMACD: func(p Params) (Indicator, error) {
			return NewMACD(p.Fast, p.Slow, p.Signal)
		},
		types.IndicatorTypeBollingerBands: func(p Params) (Indicator, error) {
			return NewBollingerBands(p.Period, p.Multiplier)
		},
		types.IndicatorTypeATR: func(p Params) (Indicator, error) {
			return NewATR(p.Period)
		},
		types.IndicatorTypeVWAP: func(p Params) (Indicator, error) {
			if !p.Session {
				return NewRollingVWAP(p.Period)
			}

			hour, minute, err := parseSessionOpen(p.SessionOpen)
			if err != nil {
				return nil, err
			}

			return NewSessionVWAP(hour, minute)
		},
		types.IndicatorTypeOBV: func(Params) (Indicator, error) {
			return NewOBV(), nil
		},
		types.IndicatorTypeVPT: func(Params) (Indicator, error) {
			return NewVPT(), nil
		},
		types.IndicatorTypeStochastic: func(p Params) (Indicator, error) {
			return NewStochastic(p.KPeriod, p.DPeriod)
		},
		types.IndicatorTypeVWMA: func(p Params) (Indicator, error) {
			return NewVWMA(p.Period)
		},
		types.IndicatorTypeVolumeMA: func(p Params) (Indicator, error) {
			return NewVolumeMA(p.Period)
		},
		types.IndicatorTypeVROC: func(p Params) (Indicator, error) {
			return NewVROC(p.Period)
		},
		types.IndicatorTypeStdDev: func(p Params) (Indicator, error) {
			return NewStdDev(p.Period)
		},
	}
}

func parseSessionOpen(value string) (int, int, error) {
	if value == "" {
		return 9, 30, nil
	}

	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, errors.Wrapf(errors.ErrCodeInvalidInput, err, "invalid session open %q, expected HH:MM", value)
	}

	return hour, minute, nil
}
