package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Signal is the per-bar trading instruction consumed by the backtest engine.
type Signal int

const (
	// SignalHold leaves the position unchanged
	SignalHold Signal = iota
	// SignalBuy closes any short and goes long
	SignalBuy
	// SignalSell closes any long and goes short
	SignalSell
)

// String returns the lowercase name of the signal.
func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	case SignalHold:
		return "hold"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// ParseSignal converts "buy", "sell" or "hold" (any case) into a Signal.
func ParseSignal(name string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "buy":
		return SignalBuy, nil
	case "sell":
		return SignalSell, nil
	case "hold", "":
		return SignalHold, nil
	default:
		return SignalHold, fmt.Errorf("unknown signal %q", name)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s Signal) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Signal) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}

	parsed, err := ParseSignal(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
