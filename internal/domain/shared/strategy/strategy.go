// Package strategy holds the base plumbing for pluggable domain strategies.
// Concrete strategy families (allocation planning, for now) embed BaseStrategy
// and add their own planning interface on top.
package strategy

// StrategyType groups strategies by the concern they serve.
type StrategyType string

const (
	StrategyTypeAllocation StrategyType = "allocation"
)

func (t StrategyType) String() string {
	return string(t)
}

// Strategy is the common surface every registered strategy exposes.
type Strategy interface {
	// Name returns the unique name of the strategy
	Name() string
	// Type returns the concern the strategy serves
	Type() StrategyType
	// Description returns a human-readable description
	Description() string
}

// BaseStrategy implements the Strategy identity methods for embedding.
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

// NewBaseStrategy creates a new BaseStrategy
func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{
		name:         name,
		strategyType: strategyType,
		description:  description,
	}
}

func (s BaseStrategy) Name() string {
	return s.name
}

func (s BaseStrategy) Type() StrategyType {
	return s.strategyType
}

func (s BaseStrategy) Description() string {
	return s.description
}
