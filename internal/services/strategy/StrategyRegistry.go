package strategy

import (
	"fmt"
	"sort"

	"TradeSimBot/internal/models"
)

// Strategy is the capability contract every trading strategy implements:
// attach indicator columns, then produce the entry and exit signal
// sequences, all index-aligned with the candles. A strategy is stateless
// per evaluation and never touches position state.
//
// ExitSignal is the one canonical exit field; a short-entry signal is a
// separate concept and not modeled by the shipped long-only strategies.
type Strategy interface {
	Name() string
	Side() string
	Warmup() int
	PopulateIndicators(s *Series) error
	PopulateEntrySignals(s *Series) error
	PopulateExitSignals(s *Series) error
}

// Analyze runs the three strategy stages in order and verifies the
// strategy honored the alignment contract.
func Analyze(strat Strategy, s *Series) error {
	if err := strat.PopulateIndicators(s); err != nil {
		return fmt.Errorf("populate indicators: %w", err)
	}
	if err := strat.PopulateEntrySignals(s); err != nil {
		return fmt.Errorf("populate entry signals: %w", err)
	}
	if err := strat.PopulateExitSignals(s); err != nil {
		return fmt.Errorf("populate exit signals: %w", err)
	}
	if !s.HasSignals() {
		return models.NewDataError("strategy %q did not populate both signal sequences", strat.Name())
	}
	return nil
}

type Factory func() Strategy

var registry = map[string]Factory{}

// Register adds a strategy constructor under a name. Called from init
// functions of concrete strategies.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New builds a registered strategy by name.
func New(name string) (Strategy, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy type: %s", name)
	}
	return factory(), nil
}

// Names lists registered strategies, sorted for stable CLI output.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
