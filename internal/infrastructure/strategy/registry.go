package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/strategy"
)

// StrategyRegistry manages pricing strategy registrations
type StrategyRegistry struct {
	mu                sync.RWMutex
	pricingStrategies map[string]strategy.PricingStrategy
	defaults          map[strategy.StrategyType]string
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		pricingStrategies: make(map[string]strategy.PricingStrategy),
		defaults:          make(map[strategy.StrategyType]string),
	}
}

// RegisterPricingStrategy registers a pricing strategy
func (r *StrategyRegistry) RegisterPricingStrategy(s strategy.PricingStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.pricingStrategies[name]; exists {
		return fmt.Errorf("%w: pricing strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.pricingStrategies[name] = s
	return nil
}

// GetPricingStrategy returns a pricing strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetPricingStrategy(name string) (strategy.PricingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypePricing]
		if name == "" {
			return nil, fmt.Errorf("%w: no default pricing strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.pricingStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: pricing strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// GetPricingStrategyOrDefault returns a pricing strategy by name, or the default if not found
func (r *StrategyRegistry) GetPricingStrategyOrDefault(name string) strategy.PricingStrategy {
	s, err := r.GetPricingStrategy(name)
	if err != nil {
		s, _ = r.GetPricingStrategy("")
	}
	return s
}

// ListPricingStrategies returns all registered pricing strategy names
func (r *StrategyRegistry) ListPricingStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pricingStrategies))
	for name := range r.pricingStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterPricingStrategy removes a pricing strategy
func (r *StrategyRegistry) UnregisterPricingStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pricingStrategies[name]; !exists {
		return fmt.Errorf("%w: pricing strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.pricingStrategies, name)

	if r.defaults[strategy.StrategyTypePricing] == name {
		delete(r.defaults, strategy.StrategyTypePricing)
	}
	return nil
}

// SetDefault sets the default strategy for a strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !strategyType.IsValid() {
		return fmt.Errorf("%w: invalid strategy type '%s'", shared.ErrInvalidInput, strategyType)
	}
	if _, exists := r.pricingStrategies[name]; !exists {
		return fmt.Errorf("%w: pricing strategy '%s' not found", shared.ErrNotFound, name)
	}
	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}
