package strategy

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/strategy"
	"github.com/petshop/backend/internal/infrastructure/strategy/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock pricing strategy for testing
type mockPricingStrategy struct {
	strategy.BaseStrategy
}

func newMockPricingStrategy(name string) *mockPricingStrategy {
	return &mockPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(name, strategy.StrategyTypePricing, "Mock pricing strategy"),
	}
}

func (s *mockPricingStrategy) CalculatePrice(ctx context.Context, pricingCtx strategy.PricingContext) (strategy.PricingResult, error) {
	return strategy.PricingResult{}, nil
}

func (s *mockPricingStrategy) SupportsPromotion() bool {
	return false
}

func (s *mockPricingStrategy) SupportsTieredPricing() bool {
	return false
}

func TestStrategyRegistry_PricingStrategies(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("flat")))

		s, err := r.GetPricingStrategy("flat")
		require.NoError(t, err)
		assert.Equal(t, "flat", s.Name())
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("flat")))
		err := r.RegisterPricingStrategy(newMockPricingStrategy("flat"))
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("empty name without default fails", func(t *testing.T) {
		r := NewStrategyRegistry()
		_, err := r.GetPricingStrategy("")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("or default falls back", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("flat")))
		require.NoError(t, r.SetDefault(strategy.StrategyTypePricing, "flat"))

		s := r.GetPricingStrategyOrDefault("missing")
		require.NotNil(t, s)
		assert.Equal(t, "flat", s.Name())
	})

	t.Run("unregister clears default", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("flat")))
		require.NoError(t, r.SetDefault(strategy.StrategyTypePricing, "flat"))
		require.NoError(t, r.UnregisterPricingStrategy("flat"))
		assert.Empty(t, r.GetDefault(strategy.StrategyTypePricing))
		assert.Error(t, r.UnregisterPricingStrategy("flat"))
	})

	t.Run("set default validates", func(t *testing.T) {
		r := NewStrategyRegistry()
		assert.Error(t, r.SetDefault(strategy.StrategyType("cost"), "flat"))
		assert.Error(t, r.SetDefault(strategy.StrategyTypePricing, "missing"))
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("zeta")))
		require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("alpha")))
		assert.Equal(t, []string{"alpha", "zeta"}, r.ListPricingStrategies())
	})
}

func TestStrategyRegistry_Concurrency(t *testing.T) {
	r := NewStrategyRegistry()
	require.NoError(t, r.RegisterPricingStrategy(newMockPricingStrategy("flat")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetPricingStrategy("flat")
			_ = r.ListPricingStrategies()
		}()
	}
	wg.Wait()
}

func TestNewRegistryWithProvider(t *testing.T) {
	r, err := NewRegistryWithProvider(nil, domainpricing.TierPolicyFirstQualifying)
	require.NoError(t, err)

	assert.Equal(t, []string{pricing.StrategyNamePromotion, pricing.StrategyNameResellerTier}, r.ListPricingStrategies())
	assert.Equal(t, pricing.StrategyNamePromotion, r.GetDefault(strategy.StrategyTypePricing))

	retail, err := r.ForViewer(false)
	require.NoError(t, err)
	assert.True(t, retail.SupportsPromotion())

	resellerStrategy, err := r.ForViewer(true)
	require.NoError(t, err)
	assert.True(t, resellerStrategy.SupportsTieredPricing())
	tier, ok := resellerStrategy.(*pricing.ResellerTierPricingStrategy)
	require.True(t, ok)
	assert.Equal(t, domainpricing.TierPolicyFirstQualifying, tier.Policy())
}
