package order

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []ItemInput {
	return []ItemInput{
		{
			ProductID:          uuid.New(),
			VariantID:          uuid.New(),
			ProductName:        "Salmon Kibble",
			SKU:                "KIB-1KG",
			Quantity:           3,
			UnitPrice:          decimal.NewFromInt(75000),
			OriginalUnitPrice:  decimal.NewFromInt(100000),
			DiscountPercentage: decimal.NewFromInt(25),
			AppliedRule:        "promotion",
		},
		{
			ProductID:         uuid.New(),
			VariantID:         uuid.New(),
			ProductName:       "Chew Toy",
			SKU:               "TOY-1",
			Quantity:          1,
			UnitPrice:         decimal.NewFromInt(20000),
			OriginalUnitPrice: decimal.NewFromInt(20000),
		},
	}
}

func TestNewOrder(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("computes totals", func(t *testing.T) {
		o, err := NewOrder(tenantID, userID, valueobject.IDR, PricingModePromotion, sampleItems(), "leave at gate")
		require.NoError(t, err)

		assert.Equal(t, StatusPending, o.Status)
		assert.True(t, strings.HasPrefix(o.OrderNumber, "PS-"))
		require.Len(t, o.Items, 2)
		assert.True(t, o.Items[0].LineTotal.Equal(decimal.NewFromInt(225000)))
		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(320000)))
		assert.True(t, o.Total.Equal(decimal.NewFromInt(245000)))
		assert.True(t, o.Discount.Equal(decimal.NewFromInt(75000)))
		assert.Equal(t, 4, o.ItemCount())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("validates input", func(t *testing.T) {
		_, err := NewOrder(tenantID, uuid.Nil, valueobject.IDR, PricingModePromotion, sampleItems(), "")
		assert.Error(t, err)

		_, err = NewOrder(tenantID, userID, valueobject.IDR, PricingModePromotion, nil, "")
		assert.Error(t, err)

		_, err = NewOrder(tenantID, userID, valueobject.IDR, PricingMode("mystery"), sampleItems(), "")
		assert.Error(t, err)

		items := sampleItems()
		items[0].Quantity = 0
		_, err = NewOrder(tenantID, userID, valueobject.IDR, PricingModePromotion, items, "")
		assert.Error(t, err)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	newOrder := func(t *testing.T) *Order {
		o, err := NewOrder(uuid.New(), uuid.New(), valueobject.IDR, PricingModeResellerTier, sampleItems(), "")
		require.NoError(t, err)
		return o
	}

	t.Run("happy path", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.TransitionTo(StatusPaid))
		assert.NotNil(t, o.PaidAt)
		require.NoError(t, o.TransitionTo(StatusShipped))
		assert.NotNil(t, o.ShippedAt)
		require.NoError(t, o.TransitionTo(StatusCompleted))
		assert.NotNil(t, o.CompletedAt)
		assert.Len(t, o.GetDomainEvents(), 4)
	})

	t.Run("cancel from pending and paid", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.TransitionTo(StatusCancelled))
		assert.NotNil(t, o.CancelledAt)

		o = newOrder(t)
		require.NoError(t, o.TransitionTo(StatusPaid))
		require.NoError(t, o.TransitionTo(StatusCancelled))
	})

	t.Run("rejects invalid transitions", func(t *testing.T) {
		o := newOrder(t)
		assert.Error(t, o.TransitionTo(StatusShipped))
		assert.Error(t, o.TransitionTo(Status("lost")))

		require.NoError(t, o.TransitionTo(StatusPaid))
		require.NoError(t, o.TransitionTo(StatusShipped))
		assert.Error(t, o.TransitionTo(StatusCancelled))
	})
}
