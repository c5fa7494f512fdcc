package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of a direct order
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusCompleted
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// PricingMode records which price path produced the line prices
type PricingMode string

const (
	PricingModePromotion    PricingMode = "promotion"
	PricingModeResellerTier PricingMode = "reseller_tier"
)

// Item is one priced line of an order. Prices are frozen at placement.
type Item struct {
	ID                 uuid.UUID
	ProductID          uuid.UUID
	VariantID          uuid.UUID
	ProductName        string
	SKU                string
	Quantity           int
	UnitPrice          decimal.Decimal
	OriginalUnitPrice  decimal.Decimal
	DiscountPercentage decimal.Decimal
	LineTotal          decimal.Decimal
	AppliedRule        string
}

// ItemInput is a priced line ready to be added to an order
type ItemInput struct {
	ProductID          uuid.UUID
	VariantID          uuid.UUID
	ProductName        string
	SKU                string
	Quantity           int
	UnitPrice          decimal.Decimal
	OriginalUnitPrice  decimal.Decimal
	DiscountPercentage decimal.Decimal
	AppliedRule        string
}

// Order is a cart-less direct order placed from the storefront
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber string
	UserID      uuid.UUID
	Currency    valueobject.Currency
	PricingMode PricingMode
	Items       []Item
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Status      Status
	Note        string
	PaidAt      *time.Time
	ShippedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// NewOrder creates a pending order from priced lines
func NewOrder(tenantID, userID uuid.UUID, currency valueobject.Currency, mode PricingMode, items []ItemInput, note string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Order user is required")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Order currency is required")
	}
	if mode != PricingModePromotion && mode != PricingModeResellerTier {
		return nil, shared.NewDomainError("INVALID_PRICING_MODE", "Unknown pricing mode "+string(mode))
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order needs at least one item")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Currency:            currency,
		PricingMode:         mode,
		Status:              StatusPending,
		Note:                note,
	}
	o.OrderNumber = generateOrderNumber(o.CreatedAt, o.ID)

	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if in.UnitPrice.IsNegative() || in.OriginalUnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
		}
		qty := decimal.NewFromInt(int64(in.Quantity))
		o.Items = append(o.Items, Item{
			ID:                 uuid.New(),
			ProductID:          in.ProductID,
			VariantID:          in.VariantID,
			ProductName:        in.ProductName,
			SKU:                in.SKU,
			Quantity:           in.Quantity,
			UnitPrice:          in.UnitPrice,
			OriginalUnitPrice:  in.OriginalUnitPrice,
			DiscountPercentage: in.DiscountPercentage,
			LineTotal:          in.UnitPrice.Mul(qty),
			AppliedRule:        in.AppliedRule,
		})
	}
	o.recalculateTotals()

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// TransitionTo moves the order to target, stamping the matching timestamp
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	now := time.Now()
	old := o.Status
	o.Status = target
	switch target {
	case StatusPaid:
		o.PaidAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusCompleted:
		o.CompletedAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	total := decimal.Zero
	for _, it := range o.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		subtotal = subtotal.Add(it.OriginalUnitPrice.Mul(qty))
		total = total.Add(it.LineTotal)
	}
	o.Subtotal = o.Currency.Round(subtotal)
	o.Total = o.Currency.Round(total)
	o.Discount = o.Subtotal.Sub(o.Total)
}

// generateOrderNumber builds a human-friendly number like PS-20260315-1A2B3C4D
func generateOrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("PS-%s-%X", at.Format("20060102"), id[:4])
}
