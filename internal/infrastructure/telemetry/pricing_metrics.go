package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics bundle is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Price sources reported on resolution metrics
const (
	PriceSourceBase         = "base"
	PriceSourcePromotion    = "promotion"
	PriceSourceResellerTier = "reseller_tier"
)

// PricingMetrics records storefront pricing activity. A nil *PricingMetrics
// is valid and records nothing.
type PricingMetrics struct {
	resolutions   *Counter
	cacheLookups  *Counter
	ordersPlaced  *Counter
	resolveTiming *Histogram
}

// NewPricingMetrics registers the pricing instruments on meter.
func NewPricingMetrics(meter metric.Meter) (*PricingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	resolutions, err := NewCounter(meter, "petshop_price_resolutions_total",
		"Prices resolved for storefront viewers", "{prices}")
	if err != nil {
		return nil, err
	}
	cacheLookups, err := NewCounter(meter, "petshop_promotion_cache_lookups_total",
		"Active promotion snapshot lookups", "{lookups}")
	if err != nil {
		return nil, err
	}
	ordersPlaced, err := NewCounter(meter, "petshop_orders_placed_total",
		"Orders placed through the storefront", "{orders}")
	if err != nil {
		return nil, err
	}
	resolveTiming, err := NewHistogram(meter, HistogramOpts{
		Name:        "petshop_price_resolve_duration_seconds",
		Description: "Time spent resolving prices for one request",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &PricingMetrics{
		resolutions:   resolutions,
		cacheLookups:  cacheLookups,
		ordersPlaced:  ordersPlaced,
		resolveTiming: resolveTiming,
	}, nil
}

// RecordResolution counts one resolved price by source and viewer role.
func (m *PricingMetrics) RecordResolution(ctx context.Context, source, currency string, isReseller bool) {
	if m == nil {
		return
	}
	role := "customer"
	if isReseller {
		role = "reseller"
	}
	m.resolutions.Inc(ctx,
		AttrPriceSource.String(source),
		AttrCurrency.String(currency),
		AttrViewerRole.String(role),
	)
}

// RecordCacheLookup counts a promotion snapshot hit or miss.
func (m *PricingMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Inc(ctx, AttrCacheResult.String(result))
}

// RecordOrderPlaced counts a placed order.
func (m *PricingMetrics) RecordOrderPlaced(ctx context.Context, pricingMode, currency string) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc(ctx, AttrPricingMode.String(pricingMode), AttrCurrency.String(currency))
}

// ObserveResolve records how long operation took.
func (m *PricingMetrics) ObserveResolve(ctx context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.resolveTiming.RecordDuration(ctx, d, attribute.String(string(AttrOperation), operation))
}
