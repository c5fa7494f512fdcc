package event

import (
	"context"

	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ActivityLogHandler writes one structured log line per domain event and
// counts events by type when a meter is configured
type ActivityLogHandler struct {
	logger  *zap.Logger
	counter *telemetry.Counter
}

// NewActivityLogHandler creates the handler. meter may be nil.
func NewActivityLogHandler(logger *zap.Logger, meter metric.Meter) (*ActivityLogHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &ActivityLogHandler{logger: logger}
	if meter != nil {
		counter, err := telemetry.NewCounter(meter, "domain_events_total", "Domain events published", "{event}")
		if err != nil {
			return nil, err
		}
		h.counter = counter
	}
	return h, nil
}

// EventTypes subscribes to every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *ActivityLogHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", e.EventType()),
		zap.String("aggregate_type", e.AggregateType()),
		zap.String("aggregate_id", e.AggregateID().String()),
		zap.String("tenant_id", e.TenantID().String()),
		zap.Time("occurred_at", e.OccurredAt()))
	if h.counter != nil {
		h.counter.Inc(ctx,
			attribute.String("event_type", e.EventType()),
			attribute.String("aggregate_type", e.AggregateType()))
	}
	return nil
}
