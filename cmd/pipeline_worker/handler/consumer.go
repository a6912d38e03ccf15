package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/events"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
)

// Consumer pulls pipeline events off the bus, routes each to its handler and
// keeps an audit row per event. Prefetch bounds how many events are in
// flight at once.
type Consumer struct {
	consumer *kafka.Consumer
	router   *events.Router
	audit    *repositories.EventRepository
	tracer   trace.Tracer
	prefetch int
	log      *zap.Logger
}

func NewConsumer(consumer *kafka.Consumer, router *events.Router, audit *repositories.EventRepository, tracer trace.Tracer, prefetch int, log *zap.Logger) *Consumer {
	if prefetch < 1 {
		prefetch = 1
	}
	return &Consumer{
		consumer: consumer,
		router:   router,
		audit:    audit,
		tracer:   tracer,
		prefetch: prefetch,
		log:      log,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	go c.consumer.ReportLag(ctx, 15*time.Second)

	sem := make(chan struct{}, c.prefetch)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("shutting down event consumer")
			return
		default:
		}

		m, err := c.consumer.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.log.Error("read event message", zap.Error(err))
			continue
		}

		sem <- struct{}{}
		go func(m *kafkago.Message) {
			defer func() { <-sem }()
			c.handle(ctx, m)
		}(m)
	}
}

func (c *Consumer) handle(ctx context.Context, m *kafkago.Message) {
	msgCtx := ctx
	if len(m.Headers) > 0 {
		carrier := make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			carrier[h.Key] = string(h.Value)
		}
		msgCtx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(carrier))
	}

	msgCtx, span := c.tracer.Start(msgCtx, "handle-pipeline-event")
	defer span.End()

	var event events.Event
	if err := json.Unmarshal(m.Value, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unmarshal event")
		metrics.EventsConsumedTotal.WithLabelValues("unknown", "malformed").Inc()
		c.log.Error("malformed event envelope", zap.ByteString("raw", m.Value), zap.Error(err))
		return
	}

	record := &models.Event{
		ID:            uuid.New(),
		Type:          event.Type,
		Payload:       m.Value,
		Source:        event.Source,
		CorrelationID: event.CorrelationID,
	}
	if err := c.audit.Create(msgCtx, record); err != nil {
		c.log.Error("persist event audit row",
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
	}

	err := c.router.Route(msgCtx, event)
	switch {
	case err == nil:
		metrics.EventsConsumedTotal.WithLabelValues(event.Type, "handled").Inc()
	case errors.Is(err, events.ErrNoHandlerFound):
		metrics.EventsConsumedTotal.WithLabelValues(event.Type, "unrouted").Inc()
		c.log.Warn("no handler for event type",
			zap.String("event_type", event.Type),
			zap.String("correlation_id", event.CorrelationID.String()),
		)
	case errors.Is(err, events.ErrMalformedPayload):
		metrics.EventsConsumedTotal.WithLabelValues(event.Type, "malformed").Inc()
		span.RecordError(err)
		c.log.Error("malformed event payload",
			zap.String("event_type", event.Type),
			zap.String("correlation_id", event.CorrelationID.String()),
			zap.Error(err),
		)
	default:
		metrics.EventsConsumedTotal.WithLabelValues(event.Type, "failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "handle event")
		c.log.Error("handle event",
			zap.String("event_type", event.Type),
			zap.String("correlation_id", event.CorrelationID.String()),
			zap.Error(err),
		)
		return
	}

	if err := c.audit.MarkProcessed(msgCtx, record.ID); err != nil {
		c.log.Error("mark event processed", zap.Error(err))
	}
}
