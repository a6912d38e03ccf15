package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

// Creator persists a freshly built notification.
type Creator interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Service is the handler-facing entry point: build, persist, dispatch.
type Service struct {
	builder    *Builder
	store      Creator
	dispatcher *Dispatcher
	log        *zap.Logger
}

func NewService(builder *Builder, store Creator, dispatcher *Dispatcher, log *zap.Logger) *Service {
	return &Service{
		builder:    builder,
		store:      store,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Send materializes the intent and runs the first delivery cycle. The
// notification row exists before any channel I/O starts, so a crash
// mid-dispatch leaves a PENDING record rather than nothing.
func (s *Service) Send(ctx context.Context, intent Intent) error {
	n, err := s.builder.Build(ctx, intent)
	if err != nil {
		return err
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	s.log.Info("notification created",
		zap.String("notification_id", n.ID.String()),
		zap.String("type", n.Type),
		zap.String("recipient_id", n.RecipientID),
		zap.String("correlation_id", n.CorrelationID.String()),
	)
	return s.dispatcher.Dispatch(ctx, n)
}
