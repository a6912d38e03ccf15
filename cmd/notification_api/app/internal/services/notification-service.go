package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
)

type NotificationService struct {
	notifications *repositories.NotificationRepository
	attempts      *repositories.DeliveryAttemptRepository
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		notifications: repositories.NewNotificationRepository(db),
		attempts:      repositories.NewDeliveryAttemptRepository(db),
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, filter repositories.NotificationFilter, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.notifications.FindAll(ctx, filter, page, limit)
}

func (s *NotificationService) GetNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	if id == uuid.Nil {
		return nil, errors.New("invalid notification ID")
	}
	return s.notifications.FindByID(ctx, id)
}

func (s *NotificationService) ListAttempts(ctx context.Context, notificationID uuid.UUID) ([]models.DeliveryAttempt, error) {
	if notificationID == uuid.Nil {
		return nil, errors.New("invalid notification ID")
	}
	return s.attempts.ListByNotification(ctx, notificationID)
}
