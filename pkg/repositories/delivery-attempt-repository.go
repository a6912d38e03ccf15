package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

// DeliveryAttemptRepository is append-only: attempts are audit records and
// are never updated or deleted by the pipeline.
type DeliveryAttemptRepository struct {
	db *gorm.DB
}

func NewDeliveryAttemptRepository(db *gorm.DB) *DeliveryAttemptRepository {
	return &DeliveryAttemptRepository{db: db}
}

func (r *DeliveryAttemptRepository) Create(ctx context.Context, attempt *models.DeliveryAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *DeliveryAttemptRepository) ListByNotification(ctx context.Context, notificationID uuid.UUID) ([]models.DeliveryAttempt, error) {
	var attempts []models.DeliveryAttempt
	if err := r.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		Order("created_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
