package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

// NotificationFilter narrows FindAll. Zero-value fields are ignored.
type NotificationFilter struct {
	Status        string
	Type          string
	RecipientID   string
	CorrelationID uuid.UUID
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// Update applies a partial update. Returns gorm.ErrRecordNotFound when the
// id does not exist.
func (r *NotificationRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	tx := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) FindAll(ctx context.Context, filter NotificationFilter, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Model(&models.Notification{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.RecipientID != "" {
		q = q.Where("recipient_id = ?", filter.RecipientID)
	}
	if filter.CorrelationID != uuid.Nil {
		q = q.Where("correlation_id = ?", filter.CorrelationID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
