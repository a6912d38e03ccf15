package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

type RecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

func (r *RecipientRepository) FindByID(ctx context.Context, id string) (*models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.WithContext(ctx).First(&recipient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipient, nil
}

func (r *RecipientRepository) Upsert(ctx context.Context, recipient *models.Recipient) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(recipient).Error
}
