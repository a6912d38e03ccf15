package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *TemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var template models.Template
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// FindByName returns the active template with the given name, used by the
// interview and offer notification paths.
func (r *TemplateRepository) FindByName(ctx context.Context, name string) (*models.Template, error) {
	var template models.Template
	if err := r.db.WithContext(ctx).
		Where("name = ? AND active = ?", name, true).
		First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// FindByType returns the active template for a notification type, used by
// the application notification path.
func (r *TemplateRepository) FindByType(ctx context.Context, notificationType string) (*models.Template, error) {
	var template models.Template
	if err := r.db.WithContext(ctx).
		Where("type = ? AND active = ?", notificationType, true).
		First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := r.db.WithContext(ctx).Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) Update(ctx context.Context, template *models.Template) error {
	if template.ID == uuid.Nil {
		return errors.New("invalid template ID")
	}
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Template{}, "id = ?", id).Error
}
