package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/templates"
)

type TemplateService struct {
	repo   *repositories.TemplateRepository
	engine *templates.Engine
}

func NewTemplateService(db *gorm.DB, engine *templates.Engine) *TemplateService {
	return &TemplateService{repo: repositories.NewTemplateRepository(db), engine: engine}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, template *models.Template) error {
	if template.Name == "" {
		return errors.New("template name is required")
	}
	if template.Content == "" {
		return errors.New("content is required")
	}
	if err := s.engine.Validate(template.Content, template.Variables); err != nil {
		return err
	}
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	return s.repo.Create(ctx, template)
}

func (s *TemplateService) GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	if id == uuid.Nil {
		return nil, errors.New("invalid template ID")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]models.Template, error) {
	return s.repo.List(ctx)
}

// UpdateTemplate revalidates the content and drops the compiled cache entry
// so the next render picks up the new body.
func (s *TemplateService) UpdateTemplate(ctx context.Context, template *models.Template) error {
	if template.ID == uuid.Nil {
		return errors.New("invalid template ID")
	}
	if err := s.engine.Validate(template.Content, template.Variables); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, template); err != nil {
		return err
	}
	s.engine.Invalidate(template.ID)
	return nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("invalid template ID")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.engine.Invalidate(id)
	return nil
}
