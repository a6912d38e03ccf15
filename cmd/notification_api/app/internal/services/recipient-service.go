package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
)

type RecipientService struct {
	repo *repositories.RecipientRepository
}

func NewRecipientService(db *gorm.DB) *RecipientService {
	return &RecipientService{repo: repositories.NewRecipientRepository(db)}
}

func (s *RecipientService) UpsertRecipient(ctx context.Context, recipient *models.Recipient) error {
	if recipient.ID == "" {
		return errors.New("recipient ID is required")
	}
	if recipient.Email == "" && recipient.Phone == "" {
		return errors.New("recipient needs at least one contact surface")
	}
	return s.repo.Upsert(ctx, recipient)
}

func (s *RecipientService) GetRecipientByID(ctx context.Context, id string) (*models.Recipient, error) {
	if id == "" {
		return nil, errors.New("recipient ID is required")
	}
	return s.repo.FindByID(ctx, id)
}
