package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/templates"
)

// TemplateResolver finds the template for an intent, first by explicit name,
// then by notification type.
type TemplateResolver interface {
	FindByName(ctx context.Context, name string) (*models.Template, error)
	FindByType(ctx context.Context, notificationType string) (*models.Template, error)
}

// Builder turns an Intent into a persistable Notification: it resolves the
// template, renders the content, and prunes channels no configured surface
// can serve.
type Builder struct {
	engine    *templates.Engine
	templates TemplateResolver
	registry  *channels.Registry
	log       *zap.Logger
}

func NewBuilder(engine *templates.Engine, resolver TemplateResolver, registry *channels.Registry, log *zap.Logger) *Builder {
	return &Builder{
		engine:    engine,
		templates: resolver,
		registry:  registry,
		log:       log,
	}
}

func (b *Builder) Build(ctx context.Context, intent Intent) (*models.Notification, error) {
	n := &models.Notification{
		ID:            uuid.New(),
		Type:          intent.Type,
		RecipientID:   intent.RecipientID,
		Status:        models.StatusPending,
		CorrelationID: intent.CorrelationID,
		Metadata:      models.JSONMap(intent.Metadata),
		TemplateData:  models.JSONMap(intent.TemplateData),
		Channels:      b.pruneChannels(intent),
	}
	if intent.ScheduledFor != nil {
		n.ScheduledFor = *intent.ScheduledFor
	}

	tmpl, err := b.resolveTemplate(ctx, intent)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		// A notification without a template still gets stored and
		// dispatched; in-app clients render from metadata.
		b.log.Warn("no template for notification",
			zap.String("type", intent.Type),
			zap.String("template_name", intent.TemplateName),
			zap.String("correlation_id", intent.CorrelationID.String()),
		)
		return n, nil
	}

	content, err := b.engine.Render(ctx, tmpl.ID, intent.TemplateData)
	if err != nil {
		return nil, fmt.Errorf("build notification for %s: %w", intent.RecipientID, err)
	}
	n.TemplateID = &tmpl.ID
	n.Content = content
	return n, nil
}

func (b *Builder) pruneChannels(intent Intent) models.StringList {
	var kept models.StringList
	for _, name := range intent.Channels {
		if b.registry.Known(name) {
			kept = append(kept, name)
			continue
		}
		b.log.Warn("dropping unknown channel",
			zap.String("channel", name),
			zap.String("type", intent.Type),
		)
	}
	return kept
}

func (b *Builder) resolveTemplate(ctx context.Context, intent Intent) (*models.Template, error) {
	if intent.TemplateName != "" {
		tmpl, err := b.templates.FindByName(ctx, intent.TemplateName)
		if err == nil {
			return tmpl, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resolve template %q: %w", intent.TemplateName, err)
		}
	}
	tmpl, err := b.templates.FindByType(ctx, intent.Type)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve template for type %q: %w", intent.Type, err)
	}
	return tmpl, nil
}
