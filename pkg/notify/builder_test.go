package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/templates"
)

type fakeResolver struct {
	byName map[string]*models.Template
	byType map[string]*models.Template
}

func (f *fakeResolver) FindByName(ctx context.Context, name string) (*models.Template, error) {
	if tmpl, ok := f.byName[name]; ok {
		return tmpl, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResolver) FindByType(ctx context.Context, notificationType string) (*models.Template, error) {
	if tmpl, ok := f.byType[notificationType]; ok {
		return tmpl, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResolver) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	for _, tmpl := range f.byName {
		if tmpl.ID == id {
			return tmpl, nil
		}
	}
	for _, tmpl := range f.byType {
		if tmpl.ID == id {
			return tmpl, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func testRegistry() *channels.Registry {
	return channels.NewRegistry(
		&fakeChannel{name: "email"},
		&fakeChannel{name: "in-app"},
	)
}

func TestBuildRendersNamedTemplate(t *testing.T) {
	tmpl := &models.Template{
		ID:        uuid.New(),
		Name:      "offer_accepted",
		Content:   "Congrats {{.candidateName}}!",
		Variables: []string{"candidateName"},
	}
	resolver := &fakeResolver{byName: map[string]*models.Template{"offer_accepted": tmpl}}
	engine := templates.NewEngine(resolver, zap.NewNop())
	b := NewBuilder(engine, resolver, testRegistry(), zap.NewNop())

	correlationID := uuid.New()
	n, err := b.Build(context.Background(), Intent{
		Type:          models.TypeOfferAccepted,
		RecipientID:   "rec-1",
		TemplateName:  "offer_accepted",
		TemplateData:  map[string]interface{}{"candidateName": "Ada"},
		Channels:      []string{"email"},
		CorrelationID: correlationID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, models.StatusPending, n.Status)
	assert.Equal(t, 0, n.RetryCount)
	assert.Equal(t, "Congrats Ada!", n.Content)
	require.NotNil(t, n.TemplateID)
	assert.Equal(t, tmpl.ID, *n.TemplateID)
	assert.Equal(t, correlationID, n.CorrelationID)
}

func TestBuildFallsBackToTypeTemplate(t *testing.T) {
	tmpl := &models.Template{
		ID:        uuid.New(),
		Name:      "fallback",
		Type:      models.TypeNewApplication,
		Content:   "New application from {{.candidateName}}",
		Variables: []string{"candidateName"},
	}
	resolver := &fakeResolver{byType: map[string]*models.Template{models.TypeNewApplication: tmpl}}
	engine := templates.NewEngine(resolver, zap.NewNop())
	b := NewBuilder(engine, resolver, testRegistry(), zap.NewNop())

	n, err := b.Build(context.Background(), Intent{
		Type:         models.TypeNewApplication,
		RecipientID:  "rec-1",
		TemplateName: "does_not_exist",
		TemplateData: map[string]interface{}{"candidateName": "Ada"},
		Channels:     []string{"email"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New application from Ada", n.Content)
}

func TestBuildWithoutTemplateStillProducesNotification(t *testing.T) {
	resolver := &fakeResolver{}
	engine := templates.NewEngine(resolver, zap.NewNop())
	b := NewBuilder(engine, resolver, testRegistry(), zap.NewNop())

	n, err := b.Build(context.Background(), Intent{
		Type:        models.TypeNewApplication,
		RecipientID: "rec-1",
		Channels:    []string{"email"},
	})
	require.NoError(t, err)
	assert.Nil(t, n.TemplateID)
	assert.Empty(t, n.Content)
	assert.Equal(t, models.StatusPending, n.Status)
}

func TestBuildDropsUnknownChannels(t *testing.T) {
	resolver := &fakeResolver{}
	engine := templates.NewEngine(resolver, zap.NewNop())
	b := NewBuilder(engine, resolver, testRegistry(), zap.NewNop())

	n, err := b.Build(context.Background(), Intent{
		Type:        models.TypeNewApplication,
		RecipientID: "rec-1",
		Channels:    []string{"email", "carrier-pigeon", "in-app"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"email", "in-app"}, n.Channels)
}

func TestBuildRenderErrorAborts(t *testing.T) {
	tmpl := &models.Template{
		ID:      uuid.New(),
		Name:    "broken",
		Content: "{{.name",
	}
	resolver := &fakeResolver{byName: map[string]*models.Template{"broken": tmpl}}
	engine := templates.NewEngine(resolver, zap.NewNop())
	b := NewBuilder(engine, resolver, testRegistry(), zap.NewNop())

	_, err := b.Build(context.Background(), Intent{
		Type:         models.TypeNewApplication,
		RecipientID:  "rec-1",
		TemplateName: "broken",
		Channels:     []string{"email"},
	})
	var renderErr *templates.RenderError
	assert.ErrorAs(t, err, &renderErr)
}
