package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

type fakeStore struct {
	templates map[uuid.UUID]*models.Template
	calls     int
}

func (f *fakeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	f.calls++
	tmpl, ok := f.templates[id]
	if !ok {
		return nil, errors.New("template not found")
	}
	return tmpl, nil
}

func newFakeStore(tmpl *models.Template) *fakeStore {
	return &fakeStore{templates: map[uuid.UUID]*models.Template{tmpl.ID: tmpl}}
}

func TestRender(t *testing.T) {
	tmpl := &models.Template{
		ID:        uuid.New(),
		Name:      "greeting",
		Content:   "Hello {{.name}}, your interview is at {{.time}}.",
		Variables: []string{"name", "time"},
	}
	store := newFakeStore(tmpl)
	engine := NewEngine(store, zap.NewNop())

	out, err := engine.Render(context.Background(), tmpl.ID, map[string]interface{}{
		"name": "Ada",
		"time": "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, your interview is at 10:00.", out)
}

func TestRenderMissingDataRendersEmpty(t *testing.T) {
	tmpl := &models.Template{
		ID:        uuid.New(),
		Name:      "greeting",
		Content:   "Hello {{.name}}{{.suffix}}",
		Variables: []string{"name", "suffix"},
	}
	engine := NewEngine(newFakeStore(tmpl), zap.NewNop())

	out, err := engine.Render(context.Background(), tmpl.ID, map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", out)
}

func TestRenderCachesCompiledTemplate(t *testing.T) {
	tmpl := &models.Template{
		ID:        uuid.New(),
		Name:      "cached",
		Content:   "{{.x}}",
		Variables: []string{"x"},
	}
	store := newFakeStore(tmpl)
	engine := NewEngine(store, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := engine.Render(context.Background(), tmpl.ID, map[string]interface{}{"x": "v"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.calls, "store should be hit once, then cache serves renders")
}

func TestInvalidateForcesRecompile(t *testing.T) {
	tmpl := &models.Template{
		ID:        uuid.New(),
		Name:      "versioned",
		Content:   "v1 {{.x}}",
		Variables: []string{"x"},
	}
	store := newFakeStore(tmpl)
	engine := NewEngine(store, zap.NewNop())

	out, err := engine.Render(context.Background(), tmpl.ID, map[string]interface{}{"x": "a"})
	require.NoError(t, err)
	assert.Equal(t, "v1 a", out)

	tmpl.Content = "v2 {{.x}}"
	engine.Invalidate(tmpl.ID)

	out, err = engine.Render(context.Background(), tmpl.ID, map[string]interface{}{"x": "a"})
	require.NoError(t, err)
	assert.Equal(t, "v2 a", out)
	assert.Equal(t, 2, store.calls)
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine := NewEngine(&fakeStore{templates: map[uuid.UUID]*models.Template{}}, zap.NewNop())

	_, err := engine.Render(context.Background(), uuid.New(), nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}

func TestRenderSyntaxError(t *testing.T) {
	tmpl := &models.Template{
		ID:      uuid.New(),
		Name:    "broken",
		Content: "Hello {{.name",
	}
	engine := NewEngine(newFakeStore(tmpl), zap.NewNop())

	_, err := engine.Render(context.Background(), tmpl.ID, nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, tmpl.ID, renderErr.TemplateID)
}

func TestValidate(t *testing.T) {
	engine := NewEngine(&fakeStore{}, zap.NewNop())

	err := engine.Validate("Hello {{.name}}", []string{"name"})
	assert.NoError(t, err)

	err = engine.Validate("{{if .vip}}Hi {{.name}}{{end}}", []string{"name", "vip"})
	assert.NoError(t, err)
}

func TestValidateUndeclaredVariables(t *testing.T) {
	engine := NewEngine(&fakeStore{}, zap.NewNop())

	err := engine.Validate("Hello {{.name}}, see {{.link}}", []string{"name"})
	var undeclared *UndeclaredVariableError
	require.ErrorAs(t, err, &undeclared)
	assert.Equal(t, []string{"link"}, undeclared.Names)
}

func TestValidateSyntaxError(t *testing.T) {
	engine := NewEngine(&fakeStore{}, zap.NewNop())

	err := engine.Validate("{{.name", nil)
	assert.Error(t, err)
}
