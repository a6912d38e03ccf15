package channels

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/gomailer"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/gosms"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

type fakeMailer struct {
	sent []gomailer.Email
	err  error
}

func (m *fakeMailer) Send(email gomailer.Email) error {
	m.sent = append(m.sent, email)
	return m.err
}

type fakeSender struct {
	sent []gosms.SMS
	err  error
}

func (s *fakeSender) Send(sms gosms.SMS) error {
	s.sent = append(s.sent, sms)
	return s.err
}

type fakeDirectory struct {
	recipients map[string]*models.Recipient
}

func (d *fakeDirectory) FindByID(ctx context.Context, id string) (*models.Recipient, error) {
	r, ok := d.recipients[id]
	if !ok {
		return nil, errors.New("recipient not found")
	}
	return r, nil
}

func notification(recipientID string, chs ...string) *models.Notification {
	return &models.Notification{
		ID:          uuid.New(),
		Type:        models.TypeNewApplication,
		RecipientID: recipientID,
		Content:     "<p>hello</p>",
		Channels:    models.StringList(chs),
	}
}

func TestRegistryEligible(t *testing.T) {
	email := NewEmailChannel(&fakeMailer{}, &fakeDirectory{}, "no-reply@x.io", zap.NewNop())
	sms := NewSMSChannel(&fakeSender{}, &fakeDirectory{}, zap.NewNop())
	registry := NewRegistry(email, sms)

	eligible := registry.Eligible(notification("r-1", "email"))
	require.Len(t, eligible, 1)
	assert.Equal(t, EmailChannelName, eligible[0].Name())

	assert.Empty(t, registry.Eligible(notification("r-1", "in-app")))
	assert.Len(t, registry.Eligible(notification("r-1", "email", "sms")), 2)
}

func TestRegistryKnown(t *testing.T) {
	registry := NewRegistry(NewSMSChannel(&fakeSender{}, &fakeDirectory{}, zap.NewNop()))

	assert.True(t, registry.Known("sms"))
	assert.False(t, registry.Known("email"))
}

func TestEmailChannelSends(t *testing.T) {
	mailer := &fakeMailer{}
	directory := &fakeDirectory{recipients: map[string]*models.Recipient{
		"r-1": {ID: "r-1", Email: "ada@example.com"},
	}}
	ch := NewEmailChannel(mailer, directory, "no-reply@x.io", zap.NewNop())

	n := notification("r-1", "email")
	n.Metadata = models.JSONMap{"subject": "Your Interview"}
	outcome := ch.Send(context.Background(), n)

	assert.True(t, outcome.Success)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, mailer.sent[0].To)
	assert.Equal(t, "Your Interview", mailer.sent[0].Subject)
	assert.Equal(t, "<p>hello</p>", mailer.sent[0].HTML)
}

func TestEmailChannelMissingAddress(t *testing.T) {
	directory := &fakeDirectory{recipients: map[string]*models.Recipient{
		"r-1": {ID: "r-1"},
	}}
	ch := NewEmailChannel(&fakeMailer{}, directory, "no-reply@x.io", zap.NewNop())

	outcome := ch.Send(context.Background(), notification("r-1", "email"))

	assert.False(t, outcome.Success)
	assert.Equal(t, "missing email", outcome.Details["reason"])
}

func TestEmailChannelUnknownRecipient(t *testing.T) {
	ch := NewEmailChannel(&fakeMailer{}, &fakeDirectory{}, "no-reply@x.io", zap.NewNop())

	outcome := ch.Send(context.Background(), notification("ghost", "email"))

	assert.False(t, outcome.Success)
	assert.Error(t, outcome.Err)
}

func TestSMSChannelNormalizesNumber(t *testing.T) {
	sender := &fakeSender{}
	directory := &fakeDirectory{recipients: map[string]*models.Recipient{
		"r-1": {ID: "r-1", Phone: "+1 415 555 2671"},
	}}
	ch := NewSMSChannel(sender, directory, zap.NewNop())

	outcome := ch.Send(context.Background(), notification("r-1", "sms"))

	assert.True(t, outcome.Success)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+14155552671", sender.sent[0].To)
}

func TestSMSChannelMissingPhone(t *testing.T) {
	directory := &fakeDirectory{recipients: map[string]*models.Recipient{
		"r-1": {ID: "r-1", Email: "ada@example.com"},
	}}
	ch := NewSMSChannel(&fakeSender{}, directory, zap.NewNop())

	outcome := ch.Send(context.Background(), notification("r-1", "sms"))

	assert.False(t, outcome.Success)
	assert.Equal(t, "missing phone", outcome.Details["reason"])
}

func TestDeliveredAndFailedConstructors(t *testing.T) {
	ok := Delivered("m-1", map[string]interface{}{"to": "x"})
	assert.True(t, ok.Success)
	assert.Equal(t, "m-1", ok.MessageID)
	assert.False(t, ok.Timestamp.IsZero())

	bad := Failed(errors.New("boom"), nil)
	assert.False(t, bad.Success)
	assert.EqualError(t, bad.Err, "boom")
}
