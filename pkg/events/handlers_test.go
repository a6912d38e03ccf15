package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
)

type recordingSender struct {
	intents []notify.Intent
	err     error
}

func (s *recordingSender) Send(ctx context.Context, intent notify.Intent) error {
	s.intents = append(s.intents, intent)
	return s.err
}

func event(t *testing.T, eventType string, payload interface{}) Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Event{
		Type:          eventType,
		Timestamp:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Source:        "ats",
		CorrelationID: uuid.New(),
		Payload:       raw,
	}
}

func TestApplicationCreatedFansOut(t *testing.T) {
	sender := &recordingSender{}
	h := NewApplicationHandler(sender, zap.NewNop())

	evt := event(t, "candidate.application.created", map[string]interface{}{
		"candidateId":   "cand-1",
		"candidateName": "Ada Lovelace",
		"companyName":   "HireStream",
		"recruiterIds":  []string{"rec-1", "rec-2"},
		"position":      map[string]string{"title": "Backend Engineer"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 3)

	recruiter := sender.intents[0]
	assert.Equal(t, models.TypeNewApplication, recruiter.Type)
	assert.Equal(t, "rec-1", recruiter.RecipientID)
	assert.ElementsMatch(t, []string{"email", "in-app"}, recruiter.Channels)
	assert.Equal(t, "Ada Lovelace", recruiter.TemplateData["candidateName"])

	candidate := sender.intents[2]
	assert.Equal(t, models.TypeApplicationReceived, candidate.Type)
	assert.Equal(t, "cand-1", candidate.RecipientID)
	assert.Equal(t, []string{"email"}, candidate.Channels)
	assert.Equal(t, evt.CorrelationID, candidate.CorrelationID)
}

func TestApplicationCreatedSendFailureDoesNotAbortSiblings(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	h := NewApplicationHandler(sender, zap.NewNop())

	evt := event(t, "candidate.application.created", map[string]interface{}{
		"candidateId":  "cand-1",
		"recruiterIds": []string{"rec-1", "rec-2"},
		"position":     map[string]string{"title": "QA"},
	})
	err := h.Handle(context.Background(), evt)
	assert.Error(t, err)
	assert.Len(t, sender.intents, 3, "every recipient should still be attempted")
}

func TestApplicationCreatedSkipsEmptyRecruiterIDs(t *testing.T) {
	sender := &recordingSender{}
	h := NewApplicationHandler(sender, zap.NewNop())

	evt := event(t, "candidate.application.created", map[string]interface{}{
		"candidateId":  "cand-1",
		"recruiterIds": []string{"", "rec-1"},
		"position":     map[string]string{"title": "QA"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))
	require.Len(t, sender.intents, 2)
	assert.Equal(t, "rec-1", sender.intents[0].RecipientID)
}

func TestApplicationUpdatedNotifiesCandidateInApp(t *testing.T) {
	sender := &recordingSender{}
	h := NewApplicationHandler(sender, zap.NewNop())

	evt := event(t, "candidate.application.updated", map[string]interface{}{
		"candidateId":   "cand-1",
		"updatedFields": []string{"status", "stage"},
		"position":      map[string]string{"title": "QA"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 1)
	assert.Equal(t, models.TypeApplicationUpdated, sender.intents[0].Type)
	assert.Equal(t, []string{"in-app"}, sender.intents[0].Channels)
	assert.Equal(t, "status, stage", sender.intents[0].TemplateData["updatedFields"])
}

func TestApplicationMalformedPayload(t *testing.T) {
	h := NewApplicationHandler(&recordingSender{}, zap.NewNop())

	err := h.Handle(context.Background(), Event{
		Type:    "candidate.application.created",
		Payload: json.RawMessage(`{"candidateId": 42}`),
	})
	assert.ErrorIs(t, err, ErrMalformedPayload)

	err = h.Handle(context.Background(), Event{
		Type:    "candidate.application.created",
		Payload: json.RawMessage(`{"recruiterIds": ["rec-1"]}`),
	})
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestApplicationUnknownSubtypeIgnored(t *testing.T) {
	sender := &recordingSender{}
	h := NewApplicationHandler(sender, zap.NewNop())

	evt := event(t, "candidate.application.archived", map[string]interface{}{
		"candidateId": "cand-1",
	})
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Empty(t, sender.intents)
}

func TestInterviewScheduledNotifiesBothSides(t *testing.T) {
	sender := &recordingSender{}
	h := NewInterviewHandler(sender, zap.NewNop())

	evt := event(t, "interview_scheduled", map[string]interface{}{
		"candidateId":     "cand-1",
		"candidateName":   "Ada Lovelace",
		"interviewerId":   "int-1",
		"interviewerName": "Grace Hopper",
		"interviewDetails": map[string]interface{}{
			"id":              "iv-9",
			"scheduledTime":   "2026-03-12T14:00:00Z",
			"type":            "technical",
			"durationMinutes": 60,
			"jobTitle":        "Backend Engineer",
		},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 2)
	candidate, interviewer := sender.intents[0], sender.intents[1]

	assert.Equal(t, "interview_scheduled_candidate", candidate.TemplateName)
	assert.Equal(t, "interview_scheduled_interviewer", interviewer.TemplateName)
	assert.Equal(t, "Remote", candidate.TemplateData["interviewLocation"])

	calendar, ok := candidate.Metadata["calendarEvent"].(map[string]interface{})
	require.True(t, ok)
	start := calendar["startTime"].(time.Time)
	end := calendar["endTime"].(time.Time)
	assert.Equal(t, time.Hour, end.Sub(start))
}

func TestInterviewCancelledDefaultsReason(t *testing.T) {
	sender := &recordingSender{}
	h := NewInterviewHandler(sender, zap.NewNop())

	evt := event(t, "interview_cancelled", map[string]interface{}{
		"candidateId":      "cand-1",
		"interviewDetails": map[string]interface{}{"id": "iv-9"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 1)
	assert.Equal(t, "Scheduling conflict", sender.intents[0].TemplateData["cancellationReason"])
	assert.Equal(t, true, sender.intents[0].Metadata["cancelCalendarEvent"])
}

func TestInterviewReminderWithoutRecipientIsDropped(t *testing.T) {
	sender := &recordingSender{}
	h := NewInterviewHandler(sender, zap.NewNop())

	evt := event(t, "interview_reminder", map[string]interface{}{
		"interviewDetails": map[string]interface{}{"id": "iv-9"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Empty(t, sender.intents)
}

func TestInterviewReminderPicksTemplateByRole(t *testing.T) {
	sender := &recordingSender{}
	h := NewInterviewHandler(sender, zap.NewNop())

	evt := event(t, "interview_reminder", map[string]interface{}{
		"recipientId":      "cand-1",
		"recipientType":    "candidate",
		"interviewDetails": map[string]interface{}{"id": "iv-9"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 1)
	assert.Equal(t, "interview_reminder_candidate", sender.intents[0].TemplateName)
	assert.NotContains(t, sender.intents[0].TemplateData, "candidateName")
}

func TestOfferAcceptedNotifiesStaffEmailOnly(t *testing.T) {
	sender := &recordingSender{}
	h := NewOfferHandler(sender, zap.NewNop())

	evt := event(t, "offer_accepted", map[string]interface{}{
		"candidateName":     "Ada Lovelace",
		"hiringManagerId":   "mgr-1",
		"hiringManagerName": "Marge",
		"recruiterId":       "rec-1",
		"recruiterName":     "Rick",
		"acceptanceDate":    "2026-03-11T12:00:00Z",
		"offerDetails":      map[string]interface{}{"id": "off-1", "jobTitle": "Backend Engineer"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 2)
	manager, recruiter := sender.intents[0], sender.intents[1]

	assert.Equal(t, models.TypeOfferAccepted, manager.Type)
	assert.Equal(t, []string{"email"}, manager.Channels)
	assert.Equal(t, "Please coordinate onboarding with HR", manager.TemplateData["nextSteps"])
	assert.Equal(t, "Please initiate the onboarding process", recruiter.TemplateData["nextSteps"])
}

func TestOfferRejectedDefaultsReason(t *testing.T) {
	sender := &recordingSender{}
	h := NewOfferHandler(sender, zap.NewNop())

	evt := event(t, "offer_rejected", map[string]interface{}{
		"candidateName": "Ada Lovelace",
		"recruiterId":   "rec-1",
		"offerDetails":  map[string]interface{}{"id": "off-1"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, sender.intents, 1)
	assert.Equal(t, "No reason provided", sender.intents[0].TemplateData["rejectionReason"])
}

func TestOfferExpiredWithoutRecruiterIsDropped(t *testing.T) {
	sender := &recordingSender{}
	h := NewOfferHandler(sender, zap.NewNop())

	evt := event(t, "offer_expired", map[string]interface{}{
		"candidateName": "Ada Lovelace",
		"offerDetails":  map[string]interface{}{"id": "off-1"},
	})
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Empty(t, sender.intents)
}
