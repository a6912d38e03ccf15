package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
)

// ApplicationHandler covers the candidate application lifecycle:
// candidate.application.created, candidate.application.updated and
// candidate.assessment.completed.
type ApplicationHandler struct {
	sender NotificationSender
	log    *zap.Logger
}

func NewApplicationHandler(sender NotificationSender, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{sender: sender, log: log}
}

type applicationPayload struct {
	CandidateID     string   `json:"candidateId"`
	CandidateName   string   `json:"candidateName"`
	CompanyName     string   `json:"companyName"`
	RecruiterIDs    []string `json:"recruiterIds"`
	UpdatedFields   []string `json:"updatedFields"`
	AssessmentScore float64  `json:"assessmentScore"`
	Position        struct {
		Title string `json:"title"`
	} `json:"position"`
}

func (h *ApplicationHandler) Handle(ctx context.Context, event Event) error {
	var payload applicationPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.CandidateID == "" {
		return fmt.Errorf("%w: missing candidateId", ErrMalformedPayload)
	}

	switch event.Type {
	case "candidate.application.created":
		return h.applicationCreated(ctx, event, payload)
	case "candidate.application.updated":
		return h.applicationUpdated(ctx, event, payload)
	case "candidate.assessment.completed":
		return h.assessmentCompleted(ctx, event, payload)
	default:
		h.log.Warn("unhandled application event type", zap.String("event_type", event.Type))
		return nil
	}
}

func (h *ApplicationHandler) applicationCreated(ctx context.Context, event Event, payload applicationPayload) error {
	var errs []error
	for _, recruiterID := range payload.RecruiterIDs {
		if recruiterID == "" {
			continue
		}
		err := h.sender.Send(ctx, notify.Intent{
			Type:        models.TypeNewApplication,
			RecipientID: recruiterID,
			TemplateData: map[string]interface{}{
				"candidateName":   payload.CandidateName,
				"position":        payload.Position.Title,
				"applicationDate": event.Timestamp,
			},
			Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
			CorrelationID: event.CorrelationID,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	err := h.sender.Send(ctx, notify.Intent{
		Type:        models.TypeApplicationReceived,
		RecipientID: payload.CandidateID,
		TemplateData: map[string]interface{}{
			"position":        payload.Position.Title,
			"companyName":     payload.CompanyName,
			"applicationDate": event.Timestamp,
		},
		Channels:      []string{channels.EmailChannelName},
		CorrelationID: event.CorrelationID,
	})
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (h *ApplicationHandler) applicationUpdated(ctx context.Context, event Event, payload applicationPayload) error {
	return h.sender.Send(ctx, notify.Intent{
		Type:        models.TypeApplicationUpdated,
		RecipientID: payload.CandidateID,
		TemplateData: map[string]interface{}{
			"position":      payload.Position.Title,
			"updatedFields": strings.Join(payload.UpdatedFields, ", "),
			"updatedAt":     event.Timestamp,
		},
		Channels:      []string{channels.InAppChannelName},
		CorrelationID: event.CorrelationID,
	})
}

func (h *ApplicationHandler) assessmentCompleted(ctx context.Context, event Event, payload applicationPayload) error {
	var errs []error
	err := h.sender.Send(ctx, notify.Intent{
		Type:        models.TypeAssessmentCompleted,
		RecipientID: payload.CandidateID,
		TemplateData: map[string]interface{}{
			"position":    payload.Position.Title,
			"score":       payload.AssessmentScore,
			"completedAt": event.Timestamp,
		},
		Channels:      []string{channels.EmailChannelName},
		CorrelationID: event.CorrelationID,
	})
	if err != nil {
		errs = append(errs, err)
	}

	for _, recruiterID := range payload.RecruiterIDs {
		if recruiterID == "" {
			continue
		}
		err := h.sender.Send(ctx, notify.Intent{
			Type:        models.TypeAssessmentCompleted,
			RecipientID: recruiterID,
			TemplateData: map[string]interface{}{
				"candidateName": payload.CandidateName,
				"position":      payload.Position.Title,
				"score":         payload.AssessmentScore,
				"completedAt":   event.Timestamp,
			},
			Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
			CorrelationID: event.CorrelationID,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
