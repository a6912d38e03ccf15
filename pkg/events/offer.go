package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
)

// OfferHandler covers the offer lifecycle. Offer traffic is staff-facing
// paperwork plus the candidate-facing send, all email only.
type OfferHandler struct {
	sender NotificationSender
	log    *zap.Logger
}

func NewOfferHandler(sender NotificationSender, log *zap.Logger) *OfferHandler {
	return &OfferHandler{sender: sender, log: log}
}

type offerDetails struct {
	ID                string    `json:"id"`
	JobTitle          string    `json:"jobTitle"`
	CompanyName       string    `json:"companyName"`
	StartDate         time.Time `json:"startDate"`
	ValidUntil        time.Time `json:"validUntil"`
	ReviewLink        string    `json:"reviewLink"`
	CandidateViewLink string    `json:"candidateViewLink"`
	DetailsLink       string    `json:"detailsLink"`
	RequiresApproval  bool      `json:"requiresApproval"`
	SummaryText       string    `json:"summaryText"`
	AttachmentURLs    []string  `json:"attachmentUrls"`
	Compensation      struct {
		Salary float64 `json:"salary"`
	} `json:"compensation"`
}

type offerPayload struct {
	CandidateID       string       `json:"candidateId"`
	CandidateName     string       `json:"candidateName"`
	CandidateEmail    string       `json:"candidateEmail"`
	RecruiterID       string       `json:"recruiterId"`
	RecruiterName     string       `json:"recruiterName"`
	HiringManagerID   string       `json:"hiringManagerId"`
	HiringManagerName string       `json:"hiringManagerName"`
	OfferDetails      offerDetails `json:"offerDetails"`
	AcceptanceDate    time.Time    `json:"acceptanceDate"`
	RejectionDate     time.Time    `json:"rejectionDate"`
	RejectionReason   string       `json:"rejectionReason"`
}

func (h *OfferHandler) Handle(ctx context.Context, event Event) error {
	var payload offerPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch event.Type {
	case "offer_created":
		return h.created(ctx, event, payload)
	case "offer_sent":
		return h.sent(ctx, event, payload)
	case "offer_accepted":
		return h.decided(ctx, event, payload, true)
	case "offer_rejected":
		return h.decided(ctx, event, payload, false)
	case "offer_expired":
		return h.expired(ctx, event, payload)
	default:
		h.log.Warn("unhandled offer event type", zap.String("event_type", event.Type))
		return nil
	}
}

func (h *OfferHandler) created(ctx context.Context, event Event, payload offerPayload) error {
	offer := payload.OfferDetails
	var errs []error

	if payload.HiringManagerID != "" {
		priority := "medium"
		if offer.RequiresApproval {
			priority = "high"
		}
		err := h.sender.Send(ctx, notify.Intent{
			Type:         models.TypeOfferCreated,
			RecipientID:  payload.HiringManagerID,
			TemplateName: "offer_created_hiring_manager",
			TemplateData: map[string]interface{}{
				"managerName":      payload.HiringManagerName,
				"candidateName":    payload.CandidateName,
				"jobTitle":         offer.JobTitle,
				"salary":           offer.Compensation.Salary,
				"startDate":        offer.StartDate,
				"offerLink":        offer.ReviewLink,
				"approvalRequired": offer.RequiresApproval,
			},
			Channels:      []string{channels.EmailChannelName},
			CorrelationID: event.CorrelationID,
			Metadata: map[string]interface{}{
				"subject":        fmt.Sprintf("Offer Created for %s", payload.CandidateName),
				"offerId":        offer.ID,
				"priority":       priority,
				"actionRequired": offer.RequiresApproval,
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if payload.RecruiterID != "" {
		nextSteps := "Ready to send to candidate"
		if offer.RequiresApproval {
			nextSteps = "Waiting for hiring manager approval"
		}
		err := h.sender.Send(ctx, notify.Intent{
			Type:         models.TypeOfferCreated,
			RecipientID:  payload.RecruiterID,
			TemplateName: "offer_created_recruiter",
			TemplateData: map[string]interface{}{
				"recruiterName": payload.RecruiterName,
				"candidateName": payload.CandidateName,
				"jobTitle":      offer.JobTitle,
				"salary":        offer.Compensation.Salary,
				"startDate":     offer.StartDate,
				"offerLink":     offer.ReviewLink,
				"nextSteps":     nextSteps,
			},
			Channels:      []string{channels.EmailChannelName},
			CorrelationID: event.CorrelationID,
			Metadata: map[string]interface{}{
				"subject":  fmt.Sprintf("Offer Created for %s", payload.CandidateName),
				"offerId":  offer.ID,
				"priority": "medium",
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *OfferHandler) sent(ctx context.Context, event Event, payload offerPayload) error {
	offer := payload.OfferDetails
	var errs []error

	if payload.CandidateID != "" {
		err := h.sender.Send(ctx, notify.Intent{
			Type:         models.TypeOfferSent,
			RecipientID:  payload.CandidateID,
			TemplateName: "offer_sent_candidate",
			TemplateData: map[string]interface{}{
				"candidateName":   payload.CandidateName,
				"jobTitle":        offer.JobTitle,
				"companyName":     offer.CompanyName,
				"offerLink":       offer.CandidateViewLink,
				"offerValidUntil": offer.ValidUntil,
				"contactPerson":   payload.RecruiterName,
			},
			Channels:      []string{channels.EmailChannelName},
			CorrelationID: event.CorrelationID,
			Metadata: map[string]interface{}{
				"subject":     fmt.Sprintf("Your Job Offer from %s", offer.CompanyName),
				"offerId":     offer.ID,
				"priority":    "high",
				"attachments": offer.AttachmentURLs,
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if payload.RecruiterID != "" {
		err := h.sender.Send(ctx, notify.Intent{
			Type:         models.TypeOfferSent,
			RecipientID:  payload.RecruiterID,
			TemplateName: "offer_sent_confirmation",
			TemplateData: map[string]interface{}{
				"recruiterName":   payload.RecruiterName,
				"candidateName":   payload.CandidateName,
				"jobTitle":        offer.JobTitle,
				"sentTime":        event.Timestamp,
				"offerValidUntil": offer.ValidUntil,
				"offerDetails":    offer.SummaryText,
			},
			Channels:      []string{channels.EmailChannelName},
			CorrelationID: event.CorrelationID,
			Metadata: map[string]interface{}{
				"subject": fmt.Sprintf("Offer Sent to %s", payload.CandidateName),
				"offerId": offer.ID,
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type staffRecipient struct {
	id        string
	name      string
	isManager bool
}

func (p offerPayload) staff() []staffRecipient {
	var recipients []staffRecipient
	if p.HiringManagerID != "" {
		recipients = append(recipients, staffRecipient{id: p.HiringManagerID, name: p.HiringManagerName, isManager: true})
	}
	if p.RecruiterID != "" {
		recipients = append(recipients, staffRecipient{id: p.RecruiterID, name: p.RecruiterName})
	}
	return recipients
}

func (h *OfferHandler) decided(ctx context.Context, event Event, payload offerPayload, accepted bool) error {
	offer := payload.OfferDetails
	var errs []error

	for _, recipient := range payload.staff() {
		var intent notify.Intent
		if accepted {
			nextSteps := "Please initiate the onboarding process"
			if recipient.isManager {
				nextSteps = "Please coordinate onboarding with HR"
			}
			intent = notify.Intent{
				Type:         models.TypeOfferAccepted,
				RecipientID:  recipient.id,
				TemplateName: "offer_accepted",
				TemplateData: map[string]interface{}{
					"recipientName":    recipient.name,
					"candidateName":    payload.CandidateName,
					"jobTitle":         offer.JobTitle,
					"acceptanceDate":   payload.AcceptanceDate,
					"startDate":        offer.StartDate,
					"nextSteps":        nextSteps,
					"offerDetailsLink": offer.DetailsLink,
				},
				Channels:      []string{channels.EmailChannelName},
				CorrelationID: event.CorrelationID,
				Metadata: map[string]interface{}{
					"subject":        fmt.Sprintf("%s Has Accepted Offer", payload.CandidateName),
					"offerId":        offer.ID,
					"priority":       "high",
					"actionRequired": true,
				},
			}
		} else {
			intent = notify.Intent{
				Type:         models.TypeOfferRejected,
				RecipientID:  recipient.id,
				TemplateName: "offer_rejected",
				TemplateData: map[string]interface{}{
					"recipientName":    recipient.name,
					"candidateName":    payload.CandidateName,
					"jobTitle":         offer.JobTitle,
					"rejectionDate":    payload.RejectionDate,
					"rejectionReason":  defaultString(payload.RejectionReason, "No reason provided"),
					"offerDetailsLink": offer.DetailsLink,
				},
				Channels:      []string{channels.EmailChannelName},
				CorrelationID: event.CorrelationID,
				Metadata: map[string]interface{}{
					"subject":  fmt.Sprintf("%s Has Declined Offer", payload.CandidateName),
					"offerId":  offer.ID,
					"priority": "medium",
				},
			}
		}
		if err := h.sender.Send(ctx, intent); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *OfferHandler) expired(ctx context.Context, event Event, payload offerPayload) error {
	if payload.RecruiterID == "" {
		h.log.Warn("offer expiry without recruiter",
			zap.String("correlation_id", event.CorrelationID.String()),
		)
		return nil
	}

	offer := payload.OfferDetails
	return h.sender.Send(ctx, notify.Intent{
		Type:         models.TypeOfferExpired,
		RecipientID:  payload.RecruiterID,
		TemplateName: "offer_expired",
		TemplateData: map[string]interface{}{
			"recruiterName":        payload.RecruiterName,
			"candidateName":        payload.CandidateName,
			"jobTitle":             offer.JobTitle,
			"expirationDate":       offer.ValidUntil,
			"offerDetailsLink":     offer.DetailsLink,
			"candidateContactInfo": payload.CandidateEmail,
		},
		Channels:      []string{channels.EmailChannelName},
		CorrelationID: event.CorrelationID,
		Metadata: map[string]interface{}{
			"subject":        fmt.Sprintf("Offer for %s Has Expired", payload.CandidateName),
			"offerId":        offer.ID,
			"priority":       "medium",
			"actionRequired": true,
		},
	})
}
