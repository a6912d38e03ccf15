package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
)

// InterviewHandler covers the interview lifecycle events. Candidate and
// interviewer each get their own template; either side is skipped when the
// event does not name them.
type InterviewHandler struct {
	sender NotificationSender
	log    *zap.Logger
}

func NewInterviewHandler(sender NotificationSender, log *zap.Logger) *InterviewHandler {
	return &InterviewHandler{sender: sender, log: log}
}

type interviewDetails struct {
	ID                  string    `json:"id"`
	ScheduledTime       time.Time `json:"scheduledTime"`
	Type                string    `json:"type"`
	DurationMinutes     int       `json:"durationMinutes"`
	Location            string    `json:"location"`
	VideoConferenceLink string    `json:"videoConferenceLink"`
	PreparationInfo     string    `json:"preparationInfo"`
	JobTitle            string    `json:"jobTitle"`
	Description         string    `json:"description"`
}

type interviewPayload struct {
	CandidateID      string           `json:"candidateId"`
	CandidateName    string           `json:"candidateName"`
	InterviewerID    string           `json:"interviewerId"`
	InterviewerName  string           `json:"interviewerName"`
	InterviewDetails interviewDetails `json:"interviewDetails"`
	PreviousSchedule struct {
		ScheduledTime time.Time `json:"scheduledTime"`
	} `json:"previousSchedule"`
	RescheduledReason  string `json:"rescheduledReason"`
	CancellationReason string `json:"cancellationReason"`
	NextSteps          string `json:"nextSteps"`

	// Reminder events address a single recipient of either role.
	RecipientID   string `json:"recipientId"`
	RecipientName string `json:"recipientName"`
	RecipientType string `json:"recipientType"`

	FeedbackLink     string `json:"feedbackLink"`
	FeedbackDeadline string `json:"feedbackDeadline"`
}

func (h *InterviewHandler) Handle(ctx context.Context, event Event) error {
	var payload interviewPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch event.Type {
	case "interview_scheduled":
		return h.scheduled(ctx, event, payload, false)
	case "interview_rescheduled":
		return h.scheduled(ctx, event, payload, true)
	case "interview_cancelled":
		return h.cancelled(ctx, event, payload)
	case "interview_reminder":
		return h.reminder(ctx, event, payload)
	case "interview_feedback_requested":
		return h.feedbackRequested(ctx, event, payload)
	default:
		h.log.Warn("unhandled interview event type", zap.String("event_type", event.Type))
		return nil
	}
}

func (p interviewPayload) location() string {
	if p.InterviewDetails.Location != "" {
		return p.InterviewDetails.Location
	}
	return "Remote"
}

func (p interviewPayload) calendarEvent(title string) map[string]interface{} {
	details := p.InterviewDetails
	location := details.Location
	if location == "" {
		location = details.VideoConferenceLink
	}
	return map[string]interface{}{
		"title":       title,
		"startTime":   details.ScheduledTime,
		"endTime":     details.ScheduledTime.Add(time.Duration(details.DurationMinutes) * time.Minute),
		"location":    location,
		"description": details.Description,
	}
}

func (h *InterviewHandler) scheduled(ctx context.Context, event Event, payload interviewPayload, rescheduled bool) error {
	details := payload.InterviewDetails
	var errs []error

	if payload.CandidateID != "" {
		templateName := "interview_scheduled_candidate"
		subject := "Your Interview Has Been Scheduled"
		data := map[string]interface{}{
			"candidateName":     payload.CandidateName,
			"interviewDate":     details.ScheduledTime,
			"interviewType":     details.Type,
			"interviewDuration": details.DurationMinutes,
			"interviewLocation": payload.location(),
			"interviewLink":     details.VideoConferenceLink,
		}
		if rescheduled {
			templateName = "interview_rescheduled_candidate"
			subject = "Your Interview Has Been Rescheduled"
			data["previousDate"] = payload.PreviousSchedule.ScheduledTime
			data["newDate"] = details.ScheduledTime
			data["rescheduledReason"] = defaultString(payload.RescheduledReason, "Schedule adjustment")
		} else {
			data["interviewPreparationInfo"] = details.PreparationInfo
		}

		metadata := map[string]interface{}{
			"subject":       subject,
			"interviewId":   details.ID,
			"addToCalendar": true,
			"calendarEvent": payload.calendarEvent(fmt.Sprintf("Interview for %s", details.JobTitle)),
		}
		if rescheduled {
			metadata["updateExistingCalendarEvent"] = true
		}

		err := h.sender.Send(ctx, notify.Intent{
			Type:          models.TypeInterviewScheduled,
			RecipientID:   payload.CandidateID,
			TemplateName:  templateName,
			TemplateData:  data,
			Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
			CorrelationID: event.CorrelationID,
			Metadata:      metadata,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if payload.InterviewerID != "" {
		templateName := "interview_scheduled_interviewer"
		subject := fmt.Sprintf("Interview Scheduled with %s", payload.CandidateName)
		data := map[string]interface{}{
			"interviewerName":   payload.InterviewerName,
			"candidateName":     payload.CandidateName,
			"interviewDate":     details.ScheduledTime,
			"interviewType":     details.Type,
			"interviewDuration": details.DurationMinutes,
			"interviewLocation": payload.location(),
			"interviewLink":     details.VideoConferenceLink,
		}
		if rescheduled {
			templateName = "interview_rescheduled_interviewer"
			subject = fmt.Sprintf("Interview with %s Has Been Rescheduled", payload.CandidateName)
			data["previousDate"] = payload.PreviousSchedule.ScheduledTime
			data["newDate"] = details.ScheduledTime
			data["rescheduledReason"] = defaultString(payload.RescheduledReason, "Schedule adjustment")
		} else {
			data["jobTitle"] = details.JobTitle
		}

		metadata := map[string]interface{}{
			"subject":       subject,
			"interviewId":   details.ID,
			"addToCalendar": true,
			"calendarEvent": payload.calendarEvent(fmt.Sprintf("Interview with %s for %s", payload.CandidateName, details.JobTitle)),
		}
		if rescheduled {
			metadata["updateExistingCalendarEvent"] = true
		}

		err := h.sender.Send(ctx, notify.Intent{
			Type:          models.TypeInterviewScheduled,
			RecipientID:   payload.InterviewerID,
			TemplateName:  templateName,
			TemplateData:  data,
			Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
			CorrelationID: event.CorrelationID,
			Metadata:      metadata,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *InterviewHandler) cancelled(ctx context.Context, event Event, payload interviewPayload) error {
	details := payload.InterviewDetails
	reason := defaultString(payload.CancellationReason, "Scheduling conflict")
	var errs []error

	if payload.CandidateID != "" {
		err := h.sender.Send(ctx, notify.Intent{
			Type:         models.TypeInterviewCancelled,
			RecipientID:  payload.CandidateID,
			TemplateName: "interview_cancelled_candidate",
			TemplateData: map[string]interface{}{
				"candidateName":      payload.CandidateName,
				"interviewDate":      details.ScheduledTime,
				"interviewType":      details.Type,
				"jobTitle":           details.JobTitle,
				"cancellationReason": reason,
				"nextSteps":          defaultString(payload.NextSteps, "You will be contacted shortly about rescheduling."),
			},
			Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
			CorrelationID: event.CorrelationID,
			Metadata: map[string]interface{}{
				"subject":             "Your Interview Has Been Cancelled",
				"interviewId":         details.ID,
				"cancelCalendarEvent": true,
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if payload.InterviewerID != "" {
		err := h.sender.Send(ctx, notify.Intent{
			Type:         models.TypeInterviewCancelled,
			RecipientID:  payload.InterviewerID,
			TemplateName: "interview_cancelled_interviewer",
			TemplateData: map[string]interface{}{
				"interviewerName":    payload.InterviewerName,
				"candidateName":      payload.CandidateName,
				"interviewDate":      details.ScheduledTime,
				"interviewType":      details.Type,
				"jobTitle":           details.JobTitle,
				"cancellationReason": reason,
			},
			Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
			CorrelationID: event.CorrelationID,
			Metadata: map[string]interface{}{
				"subject":             fmt.Sprintf("Interview with %s Has Been Cancelled", payload.CandidateName),
				"interviewId":         details.ID,
				"cancelCalendarEvent": true,
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *InterviewHandler) reminder(ctx context.Context, event Event, payload interviewPayload) error {
	if payload.RecipientID == "" {
		h.log.Warn("interview reminder without recipient",
			zap.String("correlation_id", event.CorrelationID.String()),
		)
		return nil
	}

	details := payload.InterviewDetails
	templateName := "interview_reminder_interviewer"
	if payload.RecipientType == "candidate" {
		templateName = "interview_reminder_candidate"
	}

	data := map[string]interface{}{
		"recipientName":     payload.RecipientName,
		"interviewDate":     details.ScheduledTime,
		"hoursRemaining":    int(math.Round(time.Until(details.ScheduledTime).Hours())),
		"interviewLocation": payload.location(),
		"interviewLink":     details.VideoConferenceLink,
	}
	if payload.RecipientType != "candidate" {
		data["candidateName"] = payload.CandidateName
	}

	return h.sender.Send(ctx, notify.Intent{
		Type:          models.TypeInterviewReminder,
		RecipientID:   payload.RecipientID,
		TemplateName:  templateName,
		TemplateData:  data,
		Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
		CorrelationID: event.CorrelationID,
		Metadata: map[string]interface{}{
			"subject":     "Upcoming Interview Reminder",
			"interviewId": details.ID,
			"priority":    "high",
		},
	})
}

func (h *InterviewHandler) feedbackRequested(ctx context.Context, event Event, payload interviewPayload) error {
	if payload.InterviewerID == "" {
		h.log.Warn("feedback request without interviewer",
			zap.String("correlation_id", event.CorrelationID.String()),
		)
		return nil
	}

	details := payload.InterviewDetails
	return h.sender.Send(ctx, notify.Intent{
		Type:         models.TypeFeedbackRequested,
		RecipientID:  payload.InterviewerID,
		TemplateName: "interview_feedback_request",
		TemplateData: map[string]interface{}{
			"interviewerName": payload.InterviewerName,
			"candidateName":   payload.CandidateName,
			"interviewDate":   details.ScheduledTime,
			"jobTitle":        details.JobTitle,
			"feedbackLink":    payload.FeedbackLink,
			"deadlineDate":    payload.FeedbackDeadline,
		},
		Channels:      []string{channels.EmailChannelName, channels.InAppChannelName},
		CorrelationID: event.CorrelationID,
		Metadata: map[string]interface{}{
			"subject":           fmt.Sprintf("Feedback Requested for %s", payload.CandidateName),
			"interviewId":       details.ID,
			"priority":          "medium",
			"reminderScheduled": true,
			"reminderTime":      payload.FeedbackDeadline,
		},
	})
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
