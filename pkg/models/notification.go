package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification statuses. Delivered and failed are terminal.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Notification kinds produced by the event handlers.
const (
	TypeNewApplication      = "new_application"
	TypeApplicationReceived = "application_received"
	TypeApplicationUpdated  = "application_updated"
	TypeAssessmentCompleted = "assessment_completed"
	TypeInterviewScheduled  = "interview_scheduled"
	TypeInterviewCancelled  = "interview_cancelled"
	TypeInterviewReminder   = "interview_reminder"
	TypeFeedbackRequested   = "feedback_requested"
	TypeOfferCreated        = "offer_created"
	TypeOfferSent           = "offer_sent"
	TypeOfferAccepted       = "offer_accepted"
	TypeOfferRejected       = "offer_rejected"
	TypeOfferExpired        = "offer_expired"
)

type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Type          string     `gorm:"size:100;not null;index" json:"type"`
	RecipientID   string     `gorm:"size:100;not null;index" json:"recipientId"`
	TemplateID    *uuid.UUID `gorm:"type:uuid" json:"templateId,omitempty"`
	Content       string     `gorm:"type:text" json:"content"`
	Metadata      JSONMap    `gorm:"type:jsonb" json:"metadata,omitempty"`
	Status        string     `gorm:"size:50;not null;index" json:"status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	ScheduledFor  time.Time  `json:"scheduledFor"`
	Channels      StringList `gorm:"type:jsonb" json:"channels"`
	RetryCount    int        `gorm:"not null;default:0" json:"retryCount"`
	LastRetryAt   *time.Time `json:"lastRetryAt,omitempty"`
	ErrorDetails  string     `gorm:"type:text" json:"errorDetails,omitempty"`
	CorrelationID uuid.UUID  `gorm:"type:uuid;index" json:"correlationId"`
	TemplateData  JSONMap    `gorm:"type:jsonb" json:"templateData,omitempty"`
}

// Terminal reports whether the notification has reached a final status.
func (n *Notification) Terminal() bool {
	return n.Status == StatusDelivered || n.Status == StatusFailed
}

// DeliveryAttempt is an append-only audit record, one per channel per
// dispatch cycle.
type DeliveryAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;index" json:"notificationId"`
	AttemptNumber  int       `gorm:"not null" json:"attemptNumber"`
	Channel        string    `gorm:"size:50;not null" json:"channel"`
	Status         string    `gorm:"size:50;not null" json:"status"`
	ErrorDetails   string    `gorm:"type:text" json:"errorDetails,omitempty"`
	LatencyMs      int64     `gorm:"not null" json:"latencyMs"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
