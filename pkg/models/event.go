package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is the consumer-side audit log of inbound domain events.
type Event struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Type          string     `gorm:"size:100;not null;index" json:"type"`
	Payload       []byte     `gorm:"type:jsonb" json:"payload"`
	Source        string     `gorm:"size:100" json:"source"`
	CorrelationID uuid.UUID  `gorm:"type:uuid;index" json:"correlationId"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	Processed     bool       `gorm:"default:false" json:"processed"`
}
