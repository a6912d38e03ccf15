package models

import (
	"time"

	"github.com/google/uuid"
)

type Template struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null;index" json:"name"`
	Type      string     `gorm:"size:100;not null;index" json:"type"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Variables StringList `gorm:"type:jsonb" json:"variables"`
	Active    bool       `gorm:"default:true" json:"active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
