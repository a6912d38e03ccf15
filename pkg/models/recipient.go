package models

import "time"

// Recipient holds the contact surface for a user known to the hiring
// pipeline. The ID is the external user reference carried on events.
type Recipient struct {
	ID        string    `gorm:"size:100;primaryKey" json:"id"`
	Name      string    `gorm:"size:200" json:"name"`
	Email     string    `gorm:"size:200;index" json:"email,omitempty"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
