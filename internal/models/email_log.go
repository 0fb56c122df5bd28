package models

import (
	"time"
)

// EmailLog records every outbound transactional email with per-recipient
// status.
type EmailLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Recipient string    `gorm:"size:255;not null;index" json:"recipient"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Template  string    `gorm:"size:50" json:"template"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // sent | failed
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailLog) TableName() string { return "email_logs" }
