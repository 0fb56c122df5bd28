package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is one chat message in a contract's conversation thread between
// the admin, the client, and the attached affiliate.
type Message struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ContractID uint           `gorm:"not null;index" json:"contract_id"`
	SenderID   uint           `gorm:"not null;index" json:"sender_id"`
	SenderRole string         `gorm:"size:20" json:"sender_role"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	ReadAt     *time.Time     `json:"read_at"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Contract Contract `gorm:"foreignKey:ContractID" json:"-"`
	Sender   User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string { return "messages" }
