package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentTransaction struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ContractID    uint           `gorm:"not null;index" json:"contract_id"`
	ClientID      uint           `gorm:"not null;index" json:"client_id"`
	Amount        float64        `json:"amount"`
	PaymentMethod string         `gorm:"size:50" json:"payment_method"`
	ProofURL      string         `gorm:"size:512" json:"proof_url"`
	Notes         string         `gorm:"type:text" json:"notes"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // pending | verified | rejected
	ReviewedByID  *uint          `json:"reviewed_by_id"`
	ReviewedAt    *time.Time     `json:"reviewed_at"`
	ReviewNotes   string         `gorm:"type:text" json:"review_notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Contract Contract `gorm:"foreignKey:ContractID" json:"-"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
