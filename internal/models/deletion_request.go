package models

import (
	"time"

	"gorm.io/gorm"
)

// ContractDeletionRequest is the affiliate-initiated, admin-reviewed
// sub-workflow gating contract removal. The contract row is only removed on
// admin approval.
type ContractDeletionRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ContractID   uint           `gorm:"not null;index" json:"contract_id"`
	AffiliateID  uint           `gorm:"not null;index" json:"affiliate_id"`
	Reason       string         `gorm:"type:text;not null" json:"reason"`
	Status       string         `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending | approved | rejected
	ReviewedByID *uint          `json:"reviewed_by_id"`
	ReviewedAt   *time.Time     `json:"reviewed_at"`
	ReviewNotes  string         `gorm:"type:text" json:"review_notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Contract  Contract  `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
}

func (ContractDeletionRequest) TableName() string { return "contract_deletion_requests" }
