package models

import (
	"time"

	"gorm.io/gorm"
)

// Payout records commission paid (or owed) to an affiliate for an activated
// contract.
type Payout struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AffiliateID uint           `gorm:"not null;index" json:"affiliate_id"`
	ContractID  uint           `gorm:"not null;index" json:"contract_id"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Status      string         `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending | paid
	PaidAt      *time.Time     `json:"paid_at"`
	Reference   string         `gorm:"size:100" json:"reference"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"-"`
}

func (Payout) TableName() string { return "payouts" }
