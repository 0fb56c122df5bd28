package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate is a referral partner. Aggregated totals (referral and earnings
// counts) are recomputed on demand from contracts and payouts, not stored.
type Affiliate struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	ReferralCode   string         `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	CommissionRate float64        `json:"commission_rate"` // percentage; 0 means use the configured default
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Affiliate) TableName() string { return "affiliates" }

// AffiliateStats are derived aggregates, never persisted.
type AffiliateStats struct {
	Referrals       int64   `json:"referrals"`
	ActiveContracts int64   `json:"active_contracts"`
	TotalEarnings   float64 `json:"total_earnings"`
	PendingEarnings float64 `json:"pending_earnings"`
	PaidOut         float64 `json:"paid_out"`
}
