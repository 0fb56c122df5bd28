package models

import (
	"time"
)

// ContractActivity is one audit-trail row written for every workflow
// transition. Append-only.
type ContractActivity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index" json:"contract_id"`
	ActorID    uint      `gorm:"not null" json:"actor_id"`
	ActorRole  string    `gorm:"size:20" json:"actor_role"`
	Type       string    `gorm:"size:50;not null;index" json:"type"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `json:"created_at"`

	Contract Contract `gorm:"foreignKey:ContractID" json:"-"`
}

func (ContractActivity) TableName() string { return "contract_activities" }
