package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is the customer party on a contract. Linked to a login account via
// UserID once the client has signed up; contracts can exist before that.
type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  *uint  `gorm:"uniqueIndex" json:"user_id"`
	Name    string `gorm:"size:120;not null" json:"name"`
	Email   string `gorm:"size:255;index" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Company string `gorm:"size:120" json:"company"`
	Address string `gorm:"size:255" json:"address"`
	// ReferredByID records the affiliate whose referral code was used at
	// sign-up, for attribution when contracts are created later.
	ReferredByID *uint          `gorm:"index" json:"referred_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Client) TableName() string { return "clients" }
