package models

import (
	"time"

	"gorm.io/gorm"
)

// Project groups contracts for a client engagement and feeds the public
// portfolio listing.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ClientID    *uint          `gorm:"index" json:"client_id"`
	Name        string         `gorm:"size:120;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:30;default:'ongoing'" json:"status"` // ongoing | delivered | archived
	CoverURL    string         `gorm:"size:512" json:"cover_url"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Project) TableName() string { return "projects" }
