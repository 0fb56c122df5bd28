package models

import (
	"time"

	"ridgeworks/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:120;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | CLIENT | AFFILIATE
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	Phone        string         `gorm:"size:30" json:"phone"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool     { return u.Role == domain.RoleAdmin }
func (u *User) IsClient() bool    { return u.Role == domain.RoleClient }
func (u *User) IsAffiliate() bool { return u.Role == domain.RoleAffiliate }
