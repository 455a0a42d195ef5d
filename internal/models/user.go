package models

import (
	"time"

	"gorm.io/gorm"

	"peysphotos/api/internal/ids"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleViewer UserRole = "viewer"
)

type User struct {
	ID           string    `gorm:"type:varchar(27);primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash []byte    `json:"-"`
	DisplayName  string    `json:"displayName"`
	Role         UserRole  `gorm:"type:varchar(10);default:'viewer'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	return nil
}

type Session struct {
	ID               string    `gorm:"type:varchar(27);primaryKey"`
	UserID           string    `gorm:"type:varchar(27);not null;index"`
	RefreshTokenHash []byte    `gorm:"not null"`
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = ids.New()
	}
	return nil
}
