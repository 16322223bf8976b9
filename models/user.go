package models

import (
	"time"
)

// User roles.
const (
	RoleOwner     = "owner"
	RoleCollector = "collector"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Username       string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null"`
	FullName       string     `gorm:"size:255"`
	PhoneNumber    string     `gorm:"size:15"`
	Area           string     `gorm:"size:50"`
	// Active indicates whether the user may log in. Deactivation is the
	// soft-delete path for collectors who leave.
	Active bool  `gorm:"default:true;not null"`
	RoleID *uint `gorm:"index"`
	Role   Role  `gorm:"foreignKey:RoleID;references:ID"`
}

// DisplayName returns the full name when set, falling back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
