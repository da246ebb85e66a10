package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a customer account.
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`              // primary key
	Email              string         `gorm:"uniqueIndex;not null" json:"email"` // login email
	PasswordHash       string         `gorm:"not null" json:"-"`                 // bcrypt hash, never serialized
	DisplayName        string         `gorm:"default:''" json:"display_name"`    // optional display name
	Status             string         `gorm:"default:'active'" json:"status"`    // account status (active/disabled)
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`       // bumping invalidates all issued tokens
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                    // tokens issued before this instant are rejected
	LastLoginAt        *time.Time     `json:"last_login_at"`                     // last successful login
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`           // creation time
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`           // update time
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                    // soft delete marker
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}
