package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a staff account with access to the management surface.
type Admin struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                         // primary key
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`         // staff login name
	PasswordHash       string         `gorm:"not null" json:"-"`                            // bcrypt hash, never serialized
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                  // bumping invalidates all issued tokens
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                               // tokens issued before this instant are rejected
	IsSuper            bool           `gorm:"not null;default:false;index" json:"is_super"` // super admins bypass role checks
	LastLoginAt        *time.Time     `json:"last_login_at"`                                // last successful login
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                      // creation time
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                               // soft delete marker
}

// TableName pins the table name.
func (Admin) TableName() string {
	return "admins"
}
