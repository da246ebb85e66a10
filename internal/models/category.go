package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products for browsing.
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`                // primary key
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`    // URL-safe unique identifier
	Name        string         `gorm:"not null" json:"name"`                // display name
	Description string         `gorm:"type:text" json:"description"`        // optional description
	IsActive    bool           `gorm:"default:true;index" json:"is_active"` // hidden from the public catalog when false
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`   // ordering weight
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`             // creation time
	UpdatedAt   time.Time      `json:"updated_at"`                          // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                      // soft delete marker
}

// TableName pins the table name.
func (Category) TableName() string {
	return "categories"
}
