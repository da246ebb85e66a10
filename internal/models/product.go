package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a sellable catalog entry.
//
// Stock is the available-to-sell count and must never go negative; all
// decrements go through guarded updates in the repository layer.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // primary key
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                  // owning category
	Name        string         `gorm:"not null" json:"name"`                               // display name
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                   // URL-safe unique identifier
	Description string         `gorm:"type:text" json:"description"`                       // long-form description
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // unit price, non-negative
	Stock       int            `gorm:"not null;default:0" json:"stock"`                    // available-to-sell count, non-negative
	Featured    bool           `gorm:"default:false;index" json:"featured"`                // surfaced on the featured listing
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // hidden from the public catalog when false
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // creation time
	UpdatedAt   time.Time      `json:"updated_at"`                                         // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // soft delete marker

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // owning category, preloaded on reads
}

// TableName pins the table name.
func (Product) TableName() string {
	return "products"
}

// InStock reports whether any sellable stock remains.
func (p *Product) InStock() bool {
	return p != nil && p.Stock > 0
}
