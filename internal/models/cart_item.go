package models

import (
	"time"
)

// CartItem is one line of a user's cart.
//
// A cart holds at most one line per product, enforced by the unique index;
// adding an already-present product increments the existing line instead.
// Lines are hard-deleted so a removed product can be re-added.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                         // primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`    // owning user
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"` // referenced product
	Quantity  int       `gorm:"not null" json:"quantity"`                                     // requested quantity, always >= 1
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                      // creation time
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                      // update time

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // referenced product, preloaded on reads
}

// TableName pins the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
