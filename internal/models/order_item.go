package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is one captured line of an order.
//
// UnitPrice and ProductName are snapshots taken at checkout; later catalog
// changes never touch them.
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // primary key
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                          // owning order
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                        // referenced product
	ProductName string         `gorm:"not null" json:"product_name"`                            // name snapshot at checkout
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // price snapshot at checkout
	Quantity    int            `gorm:"not null" json:"quantity"`                                // ordered quantity
	Subtotal    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // quantity x unit price
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                 // creation time
	UpdatedAt   time.Time      `json:"updated_at"`                                              // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // soft delete marker
}

// TableName pins the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
