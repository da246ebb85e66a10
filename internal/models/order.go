package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a checkout snapshot of a cart.
//
// Everything except Status and the status timestamps is immutable after
// creation; orders are never deleted through normal operation.
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // primary key
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // human-readable unique order number
	UserID      uint           `gorm:"index;not null" json:"user_id"`                             // owning user
	Status      string         `gorm:"index;not null" json:"status"`                              // lifecycle status
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // sum of item quantity x captured unit price
	CancelledAt *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                       // set when the order is cancelled
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`                                    // set when the order is delivered
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // creation time
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                   // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // soft delete marker

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // captured lines
}

// TableName pins the table name.
func (Order) TableName() string {
	return "orders"
}
