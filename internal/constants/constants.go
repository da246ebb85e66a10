package constants

// Order status constants. The lifecycle is a forward progression:
// pending -> processing -> shipped -> delivered, with cancelled reachable
// only from pending or processing.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Caller role constants, consumed by the order service capability check.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// User status constants.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Product stock status constants, derived for list rendering.
const (
	ProductStockStatusInStock    = "in_stock"
	ProductStockStatusLowStock   = "low_stock"
	ProductStockStatusOutOfStock = "out_of_stock"
)

// DefaultLowStockThreshold is the stock level at or below which a product
// shows up on the admin low-stock report unless the caller overrides it.
const DefaultLowStockThreshold = 10

// Queue constants.
const (
	QueueDefault           = "default"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// Cache constants.
const (
	RedisPrefixDefault = "ss"
)

// Captcha provider constants.
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)
