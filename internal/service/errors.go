package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// responses; services wrap them with typed detail where callers need more
// than a class.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account disabled")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileEmpty       = errors.New("nothing to update")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrCaptchaDisabled    = errors.New("captcha disabled")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInvalid  = errors.New("category name and slug are required")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInvalid   = errors.New("product name and slug are required")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidStock     = errors.New("stock must not be negative")

	ErrCartEmpty          = errors.New("cart is empty")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrStockInsufficient  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product unavailable")

	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderFetchFailed      = errors.New("failed to fetch order")
	ErrOrderCreateFailed     = errors.New("failed to create order")
	ErrOrderUpdateFailed     = errors.New("failed to update order")
	ErrOrderStatusInvalid    = errors.New("invalid order status transition")
	ErrOrderCancelNotAllowed = errors.New("order can no longer be cancelled")
)

// StockShortage describes one cart line that could not be satisfied.
type StockShortage struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// StockInsufficientError reports every failing line of a checkout attempt so
// the caller sees the full picture in one round trip.
type StockInsufficientError struct {
	Shortages []StockShortage
}

func (e *StockInsufficientError) Error() string {
	if len(e.Shortages) == 0 {
		return ErrStockInsufficient.Error()
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", s.ProductName, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *StockInsufficientError) Is(target error) bool {
	return target == ErrStockInsufficient
}

// StatusTransitionError names both ends of a rejected transition.
type StatusTransitionError struct {
	Current   string
	Requested string
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.Current, e.Requested)
}

func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrOrderStatusInvalid
}
