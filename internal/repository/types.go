package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListFilter narrows product list queries.
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	CategorySlug string
	Search       string
	Featured     *bool
	IsActive     *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStock      bool
	WithCategory bool
}

// CategoryListFilter narrows category list queries.
type CategoryListFilter struct {
	Search     string
	OnlyActive bool
}

// OrderListFilter narrows order list queries.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter narrows user list queries.
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}
