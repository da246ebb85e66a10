package service

import (
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/logger"
	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemView is one cart line shaped for responses, priced at the
// product's current price. Prices are only captured at checkout.
type CartItemView struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	ProductSlug string       `json:"product_slug"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	Subtotal    models.Money `json:"subtotal"`
	Stock       int          `json:"stock"`
}

// CartView is the whole cart with its running total.
type CartView struct {
	Items         []CartItemView `json:"items"`
	TotalQuantity int            `json:"total_quantity"`
	TotalAmount   models.Money   `json:"total_amount"`
}

// CartService manages per-user carts. Each product holds at most one line;
// adding an existing product merges into it.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates the cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart. Lines whose product disappeared or was
// deactivated are dropped on read so stale entries never reach checkout.
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: make([]CartItemView, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			// Pruning is best effort; a line that survives here is still
			// filtered out of the view and rejected again at checkout.
			if err := s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID); err != nil {
				logger.Warnw("cart_stale_line_prune_failed",
					"user_id", userID,
					"product_id", item.ProductID,
					"error", err,
				)
			}
			continue
		}
		subtotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartItemView{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSlug: product.Slug,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    models.NewMoneyFromDecimal(subtotal),
			Stock:       product.Stock,
		})
		view.TotalQuantity += item.Quantity
		total = total.Add(subtotal)
	}
	view.TotalAmount = models.NewMoneyFromDecimal(total)
	return view, nil
}

// AddItem puts a product in the cart. A second add of the same product
// increments the existing line. The combined quantity must fit the stock on
// hand at the time of the call.
func (s *CartService) AddItem(userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductUnavailable
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Stock {
		return &StockInsufficientError{Shortages: []StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   requested,
			Available:   product.Stock,
		}}}
	}

	if existing != nil {
		return s.cartRepo.UpdateQuantity(existing.ID, requested)
	}
	now := time.Now()
	return s.cartRepo.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UpdateItemQuantity sets a line's quantity outright. Zero removes the line,
// negative values are rejected.
func (s *CartService) UpdateItemQuantity(userID, productID uint, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.cartRepo.DeleteByUserAndProduct(userID, productID)
	}
	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCartItemNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductUnavailable
	}
	if quantity > product.Stock {
		return &StockInsufficientError{Shortages: []StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}}}
	}
	return s.cartRepo.UpdateQuantity(existing.ID, quantity)
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(userID, productID uint) error {
	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCartItemNotFound
	}
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
