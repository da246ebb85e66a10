package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderService := NewOrderService(nil, orderRepo, productRepo, cartRepo, nil)
	cartService := NewCartService(cartRepo, productRepo)
	return orderService, cartService, db
}

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:      "Electronics",
		Slug:      fmt.Sprintf("electronics-%d", time.Now().UnixNano()),
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, categoryID uint, slug string, price float64, stock int) *models.Product {
	t.Helper()
	now := time.Now()
	product := &models.Product{
		CategoryID: categoryID,
		Name:       slug,
		Slug:       slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		Stock:      stock,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func productStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func TestCheckoutCreatesPendingOrderAndClearsCart(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	earphones := createTestProduct(t, db, category.ID, "earphones", 10.50, 10)
	charger := createTestProduct(t, db, category.ID, "charger", 5.25, 5)

	userID := uint(1)
	if err := cartService.AddItem(userID, earphones.ID, 2); err != nil {
		t.Fatalf("add earphones failed: %v", err)
	}
	if err := cartService.AddItem(userID, charger.ID, 1); err != nil {
		t.Fatalf("add charger failed: %v", err)
	}

	order, err := orderService.Checkout(userID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order number to be set")
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromFloat(26.25)) {
		t.Fatalf("expected total 26.25, got %s", order.TotalAmount.String())
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.ProductName == "" {
			t.Fatalf("expected captured product name on item %d", item.ProductID)
		}
		expected := item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if !item.Subtotal.Decimal.Equal(expected) {
			t.Fatalf("subtotal mismatch for product %d: %s", item.ProductID, item.Subtotal.String())
		}
	}

	if got := productStock(t, db, earphones.ID); got != 8 {
		t.Fatalf("expected earphones stock 8, got %d", got)
	}
	if got := productStock(t, db, charger.ID); got != 4 {
		t.Fatalf("expected charger stock 4, got %d", got)
	}

	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected cart to be cleared, %d lines left", cartCount)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	orderService, _, _ := setupOrderServiceTest(t)
	if _, err := orderService.Checkout(42); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckoutReportsEveryShortageAndLeavesStateUntouched(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	scarce := createTestProduct(t, db, category.ID, "scarce", 10, 2)
	soldOut := createTestProduct(t, db, category.ID, "sold-out", 20, 0)
	plenty := createTestProduct(t, db, category.ID, "plenty", 5, 50)

	userID := uint(7)
	now := time.Now()
	lines := []models.CartItem{
		{UserID: userID, ProductID: scarce.ID, Quantity: 5, CreatedAt: now, UpdatedAt: now},
		{UserID: userID, ProductID: soldOut.ID, Quantity: 1, CreatedAt: now, UpdatedAt: now},
		{UserID: userID, ProductID: plenty.ID, Quantity: 3, CreatedAt: now, UpdatedAt: now},
	}
	if err := db.Create(&lines).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	_, err := orderService.Checkout(userID)
	if err == nil {
		t.Fatalf("expected checkout to fail")
	}
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected stock insufficiency, got %v", err)
	}
	var stockErr *StockInsufficientError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockInsufficientError, got %T", err)
	}
	if len(stockErr.Shortages) != 2 {
		t.Fatalf("expected 2 shortages, got %d: %v", len(stockErr.Shortages), stockErr.Shortages)
	}
	byProduct := make(map[uint]StockShortage, len(stockErr.Shortages))
	for _, s := range stockErr.Shortages {
		byProduct[s.ProductID] = s
	}
	if s, ok := byProduct[scarce.ID]; !ok || s.Requested != 5 || s.Available != 2 || s.ProductName != "scarce" {
		t.Fatalf("unexpected scarce shortage: %+v", s)
	}
	if s, ok := byProduct[soldOut.ID]; !ok || s.Requested != 1 || s.Available != 0 {
		t.Fatalf("unexpected sold-out shortage: %+v", s)
	}

	// nothing may have moved: no order, stock intact, cart intact
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no order rows, got %d", orderCount)
	}
	if got := productStock(t, db, plenty.ID); got != 50 {
		t.Fatalf("expected plenty stock untouched, got %d", got)
	}
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 3 {
		t.Fatalf("expected cart kept, got %d lines", cartCount)
	}
}

func TestCheckoutTreatsInactiveProductAsUnavailable(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "soon-gone", 15, 10)

	userID := uint(3)
	if err := cartService.AddItem(userID, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	_, err := orderService.Checkout(userID)
	var stockErr *StockInsufficientError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockInsufficientError, got %v", err)
	}
	if len(stockErr.Shortages) != 1 || stockErr.Shortages[0].Available != 0 {
		t.Fatalf("unexpected shortages: %+v", stockErr.Shortages)
	}
}

func TestCheckoutCapturesPricesImmutably(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "stable-price", 19.99, 10)

	userID := uint(5)
	if err := cartService.AddItem(userID, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.Checkout(userID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99))).Error; err != nil {
		t.Fatalf("reprice product failed: %v", err)
	}

	reloaded, err := orderService.GetOrderForUser(order.ID, userID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(reloaded.Items))
	}
	if !reloaded.Items[0].UnitPrice.Decimal.Equal(decimal.NewFromFloat(19.99)) {
		t.Fatalf("expected captured unit price 19.99, got %s", reloaded.Items[0].UnitPrice.String())
	}
	if !reloaded.TotalAmount.Decimal.Equal(decimal.NewFromFloat(39.98)) {
		t.Fatalf("expected total 39.98, got %s", reloaded.TotalAmount.String())
	}
}

func createTestOrderWithStatus(t *testing.T, db *gorm.DB, userID uint, status string) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("SS%d", time.Now().UnixNano()),
		UserID:      userID,
		Status:      status,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestUpdateOrderStatusTransitionMatrix(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t)

	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusProcessing, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{constants.OrderStatusPending, constants.OrderStatusDelivered, false},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped, true},
		{constants.OrderStatusProcessing, constants.OrderStatusCancelled, true},
		{constants.OrderStatusProcessing, constants.OrderStatusDelivered, false},
		{constants.OrderStatusProcessing, constants.OrderStatusPending, false},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusPending, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPending, false},
		{constants.OrderStatusCancelled, constants.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		order := createTestOrderWithStatus(t, db, 1, tc.from)
		updated, err := orderService.UpdateOrderStatus(order.ID, tc.to, constants.RoleStaff)
		if tc.allowed {
			if err != nil {
				t.Fatalf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
			}
			if updated.Status != tc.to {
				t.Fatalf("%s -> %s: status not applied, got %s", tc.from, tc.to, updated.Status)
			}
			continue
		}
		if !errors.Is(err, ErrOrderStatusInvalid) {
			t.Fatalf("%s -> %s should be rejected, got %v", tc.from, tc.to, err)
		}
		var transitionErr *StatusTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("%s -> %s: expected StatusTransitionError, got %T", tc.from, tc.to, err)
		}
		if transitionErr.Current != tc.from || transitionErr.Requested != tc.to {
			t.Fatalf("transition error names wrong states: %+v", transitionErr)
		}
	}
}

func TestUpdateOrderStatusRejectsNonStaff(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t)
	order := createTestOrderWithStatus(t, db, 1, constants.OrderStatusPending)

	_, err := orderService.UpdateOrderStatus(order.ID, constants.OrderStatusProcessing, constants.RoleCustomer)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	reloaded, err := orderService.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("status must not change on denied call, got %s", reloaded.Status)
	}
}

func TestUpdateOrderStatusUnknownStatusAndMissingOrder(t *testing.T) {
	orderService, _, _ := setupOrderServiceTest(t)

	if _, err := orderService.UpdateOrderStatus(1, "refunded", constants.RoleStaff); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for unknown status, got %v", err)
	}
	if _, err := orderService.UpdateOrderStatus(9999, constants.OrderStatusProcessing, constants.RoleStaff); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestUpdateOrderStatusDeliveredStampsTimestamp(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t)
	order := createTestOrderWithStatus(t, db, 1, constants.OrderStatusShipped)

	updated, err := orderService.UpdateOrderStatus(order.ID, constants.OrderStatusDelivered, constants.RoleStaff)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set")
	}
}

func TestStaffCancelRestoresStock(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "restock-me", 12, 10)

	userID := uint(9)
	if err := cartService.AddItem(userID, product.ID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.Checkout(userID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 6 {
		t.Fatalf("expected stock 6 after checkout, got %d", got)
	}

	cancelled, err := orderService.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled, constants.RoleStaff)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}
	if got := productStock(t, db, product.ID); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
}

func TestCancelOwnOrder(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "cancel-own", 8, 6)

	owner := uint(11)
	stranger := uint(12)
	if err := cartService.AddItem(owner, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.Checkout(owner)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := orderService.CancelOwnOrder(order.ID, stranger); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for non-owner, got %v", err)
	}

	cancelled, err := orderService.CancelOwnOrder(order.ID, owner)
	if err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if got := productStock(t, db, product.ID); got != 6 {
		t.Fatalf("expected stock restored to 6, got %d", got)
	}

	// a cancelled order is terminal for the owner too
	if _, err := orderService.CancelOwnOrder(order.ID, owner); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("expected ErrOrderCancelNotAllowed, got %v", err)
	}

	shipped := createTestOrderWithStatus(t, db, owner, constants.OrderStatusShipped)
	if _, err := orderService.CancelOwnOrder(shipped.ID, owner); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("expected ErrOrderCancelNotAllowed for shipped order, got %v", err)
	}
}

func TestHandlePendingTimeout(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "timeout-prone", 30, 5)

	userID := uint(20)
	if err := cartService.AddItem(userID, product.ID, 3); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.Checkout(userID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if err := orderService.HandlePendingTimeout(order.ID); err != nil {
		t.Fatalf("timeout handling failed: %v", err)
	}
	reloaded, err := orderService.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled after timeout, got %s", reloaded.Status)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	// orders that moved on are left alone, missing ones are a no-op
	processing := createTestOrderWithStatus(t, db, userID, constants.OrderStatusProcessing)
	if err := orderService.HandlePendingTimeout(processing.ID); err != nil {
		t.Fatalf("timeout on processing order failed: %v", err)
	}
	reloaded, err = orderService.GetOrder(processing.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusProcessing {
		t.Fatalf("processing order must not be touched, got %s", reloaded.Status)
	}
	if err := orderService.HandlePendingTimeout(99999); err != nil {
		t.Fatalf("timeout on missing order should be a no-op, got %v", err)
	}
}

// staleOrderReads serves a fixed snapshot for one order, the way a queued
// task or a slow staff request can hold a read that the database has since
// moved past.
type staleOrderReads struct {
	repository.OrderRepository
	snapshot *models.Order
}

func (r *staleOrderReads) GetByID(id uint) (*models.Order, error) {
	if r.snapshot != nil && r.snapshot.ID == id {
		copied := *r.snapshot
		return &copied, nil
	}
	return r.OrderRepository.GetByID(id)
}

func (r *staleOrderReads) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	if r.snapshot != nil && r.snapshot.ID == id && r.snapshot.UserID == userID {
		copied := *r.snapshot
		return &copied, nil
	}
	return r.OrderRepository.GetByIDAndUser(id, userID)
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "single-restore", 14, 5)

	userID := uint(15)
	if err := cartService.AddItem(userID, product.ID, 3); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.Checkout(userID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 2 {
		t.Fatalf("expected stock 2 after checkout, got %d", got)
	}

	// a second service still holding the pending snapshot of the order
	snapshot := *order
	staleRepo := &staleOrderReads{OrderRepository: repository.NewOrderRepository(db), snapshot: &snapshot}
	staleService := NewOrderService(nil, staleRepo, repository.NewProductRepository(db), repository.NewCartRepository(db), nil)

	if _, err := orderService.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled, constants.RoleStaff); err != nil {
		t.Fatalf("staff cancel failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	// the timeout path raced the staff cancel; it must not restore again
	if err := staleService.HandlePendingTimeout(order.ID); err != nil {
		t.Fatalf("timeout on a stale read must be a no-op, got %v", err)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Fatalf("stock restored twice: stock = %d, want 5", got)
	}

	// a stale staff cancel loses the race with a transition error
	if _, err := staleService.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled, constants.RoleStaff); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Fatalf("stock must stay at 5 after stale staff cancel, got %d", got)
	}

	// a stale owner cancel is told the order is no longer cancellable
	if _, err := staleService.CancelOwnOrder(order.ID, userID); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("expected ErrOrderCancelNotAllowed, got %v", err)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Fatalf("stock must stay at 5 after stale owner cancel, got %d", got)
	}

	reloaded, err := orderService.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected order to stay cancelled, got %s", reloaded.Status)
	}
}

// overstatedStockCartReads inflates the preloaded product stock so the
// pre-check passes while the guarded decrement sees the real count.
type overstatedStockCartReads struct {
	repository.CartRepository
	extra int
}

func (r *overstatedStockCartReads) ListByUser(userID uint) ([]models.CartItem, error) {
	items, err := r.CartRepository.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Product != nil {
			items[i].Product.Stock += r.extra
		}
	}
	return items, nil
}

func TestCheckoutGuardFailureReportsRemainingStock(t *testing.T) {
	_, _, db := setupOrderServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "contended", 10, 2)

	userID := uint(18)
	now := time.Now()
	line := models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 4, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	cartRepo := &overstatedStockCartReads{CartRepository: repository.NewCartRepository(db), extra: 5}
	orderService := NewOrderService(nil, repository.NewOrderRepository(db), repository.NewProductRepository(db), cartRepo, nil)

	_, err := orderService.Checkout(userID)
	var stockErr *StockInsufficientError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockInsufficientError, got %v", err)
	}
	if len(stockErr.Shortages) != 1 {
		t.Fatalf("expected one shortage, got %d", len(stockErr.Shortages))
	}
	if s := stockErr.Shortages[0]; s.Requested != 4 || s.Available != 2 {
		t.Fatalf("shortage must report the remaining stock: %+v", s)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected the order rolled back, got %d", orderCount)
	}
	if got := productStock(t, db, product.ID); got != 2 {
		t.Fatalf("expected stock untouched, got %d", got)
	}
}

func TestListUserOrdersScopedToOwner(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t)

	createTestOrderWithStatus(t, db, 1, constants.OrderStatusPending)
	createTestOrderWithStatus(t, db, 1, constants.OrderStatusProcessing)
	createTestOrderWithStatus(t, db, 2, constants.OrderStatusPending)

	orders, total, err := orderService.ListUserOrders(1, repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 1, got total=%d len=%d", total, len(orders))
	}
	for _, o := range orders {
		if o.UserID != 1 {
			t.Fatalf("leaked order of user %d", o.UserID)
		}
	}
	if orders[0].ID < orders[1].ID {
		t.Fatalf("expected newest first ordering")
	}

	filtered, total, err := orderService.ListUserOrders(1, repository.OrderListFilter{Page: 1, PageSize: 10, Status: constants.OrderStatusProcessing})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 1 || len(filtered) != 1 || filtered[0].Status != constants.OrderStatusProcessing {
		t.Fatalf("status filter broken: total=%d len=%d", total, len(filtered))
	}
}
