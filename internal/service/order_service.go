package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/logger"
	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/queue"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService owns the order lifecycle: checkout from the cart, status
// transitions, cancellation with stock release, and the queries around them.
type OrderService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
}

// NewOrderService creates the order service.
func NewOrderService(cfg *config.Config, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
	}
}

// Checkout turns the user's cart into a pending order. The whole operation is
// all-or-nothing: every line is validated against current stock, prices and
// names are captured onto the order items, stock is decremented with guarded
// updates and the cart is cleared, all inside one transaction. Any failing
// line aborts the order and leaves stock and cart untouched.
func (s *OrderService) Checkout(userID uint) (*models.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	shortages := make([]StockShortage, 0)
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	total := decimal.Zero
	for _, line := range cartItems {
		product := line.Product
		if product == nil || !product.IsActive {
			name := fmt.Sprintf("product %d", line.ProductID)
			if product != nil {
				name = product.Name
			}
			shortages = append(shortages, StockShortage{
				ProductID:   line.ProductID,
				ProductName: name,
				Requested:   line.Quantity,
				Available:   0,
			})
			continue
		}
		if product.Stock < line.Quantity {
			shortages = append(shortages, StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			})
			continue
		}
		subtotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			Subtotal:    models.NewMoneyFromDecimal(subtotal),
		})
		total = total.Add(subtotal)
	}
	if len(shortages) > 0 {
		return nil, &StockInsufficientError{Shortages: shortages}
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      userID,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}
		for _, item := range orderItems {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				// Another checkout won the stock between our read and this
				// update. Abort the whole order and report what is left.
				current, readErr := productRepo.GetByID(item.ProductID)
				if readErr != nil {
					return readErr
				}
				available := 0
				if current != nil {
					available = current.Stock
				}
				return &StockInsufficientError{Shortages: []StockShortage{{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Available:   available,
				}}}
			}
		}
		return cartRepo.ClearByUser(userID)
	})
	if err != nil {
		var stockErr *StockInsufficientError
		if errors.As(err, &stockErr) {
			return nil, stockErr
		}
		logger.Errorw("order_checkout_failed", "user_id", userID, "error", err)
		return nil, ErrOrderCreateFailed
	}
	order.Items = orderItems

	s.enqueueTimeoutCancel(order)

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"total_amount", order.TotalAmount.String(),
		"items", len(orderItems),
	)
	return order, nil
}

// enqueueTimeoutCancel schedules automatic cancellation of a pending order
// when a timeout is configured and the queue is available.
func (s *OrderService) enqueueTimeoutCancel(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	minutes := 0
	if s.cfg != nil {
		minutes = s.cfg.Order.PendingTimeoutMinutes
	}
	if minutes <= 0 {
		return
	}
	delay := time.Duration(minutes) * time.Minute
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, delay); err != nil {
		logger.Warnw("order_enqueue_timeout_cancel_failed",
			"order_id", order.ID,
			"delay_minutes", minutes,
			"error", err,
		)
	}
}

// GetOrderForUser fetches one order and enforces ownership.
func (s *OrderService) GetOrderForUser(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrder fetches one order without an ownership check, for staff callers.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders returns the caller's own orders, newest first.
func (s *OrderService) ListUserOrders(userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.UserID = userID
	return s.orderRepo.ListByUser(filter)
}

// ListOrders returns orders across all users, for staff callers.
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// UpdateOrderStatus moves an order along the lifecycle. Only staff may call
// it; owners go through CancelOwnOrder. Cancellation restores stock inside
// the same transaction that flips the status.
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string, callerRole string) (*models.Order, error) {
	if callerRole != constants.RoleStaff {
		return nil, ErrPermissionDenied
	}
	if !isValidOrderStatus(targetStatus) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, targetStatus) {
		return nil, &StatusTransitionError{Current: order.Status, Requested: targetStatus}
	}

	if targetStatus == constants.OrderStatusCancelled {
		if err := s.cancelOrder(order); err != nil {
			var transitionErr *StatusTransitionError
			if errors.As(err, &transitionErr) {
				return nil, transitionErr
			}
			return nil, ErrOrderUpdateFailed
		}
		return order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if targetStatus == constants.OrderStatusDelivered {
		updates["delivered_at"] = now
	}
	affected, err := s.orderRepo.UpdateStatusFrom(order.ID, targetStatus, []string{order.Status}, updates)
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if affected == 0 {
		// The order moved between our read and the update.
		current, err := s.orderRepo.GetByID(order.ID)
		if err != nil || current == nil {
			return nil, ErrOrderUpdateFailed
		}
		return nil, &StatusTransitionError{Current: current.Status, Requested: targetStatus}
	}
	previous := order.Status
	order.Status = targetStatus
	order.UpdatedAt = now
	if targetStatus == constants.OrderStatusDelivered {
		order.DeliveredAt = &now
	}
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", previous,
		"to", targetStatus,
	)
	return order, nil
}

// CancelOwnOrder lets the owner cancel an order that has not shipped yet.
func (s *OrderService) CancelOwnOrder(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !canCancel(order.Status) {
		return nil, ErrOrderCancelNotAllowed
	}
	if err := s.cancelOrder(order); err != nil {
		if errors.Is(err, ErrOrderStatusInvalid) {
			return nil, ErrOrderCancelNotAllowed
		}
		return nil, ErrOrderUpdateFailed
	}
	return order, nil
}

// HandlePendingTimeout cancels an order that is still pending when its
// timeout window expires. Orders that moved on are left alone.
func (s *OrderService) HandlePendingTimeout(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if order.Status != constants.OrderStatusPending {
		return nil
	}
	if err := s.cancelOrder(order); err != nil {
		if errors.Is(err, ErrOrderStatusInvalid) {
			// the order moved on while the task was in flight
			return nil
		}
		return err
	}
	logger.Infow("order_timeout_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

// cancelOrder flips the order to cancelled and restores the stock of every
// item, in one transaction. The status flip is guarded against the current
// status so that two racing cancellations restore the stock at most once:
// the loser's update matches no row and nothing is restored. The in-memory
// order is updated after commit.
func (s *OrderService) cancelOrder(order *models.Order) error {
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		updates := map[string]interface{}{
			"cancelled_at": now,
			"updated_at":   now,
		}
		affected, err := orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusCancelled, cancellableStatuses(), updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			// The order left the cancellable window between the caller's
			// read and this update. Whoever moved it owns the stock now.
			current, err := orderRepo.GetByID(order.ID)
			if err != nil {
				return err
			}
			status := ""
			if current != nil {
				status = current.Status
			}
			return &StatusTransitionError{Current: status, Requested: constants.OrderStatusCancelled}
		}
		items := order.Items
		if len(items) == 0 {
			loaded, err := orderRepo.GetByID(order.ID)
			if err != nil {
				return err
			}
			if loaded != nil {
				items = loaded.Items
			}
		}
		for _, item := range items {
			if _, err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderStatusInvalid) {
			logger.Warnw("order_cancel_lost_race", "order_id", order.ID, "error", err)
		} else {
			logger.Errorw("order_cancel_failed", "order_id", order.ID, "error", err)
		}
		return err
	}
	previous := order.Status
	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now
	logger.Infow("order_cancelled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", previous,
	)
	return nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("SS%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
