package service

import (
	"context"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/cache"
	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"
)

const (
	dashboardCacheTTL = 45 * time.Second
	dashboardCacheKey = "dashboard:overview"
)

// DashboardService aggregates the back-office landing page figures.
type DashboardService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(cfg *config.Config, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// DashboardOverview is the aggregate snapshot.
type DashboardOverview struct {
	OrdersTotal      int64            `json:"orders_total"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	DeliveredRevenue string           `json:"delivered_revenue"`
	ActiveProducts   int64            `json:"active_products"`
	LowStockProducts int64            `json:"low_stock_products"`
	Users            int64            `json:"users"`
	GeneratedAt      int64            `json:"generated_at"`
}

// Overview assembles the snapshot, serving a short-lived cached copy when
// Redis is available.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	var cached DashboardOverview
	if hit, err := cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	byStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	var ordersTotal int64
	for _, n := range byStatus {
		ordersTotal += n
	}

	revenue, err := s.orderRepo.SumDeliveredTotal()
	if err != nil {
		return nil, err
	}

	active := true
	_, activeProducts, err := s.productRepo.List(repository.ProductListFilter{Page: 1, PageSize: 1, IsActive: &active})
	if err != nil {
		return nil, err
	}

	threshold := constants.DefaultLowStockThreshold
	if s.cfg != nil && s.cfg.Catalog.LowStockThreshold > 0 {
		threshold = s.cfg.Catalog.LowStockThreshold
	}
	lowStock, err := s.productRepo.ListLowStock(threshold)
	if err != nil {
		return nil, err
	}

	_, users, err := s.userRepo.List(repository.UserListFilter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		OrdersTotal:      ordersTotal,
		OrdersByStatus:   byStatus,
		DeliveredRevenue: revenue.StringFixed(2),
		ActiveProducts:   activeProducts,
		LowStockProducts: int64(len(lowStock)),
		Users:            users,
		GeneratedAt:      time.Now().Unix(),
	}
	_ = cache.SetJSON(ctx, dashboardCacheKey, overview, dashboardCacheTTL)
	return overview, nil
}
