//go:build integration
// +build integration

package repository

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.CartItem{},
		&models.Product{},
		&models.Category{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createPGOrder(t *testing.T, db *gorm.DB, userID uint, status string, total int64, createdAt time.Time) *models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:     fmt.Sprintf("PG%d", time.Now().UnixNano()),
		UserID:      userID,
		Status:      status,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func TestPostgresProductCatalogQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)

	electronics := createRepoCategory(t, db, "pg-electronics")
	books := createRepoCategory(t, db, "pg-books")
	createRepoProduct(t, db, electronics.ID, "pg-laptop", 899.00, 3, true, true)
	createRepoProduct(t, db, electronics.ID, "pg-mouse", 12.50, 0, false, true)
	createRepoProduct(t, db, books.ID, "pg-novel", 30.00, 9, false, true)

	products, total, err := repo.List(ProductListFilter{CategorySlug: "pg-electronics"})
	if err != nil {
		t.Fatalf("list by category slug failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("expected 2 electronics products, got total %d len %d", total, len(products))
	}

	products, _, err = repo.List(ProductListFilter{Search: "novel"})
	if err != nil {
		t.Fatalf("list by search failed: %v", err)
	}
	if len(products) != 1 || products[0].Slug != "pg-novel" {
		t.Fatalf("expected search to match pg-novel, got %v", products)
	}

	if err := db.Delete(&models.Category{}, books.ID).Error; err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
	_, total, err = repo.List(ProductListFilter{CategorySlug: "pg-books"})
	if err != nil {
		t.Fatalf("list by deleted category slug failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no products under a deleted category slug, got %d", total)
	}
}

func TestPostgresStockGuards(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)

	category := createRepoCategory(t, db, "pg-stock")
	product := createRepoProduct(t, db, category.ID, "pg-widget", 9.99, 2, false, true)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected shortage to affect 0 rows, got %d", affected)
	}

	affected, err = repo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
	if got := repoStock(t, db, product.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}

	affected, err = repo.RestoreStock(product.ID, 2)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
	if got := repoStock(t, db, product.ID); got != 2 {
		t.Fatalf("expected stock 2, got %d", got)
	}
}

func TestPostgresOrderAggregates(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	createPGOrder(t, db, 1, constants.OrderStatusPending, 10, now)
	createPGOrder(t, db, 1, constants.OrderStatusPending, 20, now)
	createPGOrder(t, db, 2, constants.OrderStatusDelivered, 120, now)
	old := createPGOrder(t, db, 2, constants.OrderStatusCancelled, 5, now.Add(-48*time.Hour))

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("count by status failed: %v", err)
	}
	if counts[constants.OrderStatusPending] != 2 {
		t.Fatalf("expected 2 pending, got %d", counts[constants.OrderStatusPending])
	}
	if counts[constants.OrderStatusDelivered] != 1 {
		t.Fatalf("expected 1 delivered, got %d", counts[constants.OrderStatusDelivered])
	}

	revenue, err := repo.SumDeliveredTotal()
	if err != nil {
		t.Fatalf("sum delivered failed: %v", err)
	}
	if revenue.String() != "120.00" {
		t.Fatalf("expected delivered revenue 120.00, got %s", revenue.String())
	}

	from := now.Add(-time.Hour)
	orders, total, err := repo.ListAdmin(OrderListFilter{CreatedFrom: &from})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 orders in window, got %d", total)
	}
	for _, o := range orders {
		if o.ID == old.ID {
			t.Fatalf("expected the old order filtered out")
		}
	}

	orders, total, err = repo.ListByUser(OrderListFilter{UserID: 1})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 1, got total %d len %d", total, len(orders))
	}
}
