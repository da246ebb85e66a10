package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *CategoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	return NewProductService(nil, productRepo, categoryRepo), NewCategoryService(categoryRepo), db
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestProductCreateValidation(t *testing.T) {
	productService, _, db := setupProductServiceTest(t)
	category := createTestCategory(t, db)

	if _, err := productService.Create(ProductInput{CategoryID: category.ID, Name: "", Slug: "x", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected ErrProductInvalid for empty name, got %v", err)
	}
	if _, err := productService.Create(ProductInput{CategoryID: category.ID, Name: "x", Slug: "  ", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected ErrProductInvalid for blank slug, got %v", err)
	}
	if _, err := productService.Create(ProductInput{CategoryID: category.ID, Name: "x", Slug: "x", Price: decimal.NewFromInt(-1)}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := productService.Create(ProductInput{CategoryID: category.ID, Name: "x", Slug: "x", Price: decimal.NewFromInt(1), Stock: intPtr(-5)}); !errors.Is(err, ErrInvalidStock) {
		t.Fatalf("expected ErrInvalidStock, got %v", err)
	}
	if _, err := productService.Create(ProductInput{CategoryID: 999, Name: "x", Slug: "x", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	created, err := productService.Create(ProductInput{
		CategoryID: category.ID,
		Name:       "Wireless Earphones",
		Slug:       "wireless-earphones",
		Price:      decimal.NewFromFloat(99.995),
		Stock:      intPtr(12),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected product id to be set")
	}
	if !created.Price.Decimal.Equal(decimal.NewFromFloat(100.00)) {
		t.Fatalf("expected price rounded to 100.00, got %s", created.Price.String())
	}
	if !created.IsActive {
		t.Fatalf("expected product active by default")
	}

	if _, err := productService.Create(ProductInput{CategoryID: category.ID, Name: "dup", Slug: "wireless-earphones", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestProductUpdate(t *testing.T) {
	productService, _, db := setupProductServiceTest(t)
	category := createTestCategory(t, db)
	other := &models.Category{Name: "Other", Slug: "other", IsActive: true}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := createTestProduct(t, db, category.ID, "updatable", 10, 5)
	createTestProduct(t, db, category.ID, "taken-slug", 10, 5)

	if _, err := productService.Update(product.ID, ProductInput{Name: "x", Slug: "taken-slug", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := productService.Update(9999, ProductInput{Name: "x", Slug: "y", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := productService.Update(product.ID, ProductInput{CategoryID: 777, Name: "x", Slug: "updatable", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	updated, err := productService.Update(product.ID, ProductInput{
		CategoryID:  other.ID,
		Name:        "Updatable v2",
		Slug:        "updatable",
		Description: "fresh copy",
		Price:       decimal.NewFromFloat(12.34),
		Stock:       intPtr(40),
		Featured:    boolPtr(true),
		IsActive:    boolPtr(false),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CategoryID != other.ID || updated.Name != "Updatable v2" || !updated.Featured || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Stock != 40 {
		t.Fatalf("expected restock to 40, got %d", updated.Stock)
	}
	if !updated.Price.Decimal.Equal(decimal.NewFromFloat(12.34)) {
		t.Fatalf("expected price 12.34, got %s", updated.Price.String())
	}
}

func TestProductPublicListingHidesInactive(t *testing.T) {
	productService, _, db := setupProductServiceTest(t)
	category := createTestCategory(t, db)
	createTestProduct(t, db, category.ID, "visible", 10, 5)
	hidden := createTestProduct(t, db, category.ID, "hidden", 10, 5)
	if err := db.Model(&models.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	items, total, err := productService.ListPublic(PublicListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Slug != "visible" {
		t.Fatalf("expected only the active product, got total=%d items=%d", total, len(items))
	}

	if _, err := productService.GetPublicBySlug("hidden"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for inactive slug, got %v", err)
	}
	got, err := productService.GetPublicBySlug("visible")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got.Category.ID != category.ID {
		t.Fatalf("expected category preloaded, got %+v", got.Category)
	}
}

func TestProductListFeatured(t *testing.T) {
	productService, _, db := setupProductServiceTest(t)
	category := createTestCategory(t, db)
	star := createTestProduct(t, db, category.ID, "star", 10, 5)
	if err := db.Model(&models.Product{}).Where("id = ?", star.ID).Update("featured", true).Error; err != nil {
		t.Fatalf("feature product failed: %v", err)
	}
	createTestProduct(t, db, category.ID, "ordinary", 10, 5)

	items, err := productService.ListFeatured(0)
	if err != nil {
		t.Fatalf("list featured failed: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "star" {
		t.Fatalf("expected only the featured product, got %d", len(items))
	}
}

func TestProductListLowStock(t *testing.T) {
	productService, _, db := setupProductServiceTest(t)
	category := createTestCategory(t, db)
	createTestProduct(t, db, category.ID, "scraping-by", 10, 2)
	createTestProduct(t, db, category.ID, "dry", 10, 0)
	createTestProduct(t, db, category.ID, "comfortable", 10, 50)
	ghost := createTestProduct(t, db, category.ID, "ghost", 10, 1)
	if err := db.Model(&models.Product{}).Where("id = ?", ghost.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	low, err := productService.ListLowStock(5)
	if err != nil {
		t.Fatalf("low stock failed: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", len(low))
	}
	for _, p := range low {
		if p.Stock > 5 {
			t.Fatalf("product %s above threshold", p.Slug)
		}
	}

	// non-positive threshold falls back to the default of 10
	low, err = productService.ListLowStock(0)
	if err != nil {
		t.Fatalf("low stock with default failed: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products with default threshold, got %d", len(low))
	}
}

func TestProductDelete(t *testing.T) {
	productService, _, db := setupProductServiceTest(t)
	category := createTestCategory(t, db)
	product := createTestProduct(t, db, category.ID, "deletable", 10, 5)

	if err := productService.Delete(9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := productService.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := productService.GetByID(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product gone, got %v", err)
	}
}
