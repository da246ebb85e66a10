package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepoTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createRepoCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := models.Category{Name: slug, Slug: slug, IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return &category
}

func createRepoProduct(t *testing.T, db *gorm.DB, categoryID uint, slug string, price float64, stock int, featured, active bool) *models.Product {
	t.Helper()
	product := models.Product{
		CategoryID: categoryID,
		Name:       slug,
		Slug:       slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		Stock:      stock,
		Featured:   featured,
		IsActive:   active,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func repoStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func TestDecrementStockNeverOversells(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	category := createRepoCategory(t, db, "stock")
	product := createRepoProduct(t, db, category.ID, "widget", 9.99, 5, false, true)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
	if got := repoStock(t, db, product.ID); got != 2 {
		t.Fatalf("expected stock 2, got %d", got)
	}

	// only 2 remain, asking for 3 must not match any row
	affected, err = repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows affected on shortage, got %d", affected)
	}
	if got := repoStock(t, db, product.ID); got != 2 {
		t.Fatalf("stock must be untouched on shortage, got %d", got)
	}

	affected, err = repo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected draining to zero to succeed, got %d rows", affected)
	}
	if got := repoStock(t, db, product.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}

	for _, quantity := range []int{0, -4} {
		affected, err = repo.DecrementStock(product.ID, quantity)
		if err != nil {
			t.Fatalf("decrement with quantity %d failed: %v", quantity, err)
		}
		if affected != 0 {
			t.Fatalf("quantity %d must be a no-op, got %d rows", quantity, affected)
		}
	}
}

func TestRestoreStock(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	category := createRepoCategory(t, db, "restock")
	product := createRepoProduct(t, db, category.ID, "gadget", 4.50, 1, false, true)

	affected, err := repo.RestoreStock(product.ID, 4)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
	if got := repoStock(t, db, product.ID); got != 5 {
		t.Fatalf("expected stock 5, got %d", got)
	}

	affected, err = repo.RestoreStock(product.ID, 0)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("zero quantity must be a no-op, got %d rows", affected)
	}

	affected, err = repo.RestoreStock(99999, 2)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("missing product must affect 0 rows, got %d", affected)
	}
}

func TestProductListFilters(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	electronics := createRepoCategory(t, db, "electronics")
	books := createRepoCategory(t, db, "books")

	createRepoProduct(t, db, electronics.ID, "laptop", 899.00, 3, true, true)
	createRepoProduct(t, db, electronics.ID, "mouse", 12.50, 0, false, true)
	createRepoProduct(t, db, electronics.ID, "prototype", 5.00, 7, false, false)
	createRepoProduct(t, db, books.ID, "go-novel", 30.00, 9, true, true)

	active := true
	products, total, err := repo.List(ProductListFilter{IsActive: &active})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(products) != 3 {
		t.Fatalf("expected 3 active products, got total %d len %d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{CategorySlug: "electronics", IsActive: &active})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 active electronics, got %d", total)
	}
	for _, p := range products {
		if p.CategoryID != electronics.ID {
			t.Fatalf("product %s leaked from another category", p.Slug)
		}
	}

	featured := true
	products, _, err = repo.List(ProductListFilter{Featured: &featured, IsActive: &active})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 featured products, got %d", len(products))
	}

	products, _, err = repo.List(ProductListFilter{IsActive: &active, InStock: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, p := range products {
		if p.Stock <= 0 {
			t.Fatalf("in-stock filter returned %s with stock %d", p.Slug, p.Stock)
		}
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 in-stock products, got %d", len(products))
	}

	products, _, err = repo.List(ProductListFilter{Search: "  lap  "})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 || products[0].Slug != "laptop" {
		t.Fatalf("expected search to match laptop, got %v", products)
	}

	min := decimal.NewFromInt(20)
	max := decimal.NewFromInt(100)
	products, _, err = repo.List(ProductListFilter{MinPrice: &min, MaxPrice: &max})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 || products[0].Slug != "go-novel" {
		t.Fatalf("expected price window to match go-novel, got %v", products)
	}

	// a soft-deleted category keeps its slug out of the subquery
	if err := db.Delete(&models.Category{}, books.ID).Error; err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
	_, total, err = repo.List(ProductListFilter{CategorySlug: "books"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no products under a deleted category slug, got %d", total)
	}
}

func TestProductListPaginationAndOrdering(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	category := createRepoCategory(t, db, "paging")
	var ids []uint
	for i := 0; i < 5; i++ {
		p := createRepoProduct(t, db, category.ID, fmt.Sprintf("item-%d", i), 1.00, 1, false, true)
		ids = append(ids, p.ID)
	}

	products, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected unpaged total 5, got %d", total)
	}
	if len(products) != 2 {
		t.Fatalf("expected page of 2, got %d", len(products))
	}
	// newest first
	if products[0].ID != ids[4] || products[1].ID != ids[3] {
		t.Fatalf("expected ids %d,%d first, got %d,%d", ids[4], ids[3], products[0].ID, products[1].ID)
	}

	products, _, err = repo.List(ProductListFilter{Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != ids[0] {
		t.Fatalf("expected last page to hold the oldest product, got %v", products)
	}

	// a bad page number falls back to the first page
	products, _, err = repo.List(ProductListFilter{Page: -2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 || products[0].ID != ids[4] {
		t.Fatalf("expected first page for negative page numbers, got %v", products)
	}
}

func TestListLowStock(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	category := createRepoCategory(t, db, "warehouse")
	createRepoProduct(t, db, category.ID, "ample", 2.00, 40, false, true)
	low2 := createRepoProduct(t, db, category.ID, "low-two", 2.00, 2, false, true)
	low7 := createRepoProduct(t, db, category.ID, "low-seven", 2.00, 7, false, true)
	createRepoProduct(t, db, category.ID, "retired", 2.00, 1, false, false)
	boundary := createRepoProduct(t, db, category.ID, "boundary", 2.00, 10, false, true)

	products, err := repo.ListLowStock(10)
	if err != nil {
		t.Fatalf("list low stock failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 low-stock products, got %d", len(products))
	}
	// scarcest first, threshold itself included, inactive excluded
	if products[0].ID != low2.ID || products[1].ID != low7.ID || products[2].ID != boundary.ID {
		t.Fatalf("expected order low-two, low-seven, boundary, got %s, %s, %s",
			products[0].Slug, products[1].Slug, products[2].Slug)
	}
	if products[0].Category.ID != category.ID {
		t.Fatalf("expected category preloaded, got %+v", products[0].Category)
	}
}

func TestGetBySlugRespectsActiveFlag(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	category := createRepoCategory(t, db, "visibility")
	createRepoProduct(t, db, category.ID, "hidden", 3.00, 1, false, false)

	product, err := repo.GetBySlug("hidden", true)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if product != nil {
		t.Fatalf("expected inactive product invisible to active-only lookup")
	}

	product, err = repo.GetBySlug("hidden", false)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if product == nil {
		t.Fatalf("expected unrestricted lookup to find the product")
	}
	if product.Category.Slug != "visibility" {
		t.Fatalf("expected category preloaded, got %+v", product.Category)
	}

	product, err = repo.GetBySlug("no-such-slug", false)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil for a missing slug, got %+v", product)
	}
}

func TestCountBySlugCanExcludeSelf(t *testing.T) {
	repo, db := setupProductRepoTest(t)
	category := createRepoCategory(t, db, "naming")
	product := createRepoProduct(t, db, category.ID, "taken", 3.00, 1, false, true)

	count, err := repo.CountBySlug("taken", 0)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	count, err = repo.CountBySlug("taken", product.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected self-exclusion to count 0, got %d", count)
	}

	count, err = repo.CountBySlug("free", 0)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for an unused slug, got %d", count)
	}
}
