package service

import (
	"strings"

	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService handles catalog management and public browsing.
type ProductService struct {
	cfg          *config.Config
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates the product service.
func NewProductService(cfg *config.Config, repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		cfg:          cfg,
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput carries the writable fields for create and update. Optional
// fields use pointers so updates can leave them untouched.
type ProductInput struct {
	CategoryID  uint
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       *int
	Featured    *bool
	IsActive    *bool
}

// PublicListQuery narrows the public catalog listing.
type PublicListQuery struct {
	Page         int
	PageSize     int
	CategorySlug string
	Search       string
	Featured     *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStock      bool
}

// ListPublic lists active products for the storefront.
func (s *ProductService) ListPublic(query PublicListQuery) ([]models.Product, int64, error) {
	active := true
	filter := repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		CategorySlug: strings.TrimSpace(query.CategorySlug),
		Search:       strings.TrimSpace(query.Search),
		Featured:     query.Featured,
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
		InStock:      query.InStock,
		IsActive:     &active,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// ListFeatured returns the active featured products for the storefront.
func (s *ProductService) ListFeatured(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	active := true
	featured := true
	items, _, err := s.repo.List(repository.ProductListFilter{
		Page:         1,
		PageSize:     limit,
		Featured:     &featured,
		IsActive:     &active,
		WithCategory: true,
	})
	return items, err
}

// GetPublicBySlug fetches one active product for the storefront.
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin lists products for the back office, inactive ones included.
func (s *ProductService) ListAdmin(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithCategory = true
	return s.repo.List(filter)
}

// GetByID fetches one product for the back office.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListLowStock reports active products whose stock is at or below the
// threshold. A non-positive threshold falls back to the configured default.
func (s *ProductService) ListLowStock(threshold int) ([]models.Product, error) {
	if threshold <= 0 && s.cfg != nil {
		threshold = s.cfg.Catalog.LowStockThreshold
	}
	if threshold <= 0 {
		threshold = 10
	}
	return s.repo.ListLowStock(threshold)
}

// Create adds a product after validating slug, category, price and stock.
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if name == "" || slug == "" {
		return nil, ErrProductInvalid
	}
	price := input.Price.Round(2)
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	count, err := s.repo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	featured := false
	if input.Featured != nil {
		featured = *input.Featured
	}
	product := models.Product{
		CategoryID:  input.CategoryID,
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		Price:       models.NewMoneyFromDecimal(price),
		Stock:       stock,
		Featured:    featured,
		IsActive:    isActive,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update modifies a product in place. Stock set here is an absolute restock
// figure; order flow adjusts stock only through the guarded repository calls.
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if name == "" || slug == "" {
		return nil, ErrProductInvalid
	}
	price := input.Price.Round(2)
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	count, err := s.repo.CountBySlug(slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}
	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}

	product.Name = name
	product.Slug = slug
	product.Description = input.Description
	product.Price = models.NewMoneyFromDecimal(price)
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft-deletes a product. Existing order items keep their snapshots.
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(id)
}
