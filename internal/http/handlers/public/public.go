package public

import (
	"strconv"
	"strings"

	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/http/response"
	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"
	"github.com/Dhanush032/Smart-Shopping/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultFeaturedLimit = 8

// PublicProductView is a catalog entry decorated with a coarse stock signal.
// The exact count stays private; the storefront only needs the bucket.
type PublicProductView struct {
	models.Product
	StockStatus string `json:"stock_status"`
	IsSoldOut   bool   `json:"is_sold_out"`
}

// GetProducts lists active products with the storefront filters applied.
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	query := service.PublicListQuery{
		Page:         page,
		PageSize:     pageSize,
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Search:       strings.TrimSpace(c.Query("search")),
		InStock:      parseBoolFlag(c.Query("in_stock")),
	}
	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		featured := parseBoolFlag(raw)
		query.Featured = &featured
	}
	if raw := strings.TrimSpace(c.Query("min_price")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			respondError(c, response.CodeBadRequest, "invalid min_price", nil)
			return
		}
		query.MinPrice = &value
	}
	if raw := strings.TrimSpace(c.Query("max_price")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			respondError(c, response.CodeBadRequest, "invalid max_price", nil)
			return
		}
		query.MaxPrice = &value
	}

	products, total, err := h.ProductService.ListPublic(query)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch products", err)
		return
	}

	decorated := make([]PublicProductView, 0, len(products))
	for i := range products {
		decorated = append(decorated, h.decoratePublicProduct(&products[i]))
	}

	response.SuccessWithPage(c, decorated, response.BuildPagination(page, pageSize, total))
}

// GetFeaturedProducts lists the featured storefront picks.
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultFeaturedLimit)))
	if limit <= 0 || limit > 50 {
		limit = defaultFeaturedLimit
	}

	products, err := h.ProductService.ListFeatured(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch products", err)
		return
	}

	decorated := make([]PublicProductView, 0, len(products))
	for i := range products {
		decorated = append(decorated, h.decoratePublicProduct(&products[i]))
	}
	response.Success(c, decorated)
}

// GetProductBySlug fetches one active product by its slug.
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	product, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to fetch product")
		return
	}

	response.Success(c, h.decoratePublicProduct(product))
}

// GetCategories lists active categories for storefront navigation.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(repository.CategoryListFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch categories", err)
		return
	}

	response.Success(c, categories)
}

// GetCategoryBySlug fetches one active category by its slug.
func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	category, err := h.CategoryService.GetBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to fetch category")
		return
	}
	if !category.IsActive {
		respondError(c, response.CodeNotFound, "category not found", nil)
		return
	}

	response.Success(c, category)
}

func (h *Handler) decoratePublicProduct(product *models.Product) PublicProductView {
	if product == nil {
		return PublicProductView{}
	}

	item := PublicProductView{Product: *product}

	threshold := constants.DefaultLowStockThreshold
	if h.Config != nil && h.Config.Catalog.LowStockThreshold > 0 {
		threshold = h.Config.Catalog.LowStockThreshold
	}

	switch {
	case product.Stock <= 0:
		item.StockStatus = constants.ProductStockStatusOutOfStock
		item.IsSoldOut = true
	case product.Stock <= threshold:
		item.StockStatus = constants.ProductStockStatusLowStock
	default:
		item.StockStatus = constants.ProductStockStatusInStock
	}
	return item
}

func parseBoolFlag(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "1" || strings.EqualFold(raw, "true")
}
