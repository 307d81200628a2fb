package repo

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

var productSortColumns = map[string]string{
	"name":    "name",
	"price":   "price",
	"stock":   "stock",
	"rating":  "rating",
	"created": "created_at",
	"brand":   "brand",
}

// NormalizeProductSort maps a sort key to a known one, defaulting to name.
func NormalizeProductSort(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := productSortColumns[key]; ok {
		return key
	}
	return "name"
}

type ProductFilter struct {
	Name        string
	Description string
	Brand       string
	CategoryID  *uint
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinRating   *float64
	MinStock    *int
	InStock     *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	SortBy   string
	SortDesc bool

	Offset int
	Limit  int
}

func applyProductFilter(q *gorm.DB, f ProductFilter) *gorm.DB {
	q = q.Where("active = ?", true)
	if v := strings.TrimSpace(f.Name); v != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(strings.ToLower(v)))
	}
	if v := strings.TrimSpace(f.Description); v != "" {
		q = q.Where("LOWER(description) LIKE ?", likePattern(strings.ToLower(v)))
	}
	if v := strings.TrimSpace(f.Brand); v != "" {
		q = q.Where("LOWER(brand) LIKE ?", likePattern(strings.ToLower(v)))
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating IS NOT NULL AND rating >= ?", *f.MinRating)
	}
	if f.MinStock != nil {
		q = q.Where("stock >= ?", *f.MinStock)
	}
	if f.InStock != nil {
		if *f.InStock {
			q = q.Where("stock > ?", 0)
		} else {
			q = q.Where("stock = ?", 0)
		}
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", f.CreatedTo.UTC())
	}
	return q
}

// AdvancedProductSearch counts the filtered set before paging it.
func (r *GormRepo) AdvancedProductSearch(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	base := func() *gorm.DB {
		return applyProductFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	col := productSortColumns[NormalizeProductSort(f.SortBy)]

	q := base().Order(col + " " + dir).Order("id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SimilarCandidates returns active products other than src that share its
// category or brand, or whose price lies within [lo, hi].
func (r *GormRepo) SimilarCandidates(ctx context.Context, src *models.Product, lo, hi decimal.Decimal) ([]models.Product, error) {
	q := r.activeProducts(ctx).Where("id <> ?", src.ID)
	brand := strings.ToLower(strings.TrimSpace(src.Brand))
	if brand != "" {
		q = q.Where("(category_id = ? OR (brand <> '' AND LOWER(brand) = ?) OR (price >= ? AND price <= ?))",
			src.CategoryID, brand, lo, hi)
	} else {
		q = q.Where("(category_id = ? OR (price >= ? AND price <= ?))", src.CategoryID, lo, hi)
	}

	var items []models.Product
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
