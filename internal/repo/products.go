package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

func (r *GormRepo) activeProducts(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Product{}).Where("active = ?", true)
}

func (r *GormRepo) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.activeProducts(ctx).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetActiveProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.activeProducts(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveProductForUpdate locks the product row until the surrounding
// transaction ends. SQLite ignores the lock clause.
func (r *GormRepo) GetActiveProductForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	q := r.activeProducts(ctx).Where("id = ?", id)
	if r.DB.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ProductsByIDs loads products regardless of active state, keyed by id.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

type ProductSearch struct {
	Query      string
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

func (r *GormRepo) SearchProducts(ctx context.Context, s ProductSearch) ([]models.Product, error) {
	q := r.activeProducts(ctx)
	if term := strings.TrimSpace(s.Query); term != "" {
		p := likePattern(strings.ToLower(term))
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?)", p, p, p)
	}
	if s.CategoryID != nil {
		q = q.Where("category_id = ?", *s.CategoryID)
	}
	if s.MinPrice != nil {
		q = q.Where("price >= ?", *s.MinPrice)
	}
	if s.MaxPrice != nil {
		q = q.Where("price <= ?", *s.MaxPrice)
	}

	var items []models.Product
	if err := q.Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var items []models.Product
	if err := r.activeProducts(ctx).Where("category_id = ?", categoryID).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var items []models.Product
	if err := r.activeProducts(ctx).Where("stock <= ?", threshold).Order("stock ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListTopRated returns rated products at or above minRating, best first.
func (r *GormRepo) ListTopRated(ctx context.Context, minRating float64, count int) ([]models.Product, error) {
	var items []models.Product
	if err := r.activeProducts(ctx).
		Where("rating IS NOT NULL AND rating >= ?", minRating).
		Order("rating DESC, name ASC, id ASC").
		Limit(count).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountActiveProductsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	if err := r.activeProducts(ctx).Where("category_id = ?", categoryID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// UpdateProduct replaces the mutable columns of an active product.
func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := r.DB.WithContext(ctx).Model(p).
		Where("active = ?", true).
		Select("name", "description", "price", "stock", "brand", "rating", "image_url", "category_id", "updated_at").
		Updates(p)
	return affected(res)
}

func (r *GormRepo) SetProductStock(ctx context.Context, id uint, stock int) error {
	res := r.activeProducts(ctx).Where("id = ?", id).Update("stock", stock)
	return affected(res)
}

// DecrementStock subtracts qty only while enough stock remains.
func (r *GormRepo) DecrementStock(ctx context.Context, id uint, qty int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return affected(res)
}

func (r *GormRepo) IncrementStock(ctx context.Context, id uint, qty int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	return affected(res)
}

func (r *GormRepo) DeactivateProduct(ctx context.Context, id uint) error {
	res := r.activeProducts(ctx).Where("id = ?", id).Update("active", false)
	return affected(res)
}
