package repo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

func (r *GormRepo) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Where("active = ?", true).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetActiveCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CategoryNames returns names for the given ids regardless of active state.
func (r *GormRepo) CategoryNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Category
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, c := range items {
		out[c.ID] = c.Name
	}
	return out, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	res := r.DB.WithContext(ctx).Model(c).
		Where("active = ?", true).
		Select("name", "description").
		Updates(c)
	return affected(res)
}

func (r *GormRepo) DeactivateCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return affected(res)
}

// ActiveProductCounts maps category id to its number of active products.
func (r *GormRepo) ActiveProductCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("category_id, COUNT(*) AS count").
		Where("active = ?", true).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.Count
	}
	return out, nil
}

type CategoryStats struct {
	ProductCount int64
	TotalStock   int64
	AveragePrice decimal.Decimal
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
	UnitsSold    int64
	Revenue      decimal.Decimal
}

func (r *GormRepo) CategoryStats(ctx context.Context, categoryID uint) (*CategoryStats, error) {
	var st CategoryStats
	if err := r.DB.WithContext(ctx).Raw(`
SELECT COUNT(*) AS product_count,
       COALESCE(SUM(stock), 0) AS total_stock,
       COALESCE(AVG(price), 0) AS average_price,
       COALESCE(MIN(price), 0) AS min_price,
       COALESCE(MAX(price), 0) AS max_price
FROM products
WHERE category_id = ? AND active = ?`, categoryID, true).Scan(&st).Error; err != nil {
		return nil, err
	}

	var sales struct {
		UnitsSold int64
		Revenue   decimal.Decimal
	}
	if err := r.DB.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(oi.quantity), 0) AS units_sold,
       COALESCE(SUM(oi.line_total), 0) AS revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
JOIN products p ON p.id = oi.product_id
WHERE p.category_id = ? AND o.status <> ?`, categoryID, models.OrderStatusCancelled).Scan(&sales).Error; err != nil {
		return nil, err
	}
	st.UnitsSold = sales.UnitsSold
	st.Revenue = sales.Revenue
	return &st, nil
}
