package repo

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

// salesWhere restricts joined order rows to non-cancelled orders in range.
func salesWhere(from, to *time.Time) (string, []any) {
	conds := []string{"o.status <> ?"}
	args := []any{string(models.OrderStatusCancelled)}
	if from != nil {
		conds = append(conds, "o.order_date >= ?")
		args = append(args, from.UTC())
	}
	if to != nil {
		conds = append(conds, "o.order_date <= ?")
		args = append(args, to.UTC())
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type ProductSales struct {
	ProductID  uint
	UnitsSold  int64
	Revenue    decimal.Decimal
	OrderCount int64
}

// SalesByProduct ranks products by units sold. limit <= 0 returns all.
func (r *GormRepo) SalesByProduct(ctx context.Context, from, to *time.Time, limit int) ([]ProductSales, error) {
	where, args := salesWhere(from, to)
	sql := `
SELECT oi.product_id AS product_id,
       COALESCE(SUM(oi.quantity), 0) AS units_sold,
       COALESCE(SUM(oi.line_total), 0) AS revenue,
       COUNT(DISTINCT oi.order_id) AS order_count
FROM order_items oi
JOIN orders o ON o.id = oi.order_id` + where + `
GROUP BY oi.product_id
ORDER BY units_sold DESC, revenue DESC, oi.product_id ASC`
	if limit > 0 {
		sql += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []ProductSales
	if err := r.DB.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type CategorySales struct {
	CategoryID uint
	UnitsSold  int64
	Revenue    decimal.Decimal
	OrderCount int64
}

func (r *GormRepo) SalesByCategory(ctx context.Context) ([]CategorySales, error) {
	where, args := salesWhere(nil, nil)
	var rows []CategorySales
	if err := r.DB.WithContext(ctx).Raw(`
SELECT p.category_id AS category_id,
       COALESCE(SUM(oi.quantity), 0) AS units_sold,
       COALESCE(SUM(oi.line_total), 0) AS revenue,
       COUNT(DISTINCT oi.order_id) AS order_count
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
JOIN products p ON p.id = oi.product_id`+where+`
GROUP BY p.category_id`, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type CustomerSpend struct {
	CustomerID uint
	OrderCount int64
	TotalSpent decimal.Decimal
}

func (r *GormRepo) TopCustomers(ctx context.Context, limit int) ([]CustomerSpend, error) {
	where, args := salesWhere(nil, nil)
	args = append(args, limit)
	var rows []CustomerSpend
	if err := r.DB.WithContext(ctx).Raw(`
SELECT o.customer_id AS customer_id,
       COUNT(*) AS order_count,
       COALESCE(SUM(o.total_amount), 0) AS total_spent
FROM orders o`+where+`
GROUP BY o.customer_id
ORDER BY total_spent DESC, o.customer_id ASC
LIMIT ?`, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type OrderSummary struct {
	OrderCount int64
	Revenue    decimal.Decimal
}

// SummarizeOrders counts non-cancelled orders in range and sums their totals.
func (r *GormRepo) SummarizeOrders(ctx context.Context, from, to *time.Time) (OrderSummary, error) {
	where, args := salesWhere(from, to)
	var s OrderSummary
	err := r.DB.WithContext(ctx).Raw(`
SELECT COUNT(*) AS order_count,
       COALESCE(SUM(o.total_amount), 0) AS revenue
FROM orders o`+where, args...).Scan(&s).Error
	return s, err
}

// OrderStatusCounts counts orders of every status in range.
func (r *GormRepo) OrderStatusCounts(ctx context.Context, q OrderQuery) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.orderQuery(ctx, q).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[models.OrderStatus(row.Status)] = row.Count
	}
	return out, nil
}

type CatalogCounts struct {
	Products   int64
	Categories int64
	Customers  int64
	LowStock   int64
}

// CountCatalog counts active rows; LowStock counts products below lowStockBelow.
func (r *GormRepo) CountCatalog(ctx context.Context, lowStockBelow int) (CatalogCounts, error) {
	var c CatalogCounts
	if err := r.activeProducts(ctx).Count(&c.Products).Error; err != nil {
		return c, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("active = ?", true).Count(&c.Categories).Error; err != nil {
		return c, err
	}
	if err := r.activeCustomers(ctx).Count(&c.Customers).Error; err != nil {
		return c, err
	}
	if err := r.activeProducts(ctx).Where("stock < ?", lowStockBelow).Count(&c.LowStock).Error; err != nil {
		return c, err
	}
	return c, nil
}
