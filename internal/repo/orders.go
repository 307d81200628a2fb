package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

type OrderQuery struct {
	CustomerID  *uint
	CustomerIDs []uint
	Status      *models.OrderStatus
	From        *time.Time
	To          *time.Time

	// ExcludeCancelled drops Cancelled orders regardless of Status.
	ExcludeCancelled bool
}

func (r *GormRepo) orderQuery(ctx context.Context, q OrderQuery) *gorm.DB {
	tx := r.DB.WithContext(ctx).Model(&models.Order{})
	if q.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *q.CustomerID)
	}
	if q.CustomerIDs != nil {
		tx = tx.Where("customer_id IN ?", q.CustomerIDs)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", string(*q.Status))
	}
	if q.ExcludeCancelled {
		tx = tx.Where("status <> ?", string(models.OrderStatusCancelled))
	}
	if q.From != nil {
		tx = tx.Where("order_date >= ?", q.From.UTC())
	}
	if q.To != nil {
		tx = tx.Where("order_date <= ?", q.To.UTC())
	}
	return tx
}

// FindOrders returns matching orders newest first with their items loaded.
func (r *GormRepo) FindOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	var items []models.Order
	if err := r.orderQuery(ctx, q).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Order("order_date DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindOrderHeaders is FindOrders without items, oldest first.
func (r *GormRepo) FindOrderHeaders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	var items []models.Order
	if err := r.orderQuery(ctx, q).Order("order_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountOrders(ctx context.Context, q OrderQuery) (int64, error) {
	var n int64
	if err := r.orderQuery(ctx, q).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForUpdate locks the order row until the surrounding transaction ends.
func (r *GormRepo) GetOrderForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	q := r.DB.WithContext(ctx).Where("id = ?", id)
	if r.DB.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&o).Error; err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// CreateOrderHeader inserts the order row alone so its id is available to
// the line items.
func (r *GormRepo) CreateOrderHeader(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *GormRepo) CreateOrderItem(ctx context.Context, it *models.OrderItem) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(it).Error
}

func (r *GormRepo) SetOrderTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("total_amount", total)
	return affected(res)
}

func (r *GormRepo) SetOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", string(status))
	return affected(res)
}

// DeleteOrder removes the order and its items.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	if err := r.DB.WithContext(ctx).Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, id)
	return affected(res)
}

// ItemsForOrders returns the line items of the given orders.
func (r *GormRepo) ItemsForOrders(ctx context.Context, orderIDs []uint) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id IN ?", orderIDs).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
