package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

func (r *GormRepo) activeCustomers(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Customer{}).Where("active = ?", true)
}

func (r *GormRepo) ListActiveCustomers(ctx context.Context) ([]models.Customer, error) {
	var items []models.Customer
	if err := r.activeCustomers(ctx).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetActiveCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.activeCustomers(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CustomerExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CustomersByIDs loads customers regardless of active state, keyed by id.
func (r *GormRepo) CustomersByIDs(ctx context.Context, ids []uint) (map[uint]models.Customer, error) {
	out := make(map[uint]models.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Customer
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, c := range items {
		out[c.ID] = c
	}
	return out, nil
}

func (r *GormRepo) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	q := r.activeCustomers(ctx)
	if term := strings.TrimSpace(query); term != "" {
		p := likePattern(strings.ToLower(term))
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(city) LIKE ?)", p, p, p)
	}
	var items []models.Customer
	if err := q.Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListCustomersByCity(ctx context.Context, city string) ([]models.Customer, error) {
	var items []models.Customer
	if err := r.activeCustomers(ctx).
		Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(city))).
		Order("name ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// EmailInUse reports whether another active customer already owns email.
// excludeID 0 checks every customer.
func (r *GormRepo) EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := r.activeCustomers(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

type CustomerFilter struct {
	City            string
	RegisteredAfter *time.Time
}

// FilterCustomers applies the stored-column part of the customer behavior
// query. Derived filters are applied by the caller.
func (r *GormRepo) FilterCustomers(ctx context.Context, f CustomerFilter) ([]models.Customer, error) {
	q := r.activeCustomers(ctx)
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) LIKE ?", likePattern(strings.ToLower(city)))
	}
	if f.RegisteredAfter != nil {
		q = q.Where("created_at > ?", f.RegisteredAfter.UTC())
	}
	var items []models.Customer
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res := r.DB.WithContext(ctx).Model(c).
		Where("active = ?", true).
		Select("name", "email", "phone", "address", "city", "postal_code").
		Updates(c)
	return affected(res)
}

func (r *GormRepo) DeactivateCustomer(ctx context.Context, id uint) error {
	res := r.activeCustomers(ctx).Where("id = ?", id).Update("active", false)
	return affected(res)
}
