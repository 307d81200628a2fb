package repo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

// ErrNoRowsAffected reports a conditional write that matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn as one unit of work. fn receives a repo bound to the
// transaction and must not touch the outer repo.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// IsUniqueViolation reports a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func likePattern(s string) string {
	return "%" + s + "%"
}
