package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func categoryResponse(c models.Category, productCount int64) transport.CategoryResponse {
	return transport.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		ProductCount: productCount,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]transport.CategoryResponse, error) {
	items, err := s.Repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.Repo.ActiveProductCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, categoryResponse(c, counts[c.ID]))
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*transport.CategoryResponse, error) {
	c, err := s.Repo.GetActiveCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	n, err := s.Repo.CountActiveProductsInCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := categoryResponse(*c, n)
	return &resp, nil
}

func (s *CategoryService) Stats(ctx context.Context, id uint) (*transport.CategoryStatsResponse, error) {
	c, err := s.Repo.GetActiveCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	st, err := s.Repo.CategoryStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &transport.CategoryStatsResponse{
		CategoryID:   c.ID,
		Name:         c.Name,
		ProductCount: st.ProductCount,
		TotalStock:   st.TotalStock,
		AveragePrice: money(st.AveragePrice),
		MinPrice:     money(st.MinPrice),
		MaxPrice:     money(st.MaxPrice),
		UnitsSold:    st.UnitsSold,
		Revenue:      money(st.Revenue),
	}, nil
}

func validateCategory(req transport.CategoryRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return validationf("name is required")
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*transport.CategoryResponse, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	c := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Active:      true,
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	resp := categoryResponse(*c, 0)
	return &resp, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req transport.CategoryRequest) (*transport.CategoryResponse, error) {
	if req.ID != 0 && req.ID != id {
		return nil, validationf("id in body (%d) does not match path (%d)", req.ID, id)
	}
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	current, err := s.Repo.GetActiveCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}

	c := *current
	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	if err := s.Repo.UpdateCategory(ctx, &c); err != nil {
		return nil, staleWrite(err, s.activeExists(ctx, id), "category")
	}
	n, err := s.Repo.CountActiveProductsInCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := categoryResponse(c, n)
	return &resp, nil
}

// Delete deactivates the category unless active products still use it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetActiveCategory(ctx, id); err != nil {
			return notFound(err, "category")
		}
		n, err := tx.CountActiveProductsInCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return validationf("category has %d active products", n)
		}
		return tx.DeactivateCategory(ctx, id)
	})
}

func (s *CategoryService) activeExists(ctx context.Context, id uint) func() (bool, error) {
	return func() (bool, error) {
		_, err := s.Repo.GetActiveCategory(ctx, id)
		if err == nil {
			return true, nil
		}
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}
}
