package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Skotchmaster/product_catalog/internal/events"
	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

const (
	DefaultLowStockThreshold = 10
	DefaultTopCount          = 10
	MaxTopCount              = 100
)

type ProductService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	Index  ProductIndex
}

// productResponses denormalizes category names with one lookup.
func productResponses(ctx context.Context, r *repo.GormRepo, items []models.Product) ([]transport.ProductResponse, error) {
	ids := make([]uint, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.CategoryID)
	}
	names, err := r.CategoryNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, transport.NewProductResponse(p, names[p.CategoryID]))
	}
	return out, nil
}

func productResponse(ctx context.Context, r *repo.GormRepo, p *models.Product) (*transport.ProductResponse, error) {
	out, err := productResponses(ctx, r, []models.Product{*p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func clampCount(n, def int) int {
	if n < 1 {
		return def
	}
	if n > MaxTopCount {
		return MaxTopCount
	}
	return n
}

func (s *ProductService) List(ctx context.Context) ([]transport.ProductResponse, error) {
	items, err := s.Repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	return productResponses(ctx, s.Repo, items)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*transport.ProductResponse, error) {
	p, err := s.Repo.GetActiveProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return productResponse(ctx, s.Repo, p)
}

func (s *ProductService) Search(ctx context.Context, q repo.ProductSearch) ([]transport.ProductResponse, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, validationf("minPrice must not exceed maxPrice")
	}
	items, err := s.Repo.SearchProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	return productResponses(ctx, s.Repo, items)
}

func (s *ProductService) ByCategory(ctx context.Context, categoryID uint) ([]transport.ProductResponse, error) {
	if _, err := s.Repo.GetActiveCategory(ctx, categoryID); err != nil {
		return nil, notFound(err, "category")
	}
	items, err := s.Repo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return productResponses(ctx, s.Repo, items)
}

func (s *ProductService) LowStock(ctx context.Context, threshold int) ([]transport.ProductResponse, error) {
	if threshold < 0 {
		return nil, validationf("threshold must be >= 0")
	}
	items, err := s.Repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return productResponses(ctx, s.Repo, items)
}

func (s *ProductService) TopRated(ctx context.Context, count int) ([]transport.ProductResponse, error) {
	items, err := s.Repo.ListTopRated(ctx, 0, clampCount(count, DefaultTopCount))
	if err != nil {
		return nil, err
	}
	return productResponses(ctx, s.Repo, items)
}

func validateProduct(req transport.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return validationf("name is required")
	}
	if req.Price.IsNegative() {
		return validationf("price must be >= 0")
	}
	if req.Stock < 0 {
		return validationf("stock must be >= 0")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return validationf("rating must be between 0 and 5")
	}
	if req.CategoryID == 0 {
		return validationf("category_id is required")
	}
	return nil
}

func (s *ProductService) requireCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.GetActiveCategory(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, validationf("category %d does not exist or is inactive", id)
		}
		return nil, err
	}
	return c, nil
}

func (s *ProductService) Create(ctx context.Context, req transport.ProductRequest) (*transport.ProductResponse, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	cat, err := s.requireCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       money(req.Price),
		Stock:       req.Stock,
		Brand:       strings.TrimSpace(req.Brand),
		Rating:      req.Rating,
		ImageURL:    req.ImageURL,
		CategoryID:  cat.ID,
		Active:      true,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.sync(ctx, p, cat.Name, events.ProductCreated)
	resp := transport.NewProductResponse(*p, cat.Name)
	return &resp, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, req transport.ProductRequest) (*transport.ProductResponse, error) {
	if req.ID != 0 && req.ID != id {
		return nil, validationf("id in body (%d) does not match path (%d)", req.ID, id)
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	current, err := s.Repo.GetActiveProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	cat, err := s.requireCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	p := *current
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = money(req.Price)
	p.Stock = req.Stock
	p.Brand = strings.TrimSpace(req.Brand)
	p.Rating = req.Rating
	p.ImageURL = req.ImageURL
	p.CategoryID = cat.ID

	if err := s.Repo.UpdateProduct(ctx, &p); err != nil {
		return nil, staleWrite(err, s.activeProductExists(ctx, id), "product")
	}

	s.sync(ctx, &p, cat.Name, events.ProductUpdated)
	resp := transport.NewProductResponse(p, cat.Name)
	return &resp, nil
}

func (s *ProductService) UpdateStock(ctx context.Context, id uint, stock int) (*transport.ProductResponse, error) {
	if stock < 0 {
		return nil, validationf("stock must be >= 0")
	}
	if err := s.Repo.SetProductStock(ctx, id, stock); err != nil {
		return nil, staleWrite(err, s.activeProductExists(ctx, id), "product")
	}
	p, err := s.Repo.GetActiveProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	resp, err := productResponse(ctx, s.Repo, p)
	if err != nil {
		return nil, err
	}

	s.sync(ctx, p, resp.CategoryName, events.StockUpdated)
	return resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeactivateProduct(ctx, id); err != nil {
		return staleWrite(err, s.activeProductExists(ctx, id), "product")
	}

	key := strconv.FormatUint(uint64(id), 10)
	publish(ctx, s.Events, events.TopicProducts, key, events.ProductDeleted, map[string]any{"product_id": id})
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("index_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *ProductService) activeProductExists(ctx context.Context, id uint) func() (bool, error) {
	return func() (bool, error) {
		_, err := s.Repo.GetActiveProduct(ctx, id)
		if err == nil {
			return true, nil
		}
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}
}

// sync pushes a committed product write to the event stream and the index.
func (s *ProductService) sync(ctx context.Context, p *models.Product, categoryName, eventType string) {
	key := strconv.FormatUint(uint64(p.ID), 10)
	publish(ctx, s.Events, events.TopicProducts, key, eventType, map[string]any{
		"product_id":  p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
	})
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, *p, categoryName); err != nil {
			logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID, "error", err)
		}
	}
}
