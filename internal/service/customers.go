package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

type CustomerService struct {
	Repo *repo.GormRepo
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.Repo.ListActiveCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	c, err := s.Repo.GetActiveCustomer(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return c, nil
}

func (s *CustomerService) Search(ctx context.Context, query string) ([]models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationf("query is required")
	}
	return s.Repo.SearchCustomers(ctx, query)
}

func (s *CustomerService) ByCity(ctx context.Context, city string) ([]models.Customer, error) {
	if strings.TrimSpace(city) == "" {
		return nil, validationf("city is required")
	}
	return s.Repo.ListCustomersByCity(ctx, city)
}

// Stats counts every order; spend figures leave Cancelled orders out.
func (s *CustomerService) Stats(ctx context.Context, id uint) (*transport.CustomerStatsResponse, error) {
	c, err := s.Repo.GetActiveCustomer(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	orders, err := s.Repo.FindOrderHeaders(ctx, repo.OrderQuery{CustomerID: &id})
	if err != nil {
		return nil, err
	}

	resp := &transport.CustomerStatsResponse{
		CustomerID:     c.ID,
		Name:           c.Name,
		Email:          c.Email,
		TotalOrders:    len(orders),
		TotalSpent:     decimal.Zero,
		OrdersByStatus: map[string]int64{},
	}
	var billed int64
	for i := range orders {
		o := orders[i]
		resp.OrdersByStatus[string(o.Status)]++
		if resp.FirstOrderDate == nil || o.OrderDate.Before(*resp.FirstOrderDate) {
			resp.FirstOrderDate = &orders[i].OrderDate
		}
		if resp.LastOrderDate == nil || o.OrderDate.After(*resp.LastOrderDate) {
			resp.LastOrderDate = &orders[i].OrderDate
		}
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		billed++
		resp.TotalSpent = resp.TotalSpent.Add(o.TotalAmount)
	}
	resp.TotalSpent = money(resp.TotalSpent)
	resp.AverageOrderValue = average(resp.TotalSpent, billed)
	return resp, nil
}

func normalizeCustomer(req transport.CustomerRequest) (transport.CustomerRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		return req, validationf("name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return req, validationf("a valid email is required")
	}
	return req, nil
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	inUse, err := s.Repo.EmailInUse(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return validationf("email already in use")
	}
	return nil
}

func (s *CustomerService) Create(ctx context.Context, req transport.CustomerRequest) (*models.Customer, error) {
	req, err := normalizeCustomer(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	c := &models.Customer{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       strings.TrimSpace(req.City),
		PostalCode: req.PostalCode,
		Active:     true,
	}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, validationf("email already in use")
		}
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, req transport.CustomerRequest) (*models.Customer, error) {
	if req.ID != 0 && req.ID != id {
		return nil, validationf("id in body (%d) does not match path (%d)", req.ID, id)
	}
	req, err := normalizeCustomer(req)
	if err != nil {
		return nil, err
	}
	current, err := s.Repo.GetActiveCustomer(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	c := *current
	c.Name = req.Name
	c.Email = req.Email
	c.Phone = req.Phone
	c.Address = req.Address
	c.City = strings.TrimSpace(req.City)
	c.PostalCode = req.PostalCode
	if err := s.Repo.UpdateCustomer(ctx, &c); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, validationf("email already in use")
		}
		return nil, staleWrite(err, s.activeExists(ctx, id), "customer")
	}
	return &c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeactivateCustomer(ctx, id); err != nil {
		return staleWrite(err, s.activeExists(ctx, id), "customer")
	}
	return nil
}

func (s *CustomerService) activeExists(ctx context.Context, id uint) func() (bool, error) {
	return func() (bool, error) {
		_, err := s.Repo.GetActiveCustomer(ctx, id)
		if err == nil {
			return true, nil
		}
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}
}
