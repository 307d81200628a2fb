package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/events"
	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

const (
	salesReportDays        = 30
	salesReportTopProducts = 5
)

type OrderService struct {
	Repo    *repo.GormRepo
	Events  EventPublisher
	Metrics *OrderMetrics
	Now     func() time.Time
}

func validStatuses() string {
	names := make([]string, 0, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(s string) (models.OrderStatus, error) {
	st, ok := models.ParseOrderStatus(s)
	if !ok {
		return "", validationf("invalid status %q, valid values: %s", s, validStatuses())
	}
	return st, nil
}

// orderResponses hydrates customer and product names with one query each.
func orderResponses(ctx context.Context, r *repo.GormRepo, orders []models.Order) ([]transport.OrderResponse, error) {
	customerIDs := make([]uint, 0, len(orders))
	var productIDs []uint
	for _, o := range orders {
		customerIDs = append(customerIDs, o.CustomerID)
		for _, it := range o.Items {
			productIDs = append(productIDs, it.ProductID)
		}
	}
	customers, err := r.CustomersByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	products, err := r.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	out := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]transport.OrderItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, transport.OrderItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				ProductName: products[it.ProductID].Name,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				LineTotal:   it.LineTotal,
			})
		}
		out = append(out, transport.OrderResponse{
			ID:           o.ID,
			CustomerID:   o.CustomerID,
			CustomerName: customers[o.CustomerID].Name,
			OrderDate:    o.OrderDate,
			TotalAmount:  o.TotalAmount,
			Status:       o.Status,
			Notes:        o.Notes,
			Items:        items,
		})
	}
	return out, nil
}

func (s *OrderService) one(ctx context.Context, o *models.Order) (*transport.OrderResponse, error) {
	out, err := orderResponses(ctx, s.Repo, []models.Order{*o})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *OrderService) List(ctx context.Context) ([]transport.OrderResponse, error) {
	orders, err := s.Repo.FindOrders(ctx, repo.OrderQuery{})
	if err != nil {
		return nil, err
	}
	return orderResponses(ctx, s.Repo, orders)
}

func (s *OrderService) Get(ctx context.Context, id uint) (*transport.OrderResponse, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return s.one(ctx, o)
}

// ByCustomer also serves inactive customers, whose orders stay addressable.
func (s *OrderService) ByCustomer(ctx context.Context, customerID uint) ([]transport.OrderResponse, error) {
	ok, err := s.Repo.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, missing("customer")
	}
	orders, err := s.Repo.FindOrders(ctx, repo.OrderQuery{CustomerID: &customerID})
	if err != nil {
		return nil, err
	}
	return orderResponses(ctx, s.Repo, orders)
}

func (s *OrderService) ByStatus(ctx context.Context, status string) ([]transport.OrderResponse, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.FindOrders(ctx, repo.OrderQuery{Status: &st})
	if err != nil {
		return nil, err
	}
	return orderResponses(ctx, s.Repo, orders)
}

func (s *OrderService) ByPeriod(ctx context.Context, start, end *time.Time) ([]transport.OrderResponse, error) {
	if start == nil || end == nil {
		return nil, validationf("startDate and endDate are required")
	}
	if start.After(*end) {
		return nil, validationf("startDate must not be after endDate")
	}
	orders, err := s.Repo.FindOrders(ctx, repo.OrderQuery{From: start, To: end})
	if err != nil {
		return nil, err
	}
	return orderResponses(ctx, s.Repo, orders)
}

// SalesReport defaults to the trailing 30 days.
func (s *OrderService) SalesReport(ctx context.Context, start, end *time.Time) (*transport.SalesReportResponse, error) {
	now := nowUTC(s.Now)
	to := now
	if end != nil {
		to = end.UTC()
	}
	from := to.AddDate(0, 0, -salesReportDays)
	if start != nil {
		from = start.UTC()
	}
	if from.After(to) {
		return nil, validationf("startDate must not be after endDate")
	}

	byStatus, err := s.Repo.OrderStatusCounts(ctx, repo.OrderQuery{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	summary, err := s.Repo.SummarizeOrders(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	sales, err := s.Repo.SalesByProduct(ctx, &from, &to, salesReportTopProducts)
	if err != nil {
		return nil, err
	}
	top, err := productSalesResponses(ctx, s.Repo, sales)
	if err != nil {
		return nil, err
	}

	resp := &transport.SalesReportResponse{
		StartDate:         from,
		EndDate:           to,
		TotalRevenue:      money(summary.Revenue),
		AverageOrderValue: average(summary.Revenue, summary.OrderCount),
		OrdersByStatus:    map[string]int64{},
		TopProducts:       top,
	}
	for st, n := range byStatus {
		resp.OrdersByStatus[string(st)] = n
		resp.TotalOrders += n
	}
	return resp, nil
}

func validateOrder(req transport.CreateOrderRequest) error {
	if req.CustomerID == 0 {
		return validationf("customer_id is required")
	}
	if len(req.Items) == 0 {
		return validationf("at least one item is required")
	}
	for i, line := range req.Items {
		if line.ProductID == 0 {
			return validationf("items[%d]: product_id is required", i)
		}
		if line.Quantity <= 0 {
			return validationf("items[%d]: quantity must be > 0", i)
		}
	}
	return nil
}

// Place reserves stock and records the order in one transaction.
func (s *OrderService) Place(ctx context.Context, req transport.CreateOrderRequest) (*transport.OrderResponse, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetActiveCustomer(ctx, req.CustomerID); err != nil {
			if isMissing(err) {
				return validationf("customer %d does not exist or is inactive", req.CustomerID)
			}
			return err
		}

		order = models.Order{
			CustomerID:  req.CustomerID,
			OrderDate:   nowUTC(s.Now),
			TotalAmount: decimal.Zero,
			Status:      models.OrderStatusPending,
			Notes:       req.Notes,
		}
		if err := tx.CreateOrderHeader(ctx, &order); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range req.Items {
			p, err := tx.GetActiveProductForUpdate(ctx, line.ProductID)
			if err != nil {
				if isMissing(err) {
					return validationf("product %d does not exist or is inactive", line.ProductID)
				}
				return err
			}
			if line.Quantity > p.Stock {
				return validationf("insufficient stock for product %s: available %d, requested %d", p.Name, p.Stock, line.Quantity)
			}
			if err := tx.DecrementStock(ctx, p.ID, line.Quantity); err != nil {
				if errors.Is(err, repo.ErrNoRowsAffected) {
					return validationf("insufficient stock for product %s: requested %d", p.Name, line.Quantity)
				}
				return err
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  line.Quantity,
				UnitPrice: p.Price,
				LineTotal: money(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))),
			}
			if err := tx.CreateOrderItem(ctx, &item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
			total = total.Add(item.LineTotal)
		}

		order.TotalAmount = money(total)
		return tx.SetOrderTotal(ctx, order.ID, order.TotalAmount)
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.orderPlaced(ctx, order.TotalAmount)
	s.publish(ctx, events.OrderPlaced, &order)
	return s.one(ctx, &order)
}

// UpdateStatus moves the order to status. Moving to Cancelled restores stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*transport.OrderResponse, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if st == models.OrderStatusCancelled {
		return s.Cancel(ctx, id)
	}

	var order *models.Order
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if o.Status == models.OrderStatusCancelled {
			return validationf("order %d is cancelled and cannot change status", id)
		}
		if err := tx.SetOrderStatus(ctx, id, st); err != nil {
			return err
		}
		o.Status = st
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderStatusChanged, order)
	return s.one(ctx, order)
}

// Cancel restores every item's quantity to stock unless the order is
// Delivered or already Cancelled.
func (s *OrderService) Cancel(ctx context.Context, id uint) (*transport.OrderResponse, error) {
	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if o.Status.Final() {
			return validationf("order %d is %s and cannot be cancelled", id, o.Status)
		}
		for _, it := range o.Items {
			if err := tx.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.SetOrderStatus(ctx, id, models.OrderStatusCancelled); err != nil {
			return err
		}
		o.Status = models.OrderStatusCancelled
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.orderCancelled(ctx)
	s.publish(ctx, events.OrderCancelled, order)
	return s.one(ctx, order)
}

// Delete removes the order and its items; stock is left as is.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.DeleteOrder(ctx, id); err != nil {
			return staleWrite(err, func() (bool, error) {
				_, err := tx.GetOrder(ctx, id)
				if isMissing(err) {
					return false, nil
				}
				return err == nil, err
			}, "order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicOrders, strconv.FormatUint(uint64(id), 10), events.OrderDeleted,
		map[string]any{"order_id": id})
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, o *models.Order) {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice,
		})
	}
	publish(ctx, s.Events, events.TopicOrders, strconv.FormatUint(uint64(o.ID), 10), eventType, map[string]any{
		"order_id":     o.ID,
		"customer_id":  o.CustomerID,
		"status":       o.Status,
		"total_amount": o.TotalAmount,
		"items":        items,
	})
}
