package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

const (
	lowStockBelow    = 10
	DefaultMonths    = 12
	MaxMonths        = 120
	DefaultTrendDays = 30
	MaxTrendDays     = 365
	dateLayout       = "2006-01-02"
)

type AnalyticsService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

// productSalesResponses resolves product and category names for sales rows.
func productSalesResponses(ctx context.Context, r *repo.GormRepo, sales []repo.ProductSales) ([]transport.ProductSalesResponse, error) {
	ids := make([]uint, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ProductID)
	}
	products, err := r.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	categoryIDs := make([]uint, 0, len(products))
	for _, p := range products {
		categoryIDs = append(categoryIDs, p.CategoryID)
	}
	names, err := r.CategoryNames(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ProductSalesResponse, 0, len(sales))
	for _, s := range sales {
		p := products[s.ProductID]
		out = append(out, transport.ProductSalesResponse{
			ProductID:    s.ProductID,
			Name:         p.Name,
			CategoryName: names[p.CategoryID],
			UnitsSold:    s.UnitsSold,
			Revenue:      money(s.Revenue),
			OrderCount:   s.OrderCount,
		})
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*transport.Dashboard, error) {
	now := nowUTC(s.Now)

	counts, err := s.Repo.CountCatalog(ctx, lowStockBelow)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.Repo.CountOrders(ctx, repo.OrderQuery{})
	if err != nil {
		return nil, err
	}
	pending := models.OrderStatusPending
	pendingOrders, err := s.Repo.CountOrders(ctx, repo.OrderQuery{Status: &pending})
	if err != nil {
		return nil, err
	}
	billed, err := s.Repo.SummarizeOrders(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	today := startOfDay(now)
	ordersToday, err := s.Repo.CountOrders(ctx, repo.OrderQuery{From: &today, To: &now})
	if err != nil {
		return nil, err
	}
	monthStart := startOfMonth(now)
	month, err := s.Repo.SummarizeOrders(ctx, &monthStart, &now)
	if err != nil {
		return nil, err
	}

	return &transport.Dashboard{
		TotalProducts:     counts.Products,
		TotalCategories:   counts.Categories,
		TotalCustomers:    counts.Customers,
		TotalOrders:       totalOrders,
		TotalRevenue:      money(billed.Revenue),
		AverageOrderValue: average(billed.Revenue, billed.OrderCount),
		PendingOrders:     pendingOrders,
		LowStockProducts:  counts.LowStock,
		OrdersToday:       ordersToday,
		RevenueThisMonth:  money(month.Revenue),
	}, nil
}

func (s *AnalyticsService) TopSellingProducts(ctx context.Context, count int) ([]transport.ProductSalesResponse, error) {
	sales, err := s.Repo.SalesByProduct(ctx, nil, nil, clampCount(count, DefaultTopCount))
	if err != nil {
		return nil, err
	}
	return productSalesResponses(ctx, s.Repo, sales)
}

// SalesByCategory lists every active category, zero filled, best revenue first.
func (s *AnalyticsService) SalesByCategory(ctx context.Context) ([]transport.CategorySalesResponse, error) {
	categories, err := s.Repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.Repo.SalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]repo.CategorySales, len(sales))
	for _, row := range sales {
		byID[row.CategoryID] = row
	}

	out := make([]transport.CategorySalesResponse, 0, len(categories))
	for _, c := range categories {
		row := byID[c.ID]
		out = append(out, transport.CategorySalesResponse{
			CategoryID: c.ID,
			Name:       c.Name,
			UnitsSold:  row.UnitsSold,
			Revenue:    money(row.Revenue),
			OrderCount: row.OrderCount,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].Revenue.Cmp(out[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (s *AnalyticsService) TopCustomers(ctx context.Context, count int) ([]transport.TopCustomerResponse, error) {
	rows, err := s.Repo.TopCustomers(ctx, clampCount(count, DefaultTopCount))
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CustomerID)
	}
	customers, err := s.Repo.CustomersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]transport.TopCustomerResponse, 0, len(rows))
	for _, row := range rows {
		c := customers[row.CustomerID]
		out = append(out, transport.TopCustomerResponse{
			CustomerID: row.CustomerID,
			Name:       c.Name,
			Email:      c.Email,
			City:       c.City,
			OrderCount: row.OrderCount,
			TotalSpent: money(row.TotalSpent),
		})
	}
	return out, nil
}

// MonthlySales covers the current month and the months-1 before it, oldest
// first, with empty months included.
func (s *AnalyticsService) MonthlySales(ctx context.Context, months int) ([]transport.MonthlySales, error) {
	if months < 1 {
		months = DefaultMonths
	}
	if months > MaxMonths {
		months = MaxMonths
	}
	now := nowUTC(s.Now)
	from := startOfMonth(now).AddDate(0, -(months - 1), 0)

	orders, err := s.Repo.FindOrderHeaders(ctx, repo.OrderQuery{From: &from, To: &now, ExcludeCancelled: true})
	if err != nil {
		return nil, err
	}

	out := make([]transport.MonthlySales, months)
	revenue := make([]decimal.Decimal, months)
	for i := range out {
		m := from.AddDate(0, i, 0)
		out[i] = transport.MonthlySales{Year: m.Year(), Month: int(m.Month()), MonthName: m.Month().String()}
		revenue[i] = decimal.Zero
	}
	for _, o := range orders {
		t := o.OrderDate.UTC()
		i := (t.Year()-from.Year())*12 + int(t.Month()) - int(from.Month())
		if i < 0 || i >= months {
			continue
		}
		out[i].OrderCount++
		revenue[i] = revenue[i].Add(o.TotalAmount)
	}
	for i := range out {
		out[i].Revenue = money(revenue[i])
		out[i].AverageOrderValue = average(revenue[i], int64(out[i].OrderCount))
	}
	return out, nil
}

type priceBucket struct {
	label string
	min   decimal.Decimal
	max   *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Buckets are [min, max); the last one is open ended.
var priceBuckets = []priceBucket{
	{"0-50", decimal.Zero, bound(50)},
	{"50-100", decimal.NewFromInt(50), bound(100)},
	{"100-500", decimal.NewFromInt(100), bound(500)},
	{"500-1000", decimal.NewFromInt(500), bound(1000)},
	{"1000+", decimal.NewFromInt(1000), nil},
}

func (b priceBucket) contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(b.min) && (b.max == nil || price.LessThan(*b.max))
}

func (s *AnalyticsService) ProductsByPriceRange(ctx context.Context) ([]transport.PriceRangeBucket, error) {
	products, err := s.Repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.PriceRangeBucket, 0, len(priceBuckets))
	for _, b := range priceBuckets {
		sum := decimal.Zero
		row := transport.PriceRangeBucket{Range: b.label, MinPrice: b.min, MaxPrice: b.max}
		for _, p := range products {
			if !b.contains(p.Price) {
				continue
			}
			row.ProductCount++
			row.TotalStock += int64(p.Stock)
			sum = sum.Add(p.Price)
		}
		row.AveragePrice = average(sum, int64(row.ProductCount))
		out = append(out, row)
	}
	return out, nil
}

func (s *AnalyticsService) StockByCategory(ctx context.Context) ([]transport.CategoryStock, error) {
	categories, err := s.Repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uint]*transport.CategoryStock, len(categories))
	out := make([]transport.CategoryStock, len(categories))
	for i, c := range categories {
		out[i] = transport.CategoryStock{CategoryID: c.ID, Category: c.Name, StockValue: decimal.Zero}
		byCategory[c.ID] = &out[i]
	}
	for _, p := range products {
		row, ok := byCategory[p.CategoryID]
		if !ok {
			continue
		}
		row.ProductCount++
		row.TotalStock += int64(p.Stock)
		row.StockValue = row.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.Stock < lowStockBelow {
			row.LowStockCount++
		}
		if p.Stock == 0 {
			row.OutOfStockCount++
		}
	}
	for i := range out {
		out[i].StockValue = money(out[i].StockValue)
	}
	return out, nil
}

// SalesTrends reports the trailing days (today included) day by day and
// compares the total with the equally long period right before it.
func (s *AnalyticsService) SalesTrends(ctx context.Context, days int) (*transport.SalesTrends, error) {
	if days < 1 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	now := nowUTC(s.Now)
	from := startOfDay(now).AddDate(0, 0, -(days - 1))
	prevFrom := from.AddDate(0, 0, -days)
	prevTo := from.Add(-time.Nanosecond)

	orders, err := s.Repo.FindOrderHeaders(ctx, repo.OrderQuery{From: &from, To: &now, ExcludeCancelled: true})
	if err != nil {
		return nil, err
	}
	prev, err := s.Repo.SummarizeOrders(ctx, &prevFrom, &prevTo)
	if err != nil {
		return nil, err
	}

	daily := make([]transport.DailySales, days)
	revenue := make([]decimal.Decimal, days)
	for i := range daily {
		daily[i].Date = from.AddDate(0, 0, i).Format(dateLayout)
		revenue[i] = decimal.Zero
	}
	total := decimal.Zero
	for _, o := range orders {
		i := int(startOfDay(o.OrderDate.UTC()).Sub(from).Hours() / 24)
		if i < 0 || i >= days {
			continue
		}
		daily[i].OrderCount++
		revenue[i] = revenue[i].Add(o.TotalAmount)
		total = total.Add(o.TotalAmount)
	}
	for i := range daily {
		daily[i].Revenue = money(revenue[i])
	}

	resp := &transport.SalesTrends{
		Days:            days,
		Daily:           daily,
		TotalOrders:     len(orders),
		TotalRevenue:    money(total),
		PreviousOrders:  int(prev.OrderCount),
		PreviousRevenue: money(prev.Revenue),
	}
	if prev.Revenue.IsPositive() {
		growth, _ := total.Sub(prev.Revenue).Div(prev.Revenue).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		resp.GrowthPercentage = growth
	}
	return resp, nil
}

func (s *AnalyticsService) TopRatedProducts(ctx context.Context, count int, minRating float64) ([]transport.ProductResponse, error) {
	if minRating < 0 || minRating > 5 {
		return nil, validationf("minRating must be between 0 and 5")
	}
	items, err := s.Repo.ListTopRated(ctx, minRating, clampCount(count, DefaultTopCount))
	if err != nil {
		return nil, err
	}
	return productResponses(ctx, s.Repo, items)
}

type brandAcc struct {
	row       transport.BrandPerformance
	priceSum  decimal.Decimal
	ratingSum float64
	rated     int
}

// BrandPerformance groups active branded products by case-folded brand.
func (s *AnalyticsService) BrandPerformance(ctx context.Context) ([]transport.BrandPerformance, error) {
	products, err := s.Repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.Repo.SalesByProduct(ctx, nil, nil, 0)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uint]repo.ProductSales, len(sales))
	for _, row := range sales {
		byProduct[row.ProductID] = row
	}

	brands := map[string]*brandAcc{}
	var order []string
	for _, p := range products {
		name := strings.TrimSpace(p.Brand)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		acc, ok := brands[key]
		if !ok {
			acc = &brandAcc{
				row:      transport.BrandPerformance{Brand: name, Revenue: decimal.Zero},
				priceSum: decimal.Zero,
			}
			brands[key] = acc
			order = append(order, key)
		}
		acc.row.ProductCount++
		acc.row.TotalStock += int64(p.Stock)
		acc.priceSum = acc.priceSum.Add(p.Price)
		if p.Rating != nil {
			acc.ratingSum += *p.Rating
			acc.rated++
		}
		sold := byProduct[p.ID]
		acc.row.UnitsSold += sold.UnitsSold
		acc.row.Revenue = acc.row.Revenue.Add(sold.Revenue)
	}

	out := make([]transport.BrandPerformance, 0, len(order))
	for _, key := range order {
		acc := brands[key]
		acc.row.AveragePrice = average(acc.priceSum, int64(acc.row.ProductCount))
		acc.row.Revenue = money(acc.row.Revenue)
		if acc.rated > 0 {
			avg, _ := decimal.NewFromFloat(acc.ratingSum / float64(acc.rated)).Round(2).Float64()
			acc.row.AverageRating = &avg
		}
		out = append(out, acc.row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].Revenue.Cmp(out[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return out[i].Brand < out[j].Brand
	})
	return out, nil
}
