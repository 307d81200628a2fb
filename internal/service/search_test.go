package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

func TestAdvancedProducts_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.search.AdvancedProducts(ctx, service.AdvancedSearchParams{
		Filter:        repo.ProductFilter{SortBy: "price"},
		SortDirection: "DESC",
		Page:          1,
		PageSize:      5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Pagination.TotalCount)
	assert.EqualValues(t, 3, page.Pagination.TotalPages)
	require.Len(t, page.Products, 5)
	assert.Equal(t, "iPhone 15 Pro", page.Products[0].Name)
	assert.Equal(t, "price", page.Filters.SortBy)
	assert.Equal(t, "desc", page.Filters.SortDirection)

	last, err := f.search.AdvancedProducts(ctx, service.AdvancedSearchParams{
		Filter:        repo.ProductFilter{SortBy: "price"},
		SortDirection: "desc",
		Page:          3,
		PageSize:      5,
	})
	require.NoError(t, err)
	require.Len(t, last.Products, 2)
	assert.Equal(t, "Clean Code", last.Products[1].Name)

	clamped, err := f.search.AdvancedProducts(ctx, service.AdvancedSearchParams{
		Filter:   repo.ProductFilter{SortBy: "bogus"},
		Page:     -3,
		PageSize: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Pagination.Page)
	assert.Equal(t, 100, clamped.Pagination.PageSize)
	assert.Equal(t, "name", clamped.Filters.SortBy)
	assert.Equal(t, "asc", clamped.Filters.SortDirection)
	assert.Len(t, clamped.Products, 12)
}

func TestAdvancedProducts_Validation(t *testing.T) {
	f := newFixture(t)

	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(5)
	_, err := f.search.AdvancedProducts(context.Background(), service.AdvancedSearchParams{
		Filter: repo.ProductFilter{MinPrice: &lo, MaxPrice: &hi},
	})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestSimilarProducts_Ranking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat, err := f.categories.Create(ctx, transport.CategoryRequest{Name: "Gadgets"})
	require.NoError(t, err)

	create := func(name, price, brand string, categoryID uint) uint {
		req := productRequest(name, price, categoryID)
		req.Brand = brand
		p, err := f.products.Create(ctx, req)
		require.NoError(t, err)
		return p.ID
	}
	widget := create("Widget", "100", "Acme", cat.ID)
	gadget := create("Gadget", "500", "", cat.ID)
	thing := create("Thing", "300", "ACME ", 2)
	gizmo := create("Gizmo", "105", "Zeta", 5)

	got, err := f.search.SimilarProducts(ctx, widget, 10)
	require.NoError(t, err)
	assert.Equal(t, widget, got.Source.ID)

	var ids []uint
	for _, s := range got.Similar {
		ids = append(ids, s.Product.ID)
	}
	assert.Equal(t, []uint{gadget, thing, gizmo, 7, 8}, ids)
	assert.Equal(t, []string{"same category"}, got.Similar[0].Reasons)
	assert.Equal(t, []string{"same brand"}, got.Similar[1].Reasons)
	assert.Equal(t, []string{"similar price"}, got.Similar[2].Reasons)
	requireDecimal(t, "5", got.Similar[2].PriceDifference)
	requireDecimal(t, "400", got.Similar[0].PriceDifference)

	one, err := f.search.SimilarProducts(ctx, widget, 0)
	require.NoError(t, err)
	require.Len(t, one.Similar, 1)
	assert.Equal(t, gadget, one.Similar[0].Product.ID)

	_, err = f.search.SimilarProducts(ctx, 999, 5)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCustomerBehavior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.place(t, 1, map[uint]int{1: 1})
	f.place(t, 2, map[uint]int{7: 2})
	f.place(t, 3, map[uint]int{11: 1})
	o := f.place(t, 4, map[uint]int{2: 1})
	_, err := f.orders.Cancel(ctx, o.ID)
	require.NoError(t, err)

	got, err := f.search.CustomerBehavior(ctx, service.BehaviorParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, got.Pagination.TotalCount)
	require.Len(t, got.Customers, 4)

	var order []uint
	for _, c := range got.Customers {
		order = append(order, c.CustomerID)
	}
	assert.Equal(t, []uint{1, 3, 2, 4}, order)
	assert.Equal(t, "Premium", got.Customers[0].Segment)
	assert.Equal(t, "Regular", got.Customers[1].Segment)
	assert.Equal(t, "Basic", got.Customers[2].Segment)

	bruno := got.Customers[2]
	requireDecimal(t, "179.80", bruno.TotalSpent)
	requireDecimal(t, "179.80", bruno.AverageOrderValue)
	assert.Equal(t, []transport.NamedQuantity{{ID: 7, Name: "Clean Code", Quantity: 2}}, bruno.TopProducts)
	assert.Equal(t, []transport.NamedQuantity{{ID: 3, Name: "Books", Quantity: 2}}, bruno.TopCategories)
	require.NotNil(t, bruno.LastOrderDate)
	assert.Equal(t, 0, bruno.DaysSinceLastActivity)

	diego := got.Customers[3]
	assert.Zero(t, diego.TotalOrders)
	assert.True(t, diego.TotalSpent.IsZero())
	assert.Nil(t, diego.LastOrderDate)
	assert.Empty(t, diego.TopProducts)

	minOrders := 1
	active, err := f.search.CustomerBehavior(ctx, service.BehaviorParams{MinOrderCount: &minOrders, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, active.Pagination.TotalCount)
	assert.EqualValues(t, 2, active.Pagination.TotalPages)
	assert.Len(t, active.Customers, 2)

	minSpent := decimal.NewFromInt(500)
	big, err := f.search.CustomerBehavior(ctx, service.BehaviorParams{MinTotalSpent: &minSpent})
	require.NoError(t, err)
	assert.EqualValues(t, 2, big.Pagination.TotalCount)

	rio, err := f.search.CustomerBehavior(ctx, service.BehaviorParams{City: "rio"})
	require.NoError(t, err)
	require.Len(t, rio.Customers, 1)
	assert.Equal(t, "Bruno Lima", rio.Customers[0].Name)
	assert.Equal(t, "rio", rio.Filters.City)
}

func TestPurchasePatterns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Tuesday afternoon and Sunday morning
	f.clock.Set(time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC))
	f.place(t, 1, map[uint]int{7: 1})
	f.place(t, 2, map[uint]int{8: 1})
	f.clock.Set(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	f.place(t, 3, map[uint]int{4: 1})
	o := f.place(t, 4, map[uint]int{1: 1})
	_, err := f.orders.Cancel(ctx, o.ID)
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	got, err := f.search.PurchasePatterns(ctx, &start, &end)
	require.NoError(t, err)

	require.Len(t, got.Patterns, 2)
	sunday, tuesday := got.Patterns[0], got.Patterns[1]
	assert.Equal(t, "Sunday", sunday.DayName)
	assert.Equal(t, 9, sunday.Hour)
	assert.Equal(t, 1, sunday.OrderCount)
	assert.Equal(t, 2, tuesday.DayOfWeek)
	assert.Equal(t, 2, tuesday.OrderCount)
	assert.Equal(t, 2, tuesday.UniqueCustomers)
	requireDecimal(t, "209.80", tuesday.Revenue)
	requireDecimal(t, "104.90", tuesday.AverageOrderValue)
	assert.Equal(t, []transport.NamedQuantity{{ID: 3, Name: "Books", Quantity: 2}}, tuesday.TopCategories)

	require.Len(t, got.Monthly, 1)
	march := got.Monthly[0]
	assert.Equal(t, "March", march.MonthName)
	assert.Equal(t, 2, march.Groups)
	assert.Equal(t, 3, march.TotalOrders)
	assert.InDelta(t, 1.5, march.AverageOrders, 1e-9)
	requireDecimal(t, "304.90", march.AverageRevenue)
	requireDecimal(t, "203.26", march.AverageOrderValue)

	require.Len(t, got.Weekday, 2)
	assert.Equal(t, 0, got.Weekday[0].DayOfWeek)
	require.Len(t, got.Hourly, 2)
	assert.Equal(t, []int{9, 14}, []int{got.Hourly[0].Hour, got.Hourly[1].Hour})

	s := got.Summary
	assert.Equal(t, 3, s.TotalOrders)
	requireDecimal(t, "609.79", s.TotalRevenue)
	require.NotNil(t, s.BestDay)
	assert.Equal(t, "Sunday", s.BestDay.DayName)
	require.NotNil(t, s.BestHour)
	assert.Equal(t, 9, s.BestHour.Hour)
	require.NotNil(t, s.BestMonth)
	assert.Equal(t, 3, s.BestMonth.Month)
	assert.Equal(t, start, s.Period.Start)
}

func TestPurchasePatterns_Empty(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	got, err := f.search.PurchasePatterns(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Patterns)
	assert.Empty(t, got.Monthly)
	assert.Nil(t, got.Summary.BestMonth)
	assert.Nil(t, got.Summary.BestDay)
	assert.Nil(t, got.Summary.BestHour)
	assert.True(t, got.Summary.TotalRevenue.IsZero())
	assert.Equal(t, time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC), got.Summary.Period.Start)

	later := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.search.PurchasePatterns(context.Background(), &later, &earlier)
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestIndexedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.products.Delete(ctx, 9))
	f.index.hits = []uint{7, 999, 9, 4}
	f.index.total = 4

	got, err := f.search.IndexedProducts(ctx, " clean ", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "clean", got.Query)
	assert.EqualValues(t, 4, got.Pagination.TotalCount)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Clean Code", got.Products[0].Name)
	assert.Equal(t, "Nike Air Max", got.Products[1].Name)

	_, err = f.search.IndexedProducts(ctx, "", 1, 10)
	require.ErrorIs(t, err, service.ErrValidation)

	noIndex := &service.SearchService{Repo: f.repo}
	_, err = noIndex.IndexedProducts(ctx, "clean", 1, 10)
	require.ErrorIs(t, err, service.ErrUnavailable)
}
