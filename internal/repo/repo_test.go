package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/testdb"
)

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: testdb.Seeded(t)}
}

func placeOrder(t *testing.T, r *repo.GormRepo, customerID uint, status models.OrderStatus, lines map[uint]int) *models.Order {
	t.Helper()
	ctx := context.Background()

	o := &models.Order{CustomerID: customerID, OrderDate: time.Now().UTC(), Status: status, TotalAmount: decimal.Zero}
	require.NoError(t, r.CreateOrderHeader(ctx, o))

	total := decimal.Zero
	for productID, qty := range lines {
		p, err := r.GetActiveProduct(ctx, productID)
		require.NoError(t, err)
		line := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		require.NoError(t, r.CreateOrderItem(ctx, &models.OrderItem{
			OrderID: o.ID, ProductID: productID, Quantity: qty, UnitPrice: p.Price, LineTotal: line,
		}))
		total = total.Add(line)
	}
	require.NoError(t, r.SetOrderTotal(ctx, o.ID, total))
	o.TotalAmount = total
	return o
}

func TestSeed_Idempotent(t *testing.T) {
	db := testdb.Seeded(t)
	require.NoError(t, repo.Seed(context.Background(), db))

	var cats, products, customers int64
	require.NoError(t, db.Model(&models.Category{}).Count(&cats).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.EqualValues(t, 5, cats)
	assert.EqualValues(t, 12, products)
	assert.EqualValues(t, 4, customers)

	r := &repo.GormRepo{DB: db}
	p, err := r.GetActiveProduct(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Nike Air Max", p.Name)
	assert.Equal(t, "Nike", p.Brand)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("399.99")))
	assert.EqualValues(t, 4, p.CategoryID)
}

func TestTransaction_RollsBack(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.Transaction(ctx, func(tx *repo.GormRepo) error {
		require.NoError(t, tx.DecrementStock(ctx, 1, 10))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := r.GetActiveProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)
}

func TestDecrementStock_Conditional(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.DecrementStock(ctx, 12, 5))
	require.ErrorIs(t, r.DecrementStock(ctx, 12, 1), repo.ErrNoRowsAffected)

	p, err := r.GetActiveProduct(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	require.NoError(t, r.IncrementStock(ctx, 12, 3))
	p, err = r.GetActiveProduct(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestDeactivateProduct_HidesFromLookups(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.DeactivateProduct(ctx, 7))
	require.ErrorIs(t, r.DeactivateProduct(ctx, 7), repo.ErrNoRowsAffected)

	_, err := r.GetActiveProduct(ctx, 7)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := r.ListActiveProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 11)

	byID, err := r.ProductsByIDs(ctx, []uint{7})
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", byID[7].Name)
}

func TestSearchProducts(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	items, err := r.SearchProducts(ctx, repo.ProductSearch{Query: "nike"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	sports := uint(4)
	maxPrice := decimal.NewFromInt(400)
	items, err = r.SearchProducts(ctx, repo.ProductSearch{CategoryID: &sports, MaxPrice: &maxPrice})
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, p := range items {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Adidas soccer ball", "Nike Air Max"}, names)
}

func TestListLowStockAndTopRated(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	low, err := r.ListLowStock(ctx, 25)
	require.NoError(t, err)
	require.Len(t, low, 3)
	assert.Equal(t, 5, low[0].Stock)
	assert.Equal(t, 20, low[1].Stock)
	assert.Equal(t, 25, low[2].Stock)

	top, err := r.ListTopRated(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Clean Code", top[0].Name)
}

func TestAdvancedProductSearch_PagesCoverResult(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	all, total, err := r.AdvancedProductSearch(ctx, repo.ProductFilter{SortBy: "price"})
	require.NoError(t, err)
	require.EqualValues(t, 12, total)
	require.Len(t, all, 12)

	var paged []models.Product
	for offset := 0; offset < int(total); offset += 5 {
		page, n, err := r.AdvancedProductSearch(ctx, repo.ProductFilter{SortBy: "price", Offset: offset, Limit: 5})
		require.NoError(t, err)
		require.Equal(t, total, n)
		paged = append(paged, page...)
	}
	require.Len(t, paged, len(all))
	for i := range all {
		assert.Equal(t, all[i].ID, paged[i].ID)
	}
	assert.Equal(t, "Clean Code", all[0].Name)
}

func TestAdvancedProductSearch_Filters(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inStock := true
	minRating := 4.5
	items, total, err := r.AdvancedProductSearch(ctx, repo.ProductFilter{
		Brand:     "ADIDAS",
		InStock:   &inStock,
		MinRating: &minRating,
		SortBy:    "unknown",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "Adidas Ultraboost", items[0].Name)

	require.NoError(t, r.SetProductStock(ctx, 12, 0))
	outOfStock := false
	items, total, err = r.AdvancedProductSearch(ctx, repo.ProductFilter{InStock: &outOfStock})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.EqualValues(t, 12, items[0].ID)
}

func TestSimilarCandidates(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	src, err := r.GetActiveProduct(ctx, 4)
	require.NoError(t, err)
	lo := src.Price.Mul(decimal.RequireFromString("0.8"))
	hi := src.Price.Mul(decimal.RequireFromString("1.2"))

	items, err := r.SimilarCandidates(ctx, src, lo, hi)
	require.NoError(t, err)
	ids := make([]uint, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	// brand: 5, category: 9 and 10, price window: 10 and 12
	assert.ElementsMatch(t, []uint{5, 9, 10, 12}, ids)
}

func TestEmailInUse(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inUse, err := r.EmailInUse(ctx, "ANA.SOUZA@example.com", 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = r.EmailInUse(ctx, "ana.souza@example.com", 1)
	require.NoError(t, err)
	assert.False(t, inUse)

	require.NoError(t, r.DeactivateCustomer(ctx, 1))
	inUse, err = r.EmailInUse(ctx, "ana.souza@example.com", 0)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestCategoryStatsAndCounts(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	placeOrder(t, r, 1, models.OrderStatusPending, map[uint]int{7: 2})
	placeOrder(t, r, 1, models.OrderStatusCancelled, map[uint]int{8: 5})

	st, err := r.CategoryStats(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.ProductCount)
	assert.EqualValues(t, 105, st.TotalStock)
	assert.EqualValues(t, 2, st.UnitsSold)
	assert.True(t, st.Revenue.Round(2).Equal(decimal.RequireFromString("179.80")), st.Revenue.String())

	counts, err := r.ActiveProductCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[1])
	assert.EqualValues(t, 3, counts[4])
}

func TestSalesAggregates_ExcludeCancelled(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	placeOrder(t, r, 1, models.OrderStatusDelivered, map[uint]int{4: 2, 7: 1})
	placeOrder(t, r, 2, models.OrderStatusPending, map[uint]int{4: 1})
	placeOrder(t, r, 2, models.OrderStatusCancelled, map[uint]int{1: 3})

	sales, err := r.SalesByProduct(ctx, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.EqualValues(t, 4, sales[0].ProductID)
	assert.EqualValues(t, 3, sales[0].UnitsSold)
	assert.EqualValues(t, 2, sales[0].OrderCount)

	summary, err := r.SummarizeOrders(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.OrderCount)
	assert.True(t, summary.Revenue.Round(2).Equal(decimal.RequireFromString("1289.87")), summary.Revenue.String())

	top, err := r.TopCustomers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.EqualValues(t, 1, top[0].CustomerID)

	byStatus, err := r.OrderStatusCounts(ctx, repo.OrderQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byStatus[models.OrderStatusCancelled])
	assert.EqualValues(t, 1, byStatus[models.OrderStatusPending])
}

func TestDeleteOrder_CascadesItems(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	o := placeOrder(t, r, 1, models.OrderStatusPending, map[uint]int{4: 1, 5: 2})
	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	require.NoError(t, r.DeleteOrder(ctx, o.ID))
	_, err = r.GetOrder(ctx, o.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := r.ItemsForOrders(ctx, []uint{o.ID})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.ErrorIs(t, r.DeleteOrder(ctx, o.ID), repo.ErrNoRowsAffected)
}
