package httpserver_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

func (env *testEnv) stock(t *testing.T, productID string) int {
	t.Helper()

	rec := env.do(t, http.MethodGet, "/api/products/"+productID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[transport.ProductResponse](t, rec).Stock
}

func TestOrderPlacement(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": 1,
		"items":       []map[string]any{{"product_id": 7, "quantity": 1}, {"product_id": 12, "quantity": 6}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "insufficient stock for product Tramontina cookware: available 5, requested 6", errorMessage(t, rec))
	assert.Equal(t, 60, env.stock(t, "7"))

	rec = env.do(t, http.MethodPost, "/api/orders", map[string]any{"customer_id": 1, "items": []any{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": 99,
		"items":       []map[string]any{{"product_id": 7, "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customer 99 does not exist or is inactive", errorMessage(t, rec))

	rec = env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": 1,
		"notes":       "gift wrap",
		"items":       []map[string]any{{"product_id": 7, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/orders/1", rec.Header().Get(echo.HeaderLocation))
	order := decode[transport.OrderResponse](t, rec)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("179.80").Equal(order.TotalAmount), order.TotalAmount.String())
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Clean Code", order.Items[0].ProductName)
	assert.Equal(t, 58, env.stock(t, "7"))
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": 2,
		"items":       []map[string]any{{"product_id": 8, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 42, env.stock(t, "8"))

	rec = env.do(t, http.MethodPatch, "/api/orders/1/status", map[string]any{"status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderStatusShipped, decode[transport.OrderResponse](t, rec).Status)

	rec = env.do(t, http.MethodPatch, "/api/orders/1/status", map[string]any{"status": "lost"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "valid values")

	rec = env.do(t, http.MethodGet, "/api/orders/status/SHIPPED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.OrderResponse](t, rec), 1)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/orders/status/bogus", nil).Code)

	rec = env.do(t, http.MethodPost, "/api/orders/1/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderStatusCancelled, decode[transport.OrderResponse](t, rec).Status)
	assert.Equal(t, 45, env.stock(t, "8"))

	rec = env.do(t, http.MethodPost, "/api/orders/1/cancel", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPatch, "/api/orders/1/status", map[string]any{"status": "Pending"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "order 1 is cancelled and cannot change status", errorMessage(t, rec))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/orders/99/cancel", nil).Code)

	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/orders/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/orders/1", nil).Code)
	assert.Equal(t, 45, env.stock(t, "8"))
}

func TestOrderQueries(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, body := range []map[string]any{
		{"customer_id": 1, "items": []map[string]any{{"product_id": 4, "quantity": 1}}},
		{"customer_id": 1, "items": []map[string]any{{"product_id": 7, "quantity": 1}}},
		{"customer_id": 3, "items": []map[string]any{{"product_id": 7, "quantity": 2}}},
	} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/orders", body).Code)
	}

	rec := env.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.OrderResponse](t, rec), 3)

	rec = env.do(t, http.MethodGet, "/api/orders/customer/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.OrderResponse](t, rec), 2)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/orders/customer/99", nil).Code)

	rec = env.do(t, http.MethodGet, "/api/orders/period", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "startDate and endDate are required", errorMessage(t, rec))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/orders/period?startDate=yesterday&endDate=2100-01-01", nil).Code)

	rec = env.do(t, http.MethodGet, "/api/orders/period?startDate=2000-01-01&endDate=2100-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.OrderResponse](t, rec), 3)

	rec = env.do(t, http.MethodGet, "/api/orders/sales-report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[transport.SalesReportResponse](t, rec)
	assert.EqualValues(t, 3, report.TotalOrders)
	assert.True(t, decimal.RequireFromString("669.69").Equal(report.TotalRevenue), report.TotalRevenue.String())
	require.NotEmpty(t, report.TopProducts)
	assert.Equal(t, "Clean Code", report.TopProducts[0].Name)
}
