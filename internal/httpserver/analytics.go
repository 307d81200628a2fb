package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/util"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type AnalyticsHTTP struct {
	Svc *service.AnalyticsService
}

// respond writes res, or the mapped error when err is set.
func respond[T any](c echo.Context, handler, event string, res T, err error) error {
	if err != nil {
		return fail(logging.FromContext(c.Request().Context()).With("handler", handler), event, err)
	}
	return c.JSON(http.StatusOK, res)
}

// intParam parses name with a default, logging and rejecting bad input.
func intParam(c echo.Context, handler, event, name string, def int) (int, error) {
	v, err := util.ParseIntDefault(c.QueryParam(name), def)
	if err != nil {
		return 0, badRequest(logging.FromContext(c.Request().Context()).With("handler", handler), event, err)
	}
	return v, nil
}

func (h *AnalyticsHTTP) Dashboard(c echo.Context) error {
	res, err := h.Svc.Dashboard(c.Request().Context())
	return respond(c, "analytics.dashboard", "dashboard_failed", res, err)
}

func (h *AnalyticsHTTP) TopSellingProducts(c echo.Context) error {
	const handler, event = "analytics.top_selling_products", "top_selling_products_failed"
	count, err := intParam(c, handler, event, "count", service.DefaultTopCount)
	if err != nil {
		return err
	}
	res, err := h.Svc.TopSellingProducts(c.Request().Context(), count)
	return respond(c, handler, event, res, err)
}

func (h *AnalyticsHTTP) SalesByCategory(c echo.Context) error {
	res, err := h.Svc.SalesByCategory(c.Request().Context())
	return respond(c, "analytics.sales_by_category", "sales_by_category_failed", res, err)
}

func (h *AnalyticsHTTP) TopCustomers(c echo.Context) error {
	const handler, event = "analytics.top_customers", "top_customers_failed"
	count, err := intParam(c, handler, event, "count", service.DefaultTopCount)
	if err != nil {
		return err
	}
	res, err := h.Svc.TopCustomers(c.Request().Context(), count)
	return respond(c, handler, event, res, err)
}

func (h *AnalyticsHTTP) MonthlySales(c echo.Context) error {
	const handler, event = "analytics.monthly_sales", "monthly_sales_failed"
	months, err := intParam(c, handler, event, "months", service.DefaultMonths)
	if err != nil {
		return err
	}
	res, err := h.Svc.MonthlySales(c.Request().Context(), months)
	return respond(c, handler, event, res, err)
}

func (h *AnalyticsHTTP) ProductsByPriceRange(c echo.Context) error {
	res, err := h.Svc.ProductsByPriceRange(c.Request().Context())
	return respond(c, "analytics.products_by_price_range", "products_by_price_range_failed", res, err)
}

func (h *AnalyticsHTTP) StockByCategory(c echo.Context) error {
	res, err := h.Svc.StockByCategory(c.Request().Context())
	return respond(c, "analytics.stock_by_category", "stock_by_category_failed", res, err)
}

func (h *AnalyticsHTTP) SalesTrends(c echo.Context) error {
	const handler, event = "analytics.sales_trends", "sales_trends_failed"
	days, err := intParam(c, handler, event, "days", service.DefaultTrendDays)
	if err != nil {
		return err
	}
	res, err := h.Svc.SalesTrends(c.Request().Context(), days)
	return respond(c, handler, event, res, err)
}

func (h *AnalyticsHTTP) TopRatedProducts(c echo.Context) error {
	const handler, event = "analytics.top_rated_products", "top_rated_products_failed"
	count, err := intParam(c, handler, event, "count", service.DefaultTopCount)
	if err != nil {
		return err
	}
	minRating := 0.0
	if v, err := util.ParseOptionalFloat(c.QueryParam("minRating")); err != nil {
		return badRequest(logging.FromContext(c.Request().Context()).With("handler", handler), event, err)
	} else if v != nil {
		minRating = *v
	}
	res, err := h.Svc.TopRatedProducts(c.Request().Context(), count, minRating)
	return respond(c, handler, event, res, err)
}

func (h *AnalyticsHTTP) BrandPerformance(c echo.Context) error {
	res, err := h.Svc.BrandPerformance(c.Request().Context())
	return respond(c, "analytics.brand_performance", "brand_performance_failed", res, err)
}
