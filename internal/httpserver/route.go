package httpserver

import (
	"context"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type Deps struct {
	Products   *ProductHTTP
	Categories *CategoryHTTP
	Customers  *CustomerHTTP
	Orders     *OrderHTTP
	Search     *SearchHTTP
	Analytics  *AnalyticsHTTP
	External   *ExternalHTTP

	// Ready reports whether the service can take traffic, usually a DB ping.
	Ready func(ctx context.Context) error
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
	// RouteIndex exposes the route listing on GET /.
	RouteIndex bool
}

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx := c.Request().Context()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_failed", "status", http.StatusServiceUnavailable, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/search", d.Products.Search)
	products.GET("/category/:categoryId", d.Products.ByCategory)
	products.GET("/low-stock", d.Products.LowStock)
	products.GET("/top-rated", d.Products.TopRated)
	products.GET("/:id", d.Products.Get)
	products.POST("", d.Products.Create)
	products.PUT("/:id", d.Products.Update)
	products.PATCH("/:id/stock", d.Products.UpdateStock)
	products.DELETE("/:id", d.Products.Delete)

	categories := api.Group("/categories")
	categories.GET("", d.Categories.List)
	categories.GET("/:id", d.Categories.Get)
	categories.GET("/:id/stats", d.Categories.Stats)
	categories.POST("", d.Categories.Create)
	categories.PUT("/:id", d.Categories.Update)
	categories.DELETE("/:id", d.Categories.Delete)

	customers := api.Group("/customers")
	customers.GET("", d.Customers.List)
	customers.GET("/search", d.Customers.Search)
	customers.GET("/by-city/:city", d.Customers.ByCity)
	customers.GET("/:id", d.Customers.Get)
	customers.GET("/:id/stats", d.Customers.Stats)
	customers.POST("", d.Customers.Create)
	customers.PUT("/:id", d.Customers.Update)
	customers.DELETE("/:id", d.Customers.Delete)

	orders := api.Group("/orders")
	orders.GET("", d.Orders.List)
	orders.GET("/customer/:customerId", d.Orders.ByCustomer)
	orders.GET("/status/:status", d.Orders.ByStatus)
	orders.GET("/period", d.Orders.ByPeriod)
	orders.GET("/sales-report", d.Orders.SalesReport)
	orders.GET("/:id", d.Orders.Get)
	orders.POST("", d.Orders.Place)
	orders.PATCH("/:id/status", d.Orders.UpdateStatus)
	orders.POST("/:id/cancel", d.Orders.Cancel)
	orders.DELETE("/:id", d.Orders.Delete)

	search := api.Group("/search")
	search.GET("/products", d.Search.Indexed)
	search.GET("/products/advanced", d.Search.Advanced)
	search.GET("/products/:id/similar", d.Search.Similar)
	search.GET("/customers/behavior", d.Search.Behavior)
	search.GET("/purchase-patterns", d.Search.Patterns)

	analytics := api.Group("/analytics")
	analytics.GET("/dashboard", d.Analytics.Dashboard)
	analytics.GET("/top-selling-products", d.Analytics.TopSellingProducts)
	analytics.GET("/sales-by-category", d.Analytics.SalesByCategory)
	analytics.GET("/top-customers", d.Analytics.TopCustomers)
	analytics.GET("/monthly-sales", d.Analytics.MonthlySales)
	analytics.GET("/products-by-price-range", d.Analytics.ProductsByPriceRange)
	analytics.GET("/stock-by-category", d.Analytics.StockByCategory)
	analytics.GET("/sales-trends", d.Analytics.SalesTrends)
	analytics.GET("/top-rated-products", d.Analytics.TopRatedProducts)
	analytics.GET("/brand-performance", d.Analytics.BrandPerformance)

	ext := api.Group("/external")
	ext.GET("/cep/:cep", d.External.CEP)
	ext.GET("/exchange-rates", d.External.ExchangeRates)
	ext.GET("/convert", d.External.Convert)
	ext.GET("/random-users", d.External.RandomUsers)
	ext.GET("/geolocation", d.External.Geolocation)
	ext.GET("/bitcoin-price", d.External.BitcoinPrice)
	ext.GET("/country/:name", d.External.Country)

	if d.RouteIndex {
		e.GET("/", func(c echo.Context) error {
			routes := make([]routeInfo, 0, len(e.Routes()))
			for _, r := range e.Routes() {
				if r.Path == "/" {
					continue
				}
				routes = append(routes, routeInfo{Method: r.Method, Path: r.Path})
			}
			sort.Slice(routes, func(i, j int) bool {
				if routes[i].Path != routes[j].Path {
					return routes[i].Path < routes[j].Path
				}
				return routes[i].Method < routes[j].Method
			})
			return c.JSON(http.StatusOK, map[string]any{"routes": routes})
		})
	}
}
