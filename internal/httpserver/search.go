package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/util"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type SearchHTTP struct {
	Svc *service.SearchService
}

func paging(c echo.Context) (page, size int, err error) {
	if page, err = util.ParseIntDefault(c.QueryParam("page"), 1); err != nil {
		return 0, 0, err
	}
	if size, err = util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func advancedParams(c echo.Context) (service.AdvancedSearchParams, error) {
	f := repo.ProductFilter{
		Name:        c.QueryParam("name"),
		Description: c.QueryParam("description"),
		Brand:       c.QueryParam("brand"),
		SortBy:      c.QueryParam("sortBy"),
	}
	p := service.AdvancedSearchParams{SortDirection: c.QueryParam("sortDirection")}

	var err error
	if f.CategoryID, err = util.ParseOptionalID(c.QueryParam("categoryId")); err != nil {
		return p, err
	}
	if f.MinPrice, err = util.ParseOptionalDecimal(c.QueryParam("minPrice")); err != nil {
		return p, err
	}
	if f.MaxPrice, err = util.ParseOptionalDecimal(c.QueryParam("maxPrice")); err != nil {
		return p, err
	}
	if f.MinRating, err = util.ParseOptionalFloat(c.QueryParam("minRating")); err != nil {
		return p, err
	}
	if f.MinStock, err = util.ParseOptionalInt(c.QueryParam("minStock")); err != nil {
		return p, err
	}
	if f.InStock, err = util.ParseOptionalBool(c.QueryParam("inStock")); err != nil {
		return p, err
	}
	if f.CreatedFrom, err = util.ParseOptionalTime(c.QueryParam("createdFrom")); err != nil {
		return p, err
	}
	if f.CreatedTo, err = util.ParseOptionalEndTime(c.QueryParam("createdTo")); err != nil {
		return p, err
	}
	if p.Page, p.PageSize, err = paging(c); err != nil {
		return p, err
	}
	p.Filter = f
	return p, nil
}

func (h *SearchHTTP) Advanced(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.advanced_products")

	p, err := advancedParams(c)
	if err != nil {
		return badRequest(l, "advanced_search_failed", err)
	}
	res, err := h.Svc.AdvancedProducts(ctx, p)
	if err != nil {
		return fail(l, "advanced_search_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SearchHTTP) Similar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.similar_products")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "similar_products_failed", err)
	}
	limit, err := util.ParseIntDefault(c.QueryParam("limit"), service.DefaultSimilarLimit)
	if err != nil {
		return badRequest(l, "similar_products_failed", err)
	}
	res, err := h.Svc.SimilarProducts(ctx, id, limit)
	if err != nil {
		return fail(l, "similar_products_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SearchHTTP) Behavior(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.customer_behavior")

	p := service.BehaviorParams{City: c.QueryParam("city")}
	var err error
	if p.MinTotalSpent, err = util.ParseOptionalDecimal(c.QueryParam("minTotalSpent")); err != nil {
		return badRequest(l, "customer_behavior_failed", err)
	}
	if p.MinOrderCount, err = util.ParseOptionalInt(c.QueryParam("minOrderCount")); err != nil {
		return badRequest(l, "customer_behavior_failed", err)
	}
	if p.RegisteredAfter, err = util.ParseOptionalTime(c.QueryParam("registeredAfter")); err != nil {
		return badRequest(l, "customer_behavior_failed", err)
	}
	if p.Page, p.PageSize, err = paging(c); err != nil {
		return badRequest(l, "customer_behavior_failed", err)
	}

	res, err := h.Svc.CustomerBehavior(ctx, p)
	if err != nil {
		return fail(l, "customer_behavior_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SearchHTTP) Patterns(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.purchase_patterns")

	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(l, "purchase_patterns_failed", err)
	}
	res, err := h.Svc.PurchasePatterns(ctx, start, end)
	if err != nil {
		return fail(l, "purchase_patterns_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SearchHTTP) Indexed(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.indexed_products")

	page, size, err := paging(c)
	if err != nil {
		return badRequest(l, "indexed_search_failed", err)
	}
	res, err := h.Svc.IndexedProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "indexed_search_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}
