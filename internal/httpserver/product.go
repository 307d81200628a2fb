package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/transport"
	"github.com/Skotchmaster/product_catalog/internal/util"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_products_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_product_failed", err)
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	var (
		q   = repo.ProductSearch{Query: c.QueryParam("query")}
		err error
	)
	if q.CategoryID, err = util.ParseOptionalID(c.QueryParam("categoryId")); err != nil {
		return badRequest(l, "search_products_failed", err)
	}
	if q.MinPrice, err = util.ParseOptionalDecimal(c.QueryParam("minPrice")); err != nil {
		return badRequest(l, "search_products_failed", err)
	}
	if q.MaxPrice, err = util.ParseOptionalDecimal(c.QueryParam("maxPrice")); err != nil {
		return badRequest(l, "search_products_failed", err)
	}

	items, err := h.Svc.Search(ctx, q)
	if err != nil {
		return fail(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_category")

	id, err := util.ParseID(c.Param("categoryId"))
	if err != nil {
		return badRequest(l, "products_by_category_failed", err)
	}
	items, err := h.Svc.ByCategory(ctx, id)
	if err != nil {
		return fail(l, "products_by_category_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) LowStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.low_stock")

	threshold, err := util.ParseIntDefault(c.QueryParam("threshold"), service.DefaultLowStockThreshold)
	if err != nil {
		return badRequest(l, "low_stock_failed", err)
	}
	items, err := h.Svc.LowStock(ctx, threshold)
	if err != nil {
		return fail(l, "low_stock_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) TopRated(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.top_rated")

	count, err := util.ParseIntDefault(c.QueryParam("count"), service.DefaultTopCount)
	if err != nil {
		return badRequest(l, "top_rated_failed", err)
	}
	items, err := h.Svc.TopRated(ctx, count)
	if err != nil {
		return fail(l, "top_rated_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := bind(c, l, "create_product_failed", &req); err != nil {
		return err
	}
	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/products/%d", p.ID))
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_product_failed", err)
	}
	var req transport.ProductRequest
	if err := bind(c, l, "update_product_failed", &req); err != nil {
		return err
	}
	p, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) UpdateStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_stock")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_stock_failed", err)
	}
	var req transport.StockRequest
	if err := bind(c, l, "update_stock_failed", &req); err != nil {
		return err
	}
	p, err := h.Svc.UpdateStock(ctx, id, *req.Stock)
	if err != nil {
		return fail(l, "update_stock_failed", err)
	}

	l.Info("update_stock_success", "product_id", id, "stock", p.Stock)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_product_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
