package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/transport"
	"github.com/Skotchmaster/product_catalog/internal/util"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_categories_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CategoryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_category_failed", err)
	}
	cat, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_category_failed", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.stats")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "category_stats_failed", err)
	}
	stats, err := h.Svc.Stats(ctx, id)
	if err != nil {
		return fail(l, "category_stats_failed", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := bind(c, l, "create_category_failed", &req); err != nil {
		return err
	}
	cat, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_category_failed", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/categories/%d", cat.ID))
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_category_failed", err)
	}
	var req transport.CategoryRequest
	if err := bind(c, l, "update_category_failed", &req); err != nil {
		return err
	}
	cat, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_category_failed", err)
	}

	l.Info("update_category_success", "category_id", id)
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_category_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_category_failed", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
