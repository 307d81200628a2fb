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

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_customers_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_customer_failed", err)
	}
	cust, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_customer_failed", err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.search")

	items, err := h.Svc.Search(ctx, c.QueryParam("query"))
	if err != nil {
		return fail(l, "search_customers_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) ByCity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.by_city")

	items, err := h.Svc.ByCity(ctx, c.Param("city"))
	if err != nil {
		return fail(l, "customers_by_city_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.stats")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "customer_stats_failed", err)
	}
	stats, err := h.Svc.Stats(ctx, id)
	if err != nil {
		return fail(l, "customer_stats_failed", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *CustomerHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create")

	var req transport.CustomerRequest
	if err := bind(c, l, "create_customer_failed", &req); err != nil {
		return err
	}
	cust, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_customer_failed", err)
	}

	l.Info("create_customer_success", "customer_id", cust.ID)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/customers/%d", cust.ID))
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_customer_failed", err)
	}
	var req transport.CustomerRequest
	if err := bind(c, l, "update_customer_failed", &req); err != nil {
		return err
	}
	cust, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_customer_failed", err)
	}

	l.Info("update_customer_success", "customer_id", id)
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_customer_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_customer_failed", err)
	}

	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}
