package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/transport"
	"github.com/Skotchmaster/product_catalog/internal/util"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// dateRange reads the optional startDate/endDate query pair.
func dateRange(c echo.Context) (start, end *time.Time, err error) {
	if start, err = util.ParseOptionalTime(c.QueryParam("startDate")); err != nil {
		return nil, nil, err
	}
	if end, err = util.ParseOptionalEndTime(c.QueryParam("endDate")); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_order_failed", err)
	}
	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) ByCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.by_customer")

	id, err := util.ParseID(c.Param("customerId"))
	if err != nil {
		return badRequest(l, "orders_by_customer_failed", err)
	}
	items, err := h.Svc.ByCustomer(ctx, id)
	if err != nil {
		return fail(l, "orders_by_customer_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) ByStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.by_status")

	items, err := h.Svc.ByStatus(ctx, c.Param("status"))
	if err != nil {
		return fail(l, "orders_by_status_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) ByPeriod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.by_period")

	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(l, "orders_by_period_failed", err)
	}
	items, err := h.Svc.ByPeriod(ctx, start, end)
	if err != nil {
		return fail(l, "orders_by_period_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) SalesReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.sales_report")

	start, end, err := dateRange(c)
	if err != nil {
		return badRequest(l, "sales_report_failed", err)
	}
	report, err := h.Svc.SalesReport(ctx, start, end)
	if err != nil {
		return fail(l, "sales_report_failed", err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *OrderHTTP) Place(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	var req transport.CreateOrderRequest
	if err := bind(c, l, "place_order_failed", &req); err != nil {
		return err
	}
	o, err := h.Svc.Place(ctx, req)
	if err != nil {
		return fail(l, "place_order_failed", err)
	}

	l.Info("place_order_success", "order_id", o.ID, "total", o.TotalAmount.String())
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/orders/%d", o.ID))
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_order_status_failed", err)
	}
	var req transport.StatusRequest
	if err := bind(c, l, "update_order_status_failed", &req); err != nil {
		return err
	}
	o, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_order_status_failed", err)
	}

	l.Info("update_order_status_success", "order_id", id, "order_status", string(o.Status))
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "cancel_order_failed", err)
	}
	o, err := h.Svc.Cancel(ctx, id)
	if err != nil {
		return fail(l, "cancel_order_failed", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_order_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_order_failed", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
