package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/external"
	"github.com/Skotchmaster/product_catalog/internal/util"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type ExternalHTTP struct {
	Client *external.Client
}

func (h *ExternalHTTP) CEP(c echo.Context) error {
	ctx := c.Request().Context()
	addr, err := h.Client.LookupCEP(ctx, c.Param("cep"))
	return respond(c, "external.cep", "cep_lookup_failed", addr, err)
}

func (h *ExternalHTTP) ExchangeRates(c echo.Context) error {
	base := c.QueryParam("baseCurrency")
	if base == "" {
		base = "USD"
	}
	rates, err := h.Client.ExchangeRates(c.Request().Context(), base)
	return respond(c, "external.exchange_rates", "exchange_rates_failed", rates, err)
}

func (h *ExternalHTTP) Convert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "external.convert")

	amount, err := util.ParseOptionalDecimal(c.QueryParam("amount"))
	if err != nil {
		return badRequest(l, "currency_convert_failed", err)
	}
	if amount == nil {
		l.Warn("currency_convert_failed", "status", http.StatusBadRequest, "reason", "amount is required")
		return echo.NewHTTPError(http.StatusBadRequest, "amount is required")
	}
	conv, err := h.Client.Convert(ctx, *amount, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return fail(l, "currency_convert_failed", err)
	}
	return c.JSON(http.StatusOK, conv)
}

func (h *ExternalHTTP) RandomUsers(c echo.Context) error {
	ctx := c.Request().Context()
	count, err := external.ParseCount(c.QueryParam("count"))
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "external.random_users"), "random_users_failed", err)
	}
	users, err := h.Client.RandomUsers(ctx, count)
	return respond(c, "external.random_users", "random_users_failed", users, err)
}

func (h *ExternalHTTP) Geolocation(c echo.Context) error {
	geo, err := h.Client.Geolocation(c.Request().Context(), c.QueryParam("ip"))
	return respond(c, "external.geolocation", "geolocation_failed", geo, err)
}

func (h *ExternalHTTP) BitcoinPrice(c echo.Context) error {
	price, err := h.Client.BitcoinPrice(c.Request().Context())
	return respond(c, "external.bitcoin_price", "bitcoin_price_failed", price, err)
}

func (h *ExternalHTTP) Country(c echo.Context) error {
	country, err := h.Client.Country(c.Request().Context(), c.Param("name"))
	return respond(c, "external.country", "country_lookup_failed", country, err)
}
