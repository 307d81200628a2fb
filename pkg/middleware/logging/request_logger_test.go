package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))

	e.GET("/items/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inner))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &access))
	require.Equal(t, "rid-1", inner["request_id"])
	require.Equal(t, "/items/:id", access["route"])
	require.EqualValues(t, 200, access["status"])

	buf.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &access))
	require.Equal(t, "WARN", access["level"])
}
