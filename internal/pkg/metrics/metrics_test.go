package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolStat struct{ acquired, idle, total int32 }

func (s poolStat) AcquiredConns() int32 { return s.acquired }
func (s poolStat) IdleConns() int32     { return s.idle }
func (s poolStat) TotalConns() int32    { return s.total }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(poolStat{acquired: 3, idle: 5, total: 8})

	assert.Equal(t, 3.0, testutil.ToFloat64(DBPoolConnsAcquired))
	assert.Equal(t, 5.0, testutil.ToFloat64(DBPoolConnsIdle))
	assert.Equal(t, 8.0, testutil.ToFloat64(DBPoolConnsOpen))
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/v1/garages/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/garages/:id", "200"))
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/garages/abc", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/garages/:id", "200"))
	assert.Equal(t, before+1, after)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, resp.Body)
	assert.Contains(t, buf.String(), "garagehub_http_requests_total")
}
