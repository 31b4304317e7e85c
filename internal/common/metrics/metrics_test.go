package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRegistration("ok")
	m.ObserveRegistration("ok")
	m.ObserveSpin("duplicate")
	m.ObserveDraw("manual", "drawn")
	m.ObserveExpirations(3)
	m.ObserveExpirations(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Registrations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Spins.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Draws.WithLabelValues("manual", "drawn")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Expirations))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRegistration("ok")
		m.ObserveSpin("ok")
		m.ObserveDraw("manual", "ok")
		m.ObserveExpirations(1)
	})
}

func TestMetrics_HandlerAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `raffle_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`))
}
