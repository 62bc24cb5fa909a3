package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestGinMiddleware_CountsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/api/incidents/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/incidents/:id", "204"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/incidents/INC-1", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/incidents/:id", "204"))
	assert.Equal(t, before+1, after)
}

func TestObserveAPICall(t *testing.T) {
	before := testutil.ToFloat64(apiClientRequestsTotal.WithLabelValues("list", OutcomeError))

	ObserveAPICall("list", errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(apiClientRequestsTotal.WithLabelValues("list", OutcomeError)))
}
