package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caseline-backend/internal/observability"
)

// unmatchedRoute labels requests that hit no route, so probing traffic
// cannot mint one series per raw path.
const unmatchedRoute = "unmatched"

// Metrics records per-route request counts and latency, and counts requests
// the auth and role gates turned away.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)
		m.ObserveAPI(c.Request.Method, route, status, time.Since(start))
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			m.ObserveDenied(route, status)
		}
	}
}
