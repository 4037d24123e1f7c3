package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/metrics"
)

// Metrics records request counts and latencies labelled by route template.
// Requests that match no route share the "unmatched" label.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Path()
			if err := next(c); err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) && he.Code == http.StatusNotFound {
					path = "unmatched"
				}
				c.Error(err)
			}
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
