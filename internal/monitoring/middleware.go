package monitoring

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Middleware records request count, latency and in-flight requests. The route
// pattern is used as the path label so IDs do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ActiveConnections.Inc()
			defer ActiveConnections.Dec()

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(c.Request().Method, path))

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			timer.ObserveDuration()
			HttpRequestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			).Inc()
			return nil
		}
	}
}
