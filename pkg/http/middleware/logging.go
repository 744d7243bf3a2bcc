package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

// RequestLogging returns middleware that logs each request with latency.
func RequestLogging() echo.MiddlewareFunc {
	log := logger.Get()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info("http request",
				logger.String("method", req.Method),
				logger.String("path", req.URL.Path),
				logger.Int("status", res.Status),
				logger.Duration("latency", time.Since(start)),
				logger.String("remote", c.RealIP()),
			)
			return err
		}
	}
}
