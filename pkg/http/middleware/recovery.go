package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recover returns middleware that recovers from panics and responds 500.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					c.Logger().Errorf("panic recovered: %v\n%s", r, debug.Stack())
					err = c.JSON(http.StatusInternalServerError, map[string]string{
						"error": fmt.Sprintf("internal error: %v", r),
					})
				}
			}()
			return next(c)
		}
	}
}
