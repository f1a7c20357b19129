package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware prints one line per request:
// GET /api/validators?sfdp=sfdp -> 200 OK (12ms) from 127.0.0.1
func LoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			path := req.URL.Path
			if req.URL.RawQuery != "" {
				path += "?" + req.URL.RawQuery
			}

			log.Printf("%s %s -> %d %s (%dms) from %s",
				req.Method, path, res.Status, http.StatusText(res.Status),
				time.Since(start).Milliseconds(), c.RealIP())

			return nil
		}
	}
}

// Recover turns a handler panic into a 500 instead of dropping the connection
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic: %v", r)
					err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}
