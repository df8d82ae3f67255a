package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// apiKeyAuth checks the x-api-key header against the configured secret.
// Comparison is constant-time so key probing gains nothing from timing.
func (s *Server) apiKeyAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("x-api-key")
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.Secret)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing api key")
			}
			return next(c)
		}
	}
}
