package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// requestID assigns every request an ID, echoes it in X-Request-Id and
// stores it in the request context for structured logs.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		},
	})
}

// observe logs each request and records it in metrics when set.
func observe(m Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m != nil {
				done := m.TrackInFlight()
				defer done()
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			status := c.Response().Status
			if err != nil {
				status = statusFor(err)
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			if m != nil {
				m.ObserveHTTP(c.Request().Method, path, status, elapsed)
			}
			logger.FromContext(c.Request().Context()).Debug("request served",
				"method", c.Request().Method, "path", path, "status", status, "duration", elapsed)
			return err
		}
	}
}
