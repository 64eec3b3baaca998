package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDContextKey is the echo context key for the request id
const RequestIDContextKey = "request_id"

// RequestID reuses an incoming X-Request-ID or generates one. The id is
// echoed in the response and written back to the request header so handlers
// and loggers read it from one place.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(echo.HeaderXRequestID, requestID)
			}

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set(RequestIDContextKey, requestID)

			return next(c)
		}
	}
}

// GetRequestID gets the request ID from echo context
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}
