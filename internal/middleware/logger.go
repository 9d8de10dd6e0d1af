package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/session-auth/internal/logging"
)

// RequestLogger logs one structured line per request. The authenticated
// user id is included when the auth gate resolved one.
func RequestLogger(log logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.RequestID != "" {
				args = append(args, "request_id", v.RequestID)
			}
			if u, ok := UserFrom(ctx); ok {
				args = append(args, "user_id", u.ID)
			}
			if v.Error != nil {
				args = append(args, "error", v.Error)
				log.Error(ctx, "request", args...)
				return nil
			}
			log.Info(ctx, "request", args...)
			return nil
		},
	})
}
