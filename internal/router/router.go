package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/session-auth/internal/handler"
	"github.com/iliyamo/session-auth/internal/middleware"
	"github.com/iliyamo/session-auth/internal/utils"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the session endpoints. Signup, login and refresh
// are open; logout and me sit behind the session gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, codec *utils.TokenCodec, users middleware.UserLookup) {
	e.POST("/signup", a.Signup)
	e.POST("/login", a.Login)
	e.POST("/refresh", a.Refresh)

	gate := middleware.SessionAuth(codec, users, a.Log)
	e.GET("/logout", a.Logout, gate)
	e.GET("/me", a.Me, gate)
}

// RegisterGoogle registers the Google sign-in flow.
func RegisterGoogle(e *echo.Echo, g *handler.GoogleHandler) {
	grp := e.Group("/auth/google")
	grp.GET("", g.Start)
	grp.GET("/callback", g.Callback)
}
