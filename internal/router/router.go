// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/danyluis/restaurant-seating/internal/handler"
	"github.com/danyluis/restaurant-seating/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication at all.
// Currently that is the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff auth endpoints.  Unauthenticated
// operations (register, login, refresh, logout) live under /v1/auth;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("HOST", "MANAGER"))
	auth.GET("/me", a.Me)
	// Ends every session of the caller; needs an access token since no
	// refresh token is presented.
	auth.POST("/auth/logout-all", a.LogoutAll)
}

// RegisterFloor registers the seating endpoints.  Party operations and
// the floor snapshot are for authenticated staff; the waitlist is public
// so a lobby display can poll it, optionally behind the response cache.
// Layout administration is restricted to managers.
func RegisterFloor(e *echo.Echo, f *handler.FloorHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/waitlist", f.Waitlist, cache)
	} else {
		e.GET("/v1/waitlist", f.Waitlist)
	}

	staff := e.Group("/v1")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole("HOST", "MANAGER"))
	staff.POST("/parties", f.Arrive)
	staff.DELETE("/parties/:id", f.Leave)
	staff.GET("/parties/:id", f.Locate)
	staff.GET("/floor", f.Floor)
	staff.GET("/floor/tables", f.ListTables)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("MANAGER"))
	admin.POST("/floor/tables", f.CreateTable)
	admin.DELETE("/floor/tables/:id", f.DecommissionTable)
}
