// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication endpoints.  Register, login,
// refresh and logout exchange or revoke tokens and need no session;
// /api/auth/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterSeats registers the seat endpoints.  Listing and statistics
// are public so the seat map can be rendered before login; the
// initializer requires authentication.
func RegisterSeats(e *echo.Echo, h *handler.SeatHandler, jwtSecret string) {
	e.GET("/api/seats", h.ListSeats)
	e.GET("/api/seats/stats", h.SeatStats)
	e.POST("/api/seats/init", h.InitSeats, middleware.JWTAuth(jwtSecret))
}

// RegisterBookings registers the booking endpoints.  Both require a
// valid access token; the create path additionally goes through the
// Redis token bucket so a single client cannot monopolize the pool
// during a booking rush.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", h.CreateBooking, middleware.NewTokenBucket(rlCfg, rdb))
	g.GET("/my", h.MyBookings)
}
