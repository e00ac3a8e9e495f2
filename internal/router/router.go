// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/spaazm/flight-reservation/internal/config"
	"github.com/spaazm/flight-reservation/internal/handler"
	"github.com/spaazm/flight-reservation/internal/middleware"
)

// Register wires every route of the reservation API onto the provided
// Echo instance.  Catalog reads sit behind the Redis response cache
// and booking mutations behind the rate limiter; with a nil Redis
// client both middlewares are pass-through.
func Register(e *echo.Echo, fh *handler.FlightHandler, bh *handler.BookingHandler, rdb *redis.Client) {
	// Liveness probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	v1 := e.Group("/v1")

	// Catalog reads.  The city list is near-static, so it is the one
	// response worth caching; search results change with every booking
	// and are always served fresh.
	v1.GET("/cities", fh.Cities, cache)
	v1.GET("/flights/search", fh.Search)

	// Working-set reads: these resolve against the flights loaded by
	// the most recent search.
	v1.GET("/flights/:number", fh.Get)
	v1.GET("/flights/:number/seats", fh.Seats)
	v1.GET("/flights/:number/quote", fh.Quote)

	// Booking lifecycle.
	v1.POST("/bookings", bh.Create, limit)
	v1.GET("/bookings", bh.List)
	v1.GET("/bookings/:id", bh.Get)
	v1.DELETE("/bookings/:id", bh.Cancel, limit)
}
