package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spaazm/flight-reservation/internal/config"
	"github.com/spaazm/flight-reservation/internal/database"
	"github.com/spaazm/flight-reservation/internal/handler"
	"github.com/spaazm/flight-reservation/internal/queue"
	"github.com/spaazm/flight-reservation/internal/repository"
	"github.com/spaazm/flight-reservation/internal/reservation"
	"github.com/spaazm/flight-reservation/internal/router"
	queuepublisher "github.com/spaazm/flight-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	flightRepo := repository.NewFlightRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// One-time schedule generation; a populated catalog is untouched.
	if n, err := reservation.SeedCatalog(ctx, flightRepo, time.Now(), cfg.SeedDays); err != nil {
		log.Fatalf("seed catalog: %v", err)
	} else if n > 0 {
		log.Printf("seeded %d catalog flights over %d days", n, cfg.SeedDays)
	}

	system, err := reservation.NewSystem(ctx, flightRepo, bookingRepo)
	if err != nil {
		log.Fatalf("init reservation system: %v", err)
	}
	log.Printf("loaded %d bookings from store", len(system.Bookings()))

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	go queue.StartBookingAudit(queuepublisher.BrokerURL())

	e := echo.New()
	router.Register(e, handler.NewFlightHandler(system), handler.NewBookingHandler(system), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
