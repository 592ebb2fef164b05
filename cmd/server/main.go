package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/router"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

func main() {
	// .env is optional; production provides real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	svc := service.NewReservationService(store, users, queue.NewPublisher())

	// Background consumer mirrors confirmed bookings into logs/booking.log.
	go func() {
		if err := queue.StartSeatBookedConsumer(); err != nil {
			log.Printf("seat-booked-consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterSeats(e, handler.NewSeatHandler(svc), cfg.JWTSecret)
	router.RegisterBookings(e, handler.NewBookingHandler(svc), cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
