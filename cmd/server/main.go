package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/config"
	"github.com/iliyamo/cinema-ticketing/internal/database"
	"github.com/iliyamo/cinema-ticketing/internal/handler"
	"github.com/iliyamo/cinema-ticketing/internal/inventory"
	"github.com/iliyamo/cinema-ticketing/internal/middleware"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	films := repository.NewFilmRepo(db)
	halls := repository.NewHallRepo(db)
	reservations := repository.NewReservationRepo(db)
	invRepo := repository.NewInventoryRepo(db)
	catalog := repository.NewCatalog(films, halls)

	store := inventory.NewStore(invRepo)
	refresh := inventory.NewRefreshJob(store, catalog)

	ctx := context.Background()

	// Warm the in-memory inventory from the last persisted state so a
	// restart does not lose reserved seats.  An empty table means a
	// fresh install, so build the window immediately.
	persisted, err := invRepo.LoadAll(ctx)
	if err != nil {
		log.Fatalf("inventory warm-up: %v", err)
	}
	if len(persisted) > 0 {
		store.Restore(persisted)
		log.Printf("inventory: restored %d showtimes", store.Len())
	} else if err := refresh.Rebuild(ctx); err != nil {
		log.Fatalf("inventory rebuild: %v", err)
	} else {
		log.Printf("inventory: built %d showtimes", store.Len())
	}

	coordinator := booking.NewCoordinator(store, catalog, reservations, queue.NewPublisher())
	coordinator.SetReleaseWindow(cfg.ReleaseWindow)

	go refresh.Run(ctx)
	go func() {
		if err := queue.StartOutcomeConsumer(); err != nil {
			log.Printf("queue consumer: %v", err)
		}
	}()

	// Rate limiting is optional: without redis the limiter middleware
	// is skipped and booking traffic is unthrottled.
	var limiter echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewFilmHandler(films, halls), handler.NewHallHandler(halls), cfg.JWTSecret)
	router.RegisterBooking(e, handler.NewBookingHandler(store, coordinator), cfg.JWTSecret, limiter)
	router.RegisterReservations(e, handler.NewReservationHandler(reservations), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
