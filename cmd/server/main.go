package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/danyluis/restaurant-seating/internal/config"
	"github.com/danyluis/restaurant-seating/internal/database"
	"github.com/danyluis/restaurant-seating/internal/floor"
	"github.com/danyluis/restaurant-seating/internal/handler"
	"github.com/danyluis/restaurant-seating/internal/middleware"
	"github.com/danyluis/restaurant-seating/internal/model"
	"github.com/danyluis/restaurant-seating/internal/queue"
	"github.com/danyluis/restaurant-seating/internal/repository"
	"github.com/danyluis/restaurant-seating/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional outside development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tables := repository.NewTableRepo(db)

	mgr, err := floor.NewManager(loadFloorPlan(cfg, tables))
	if err != nil {
		log.Fatalf("floor plan: %v", err)
	}
	desk := floor.NewDesk(mgr)
	log.Printf("floor ready: %d tables, largest seats %d parties",
		mgr.TableCount(), mgr.MaxSeats())

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and response cache disabled")
	}

	go queue.StartSeatingConsumer()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	floorHandler := handler.NewFloorHandler(desk, tables, true)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterFloor(e, floorHandler, cfg.JWTSecret,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// loadFloorPlan prefers the persisted inventory; when the database holds
// no active tables it falls back to the FLOOR_TABLES env var.  Either
// way the resulting table set is fixed for the lifetime of the engine.
func loadFloorPlan(cfg config.Config, repo *repository.TableRepo) []*floor.Table {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := repo.ListActive(ctx)
	if err != nil {
		log.Fatalf("load floor plan: %v", err)
	}
	if len(rows) > 0 {
		return lo.Map(rows, func(t model.DiningTable, _ int) *floor.Table {
			return &floor.Table{ID: t.ID, Seats: t.Seats}
		})
	}

	seats, err := config.ParseFloorTables(cfg.FloorTables)
	if err != nil {
		log.Fatalf("FLOOR_TABLES: %v", err)
	}
	if len(seats) == 0 {
		log.Fatalf("no floor plan: seed dining_tables or set FLOOR_TABLES")
	}
	log.Printf("dining_tables empty, seeding floor from FLOOR_TABLES (%d tables)", len(seats))
	return lo.Map(seats, func(s int, i int) *floor.Table {
		return &floor.Table{ID: uint64(i + 1), Seats: s}
	})
}
