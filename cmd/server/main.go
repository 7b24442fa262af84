package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-tour/internal/config"
	"github.com/iliyamo/virtual-tour/internal/database"
	"github.com/iliyamo/virtual-tour/internal/handler"
	"github.com/iliyamo/virtual-tour/internal/queue"
	"github.com/iliyamo/virtual-tour/internal/repository"
	"github.com/iliyamo/virtual-tour/internal/router"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "mysql":
		db, err = database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	default:
		db, err = database.OpenSQLite(cfg.DBDSN)
	}
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	pois := repository.NewPOIRepo(db)
	posters := repository.NewPosterRepo(db)
	navs := repository.NewNavLinkRepo(db)

	// Boot seeding: the admin account is created once and re-flagged admin
	// on every start; the POI table is wiped and rebuilt from the fixture
	// on every start, so POIs are deliberately not durable.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := users.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPass, cfg.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := pois.ResetToFixture(ctx, repository.DefaultFixture()); err != nil {
		log.Fatalf("seed pois: %v", err)
	}

	// Redis is optional: a nil client disables rate limiting and the
	// static response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	// Background audit consumer for tour content changes; it reconnects on
	// its own and never takes the server down.
	go func() {
		if err := queue.StartContentConsumer(); err != nil {
			log.Printf("content consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, rdb,
		handler.NewAuthHandler(cfg, users),
		handler.NewPublicHandler(pois, posters, navs),
		handler.NewAdminHandler(pois, posters, navs),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
