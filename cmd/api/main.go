package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "hotel_reservation/internal/adapters/http_server"
	"hotel_reservation/internal/adapters/observability"
	redisad "hotel_reservation/internal/adapters/redis"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/idgen"
	"hotel_reservation/internal/shared"
	"hotel_reservation/internal/storage/flatfile"
	mysqlstore "hotel_reservation/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := newStore(cfg)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	engine := app.NewEngine(store, cache, cfg.CacheTTL, newGenerators(cfg.IDFormat))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine.Restore(ctx)
	if len(engine.Rooms()) == 0 {
		if err := engine.SeedSampleRooms(ctx); err != nil {
			log.Fatal().Err(err).Msg("seed sample rooms failed")
		}
		log.Info().Msg("starter inventory seeded")
	}

	srv := server.New(cfg.RateRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{E: engine, AdminToken: cfg.AdminToken})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.Storage).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("shutdown complete")
}

func newStore(cfg shared.Config) domain.Store {
	switch cfg.Storage {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlstore.New(db)
	default:
		store, err := flatfile.New(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("flatfile store init failed")
		}
		return store
	}
}

func newGenerators(format string) app.Generators {
	if format == "uuid" {
		return app.Generators{
			Rooms:        idgen.NewUUID(),
			Customers:    idgen.NewUUID(),
			Reservations: idgen.NewUUID(),
		}
	}
	return app.Generators{
		Rooms:        idgen.NewSequence("ROOM"),
		Customers:    idgen.NewSequence("CUST"),
		Reservations: idgen.NewSequence("RES"),
	}
}
