package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasratyan/aoryx.am/internal/adapters/aoryx"
	server "github.com/hasratyan/aoryx.am/internal/adapters/http_server"
	"github.com/hasratyan/aoryx.am/internal/adapters/observability"
	redisad "github.com/hasratyan/aoryx.am/internal/adapters/redis"
	"github.com/hasratyan/aoryx.am/internal/app"
	"github.com/hasratyan/aoryx.am/internal/shared"
	mongorepo "github.com/hasratyan/aoryx.am/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// document store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo.Connect failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	log.Info().Msg("mongo connection ok")

	repo := mongorepo.New(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	vendor, err := aoryx.New(cfg.AoryxBase, cfg.AoryxKey, cfg.AoryxTimeout, cfg.AoryxRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Aoryx client")
	}
	q := app.NewQueryService(vendor, cache, cfg.CacheTTL, cfg.RatesTTL, cfg.DefaultCurrency)
	f := app.NewFavoriteService(repo)

	// http
	srv := server.New(cfg.AllowedOrigins)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, F: f}, []byte(cfg.JWTSecret))

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
