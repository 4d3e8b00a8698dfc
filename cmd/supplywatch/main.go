package main

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/logisticlabs/supplywatch/internal/api"
	"github.com/logisticlabs/supplywatch/internal/config"
	"github.com/logisticlabs/supplywatch/internal/feed"
	"github.com/logisticlabs/supplywatch/internal/ingest"
	"github.com/logisticlabs/supplywatch/internal/query"
	"github.com/logisticlabs/supplywatch/internal/storage"
	"github.com/logisticlabs/supplywatch/internal/taxonomy"
)

func main() {
	log.Info().Msg("Starting supplywatch api server")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open alert store")
	}
	defer store.Close()
	log.Info().Str("mode", store.Mode()).Msg("alert store ready")

	tax := taxonomy.Default()
	if cfg.Ingest.TaxonomyFile != "" {
		if tax, err = taxonomy.Load(cfg.Ingest.TaxonomyFile); err != nil {
			log.Fatal().Err(err).Msg("failed to load taxonomy file")
		}
	}

	sources := feed.DefaultSources()
	if cfg.Ingest.SourcesFile != "" {
		if sources, err = feed.LoadSources(cfg.Ingest.SourcesFile); err != nil {
			log.Fatal().Err(err).Msg("failed to load sources file")
		}
	}
	log.Info().Int("sources", len(sources)).Msg("feed sources configured")

	fetcher := feed.NewFetcher(
		config.ParseDuration(cfg.Ingest.SourceTimeout, 10*time.Second),
		cfg.Ingest.MaxEntries,
	)
	pipeline := ingest.NewPipeline(store, fetcher, sources, tax)
	scheduler := ingest.NewScheduler(pipeline,
		config.ParseDuration(cfg.Ingest.Interval, 4*time.Hour),
		config.ParseDuration(cfg.Ingest.InitialDelay, 5*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Start(ctx)

	var cache query.StatsCache = query.NoopCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = query.NewRedisCache(rdb, time.Minute)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("stats cache enabled")
	}
	engine := query.NewEngine(store, cfg.Query.DefaultLimit, cfg.Query.MaxLimit, cache)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	api.NewApi(router, engine, scheduler, store, tax)

	log.Info().Msgf("Starting server on %s", cfg.Server.BindAddr)
	if err := router.Run(cfg.Server.BindAddr); err != nil {
		log.Fatal().Err(err).Msg("start supplywatch api server failed.")
	}
	log.Info().Msg("supplywatch api server exit...")
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Store.DatabaseURL != "" {
		return storage.OpenPostgres(cfg.Store.DatabaseURL)
	}
	return storage.OpenSQLite(cfg.Store.SQLitePath)
}
