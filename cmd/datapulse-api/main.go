// @title         DataPulse API
// @version       0.1.0
// @description   Form submission ingest and dashboard intelligence
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"

	"datapulse/internal/platform/config"
	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/metrics"
	phttp "datapulse/internal/platform/net/http"
	"datapulse/internal/platform/store"
	"datapulse/migrations"

	"datapulse/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{PG: store.PGFromConf(pgCfg)}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if apiCfg.MayBool("MIGRATE", true) {
		if err := migrations.Apply(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
	}

	m, err := metrics.New()
	if err != nil {
		l.Panic().Err(err).Msg("metrics registry")
	}

	// http server (reads CORE_API_PORT / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	a := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Metrics:        m,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// background tasks finish before the store closes
	srv.OnShutdown(func(ctx context.Context) {
		if err := a.Drain(ctx); err != nil {
			l.Warn().Err(err).Msg("background tasks still running at shutdown")
		}
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
