package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"datapulse/internal/modkit"
	"datapulse/internal/modkit/module"
	"datapulse/internal/platform/config"
	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/store"

	insightsmod "datapulse/internal/services/api/insights/module"
	digestmod "datapulse/internal/services/digest/module"
	projectsmod "datapulse/internal/services/projects/module"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	// Flags
	var (
		fProject = flag.Int64("project", 0, "only summarize this project id (0 = every project)")
		fEvery   = flag.Duration("every", 0, "repeat on this interval until interrupted (0 = run once)")
		fWorkers = flag.Int("workers", 0, "concurrent project summaries (0 = CORE_DIGEST_WORKERS)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg := store.PGFromConf(dbCfg)
	pg.MaxConns = int32(dbCfg.MayInt("MAX_CONNS", 4))
	st, err := store.Open(ctx, store.Config{PG: pg}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	projects := projectsmod.New(deps, projectsmod.Options{})
	lookup := module.MustPortsOf[projectsmod.Ports](projects).Lookup
	insights := insightsmod.New(deps, modkit.WithPorts(insightsmod.Ports{Projects: lookup}))
	digest := module.MustPortsOf[insightsmod.ExposedPorts](insights).Digest

	dm := digestmod.New(deps, lookup, digest, digestmod.Options{Workers: *fWorkers})
	runner := module.MustPortsOf[digestmod.Ports](dm).Runner

	if *fEvery > 0 {
		if err := runner.Every(ctx, *fEvery, *fProject); err != nil {
			l.Fatal().Err(err).Msg("digest loop failed")
		}
		return
	}
	rep, err := runner.RunOnce(ctx, *fProject)
	if err != nil {
		l.Fatal().Err(err).Msg("digest failed")
	}
	if rep.Failed > 0 {
		l.Fatal().Int("failed", rep.Failed).Msg("some project summaries failed")
	}
}
