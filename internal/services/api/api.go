// Package api provides the HTTP API for the application
package api

import (
	"context"
	"net/http"

	"datapulse/internal/platform/config"
	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/metrics"
	phttp "datapulse/internal/platform/net/http"
	"datapulse/internal/platform/store"

	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/modkit/module"
	"datapulse/internal/modkit/swaggerkit"

	insightsmod "datapulse/internal/services/api/insights/module"
	metamod "datapulse/internal/services/api/meta/module"
	submissionsmod "datapulse/internal/services/api/submissions/module"

	// worker modules, no routes of their own
	intelmod "datapulse/internal/services/intel/module"
	notifymod "datapulse/internal/services/notify/module"
	projectsmod "datapulse/internal/services/projects/module"
	tasksmod "datapulse/internal/services/tasks/module"
	webhookmod "datapulse/internal/services/webhook/module"
)

// DevJWTSecret signs dashboard tokens when JWT_SECRET is unset; development only
const DevJWTSecret = "supersecret_dev_key_change_me"

// Options are the API options
type Options struct {
	// Config is the unprefixed root; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool
	// Auth overrides the JWT_SECRET bearer parser, mostly for tests
	Auth *httpkit.Port
	// HTTPClient is used for webhook deliveries; nil means a default client
	HTTPClient *http.Client
}

// API is the mounted application
type API struct {
	tasks tasksmod.Ports
	mods  []module.Module
}

// Drain waits for background tasks scheduled by requests
func (a *API) Drain(ctx context.Context) error { return a.tasks.Runner.Wait(ctx) }

// Modules lists the mounted modules in wiring order
func (a *API) Modules() []module.Module { return a.mods }

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) *API {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	// worker modules first, their ports feed the API modules
	tasks := tasksmod.New(deps, tasksmod.Options{})
	projects := projectsmod.New(deps, projectsmod.Options{})
	hooks := webhookmod.New(deps, webhookmod.Options{}, opt.HTTPClient)
	notify := notifymod.New(deps, nil)
	intel := intelmod.New(deps, nil)

	tp := module.MustPortsOf[tasksmod.Ports](tasks)
	lookup := module.MustPortsOf[projectsmod.Ports](projects).Lookup

	auth := opt.Auth
	if auth == nil {
		auth = authPort(opt.Config)
	}
	dashboard := modkit.WithMiddlewares(
		httpkit.DashboardCORS(opt.Config.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", []string{"*"})),
		httpkit.Auth(auth),
	)

	mods := []module.Module{
		tasks,
		projects,
		hooks,
		notify,
		intel,
		metamod.New(deps),
		submissionsmod.New(deps, dashboard, modkit.WithPorts(submissionsmod.Ports{
			Projects: lookup,
			Runner:   tp.Runner,
			Webhooks: module.MustPortsOf[webhookmod.Ports](hooks).Dispatcher,
			Notifier: module.MustPortsOf[notifymod.Ports](notify).Notifier,
			Intel:    module.MustPortsOf[intelmod.Ports](intel).Processor,
		})),
		insightsmod.New(deps, dashboard, modkit.WithPorts(insightsmod.Ports{Projects: lookup})),
	}

	// Swagger + profiler + metrics
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	r.Handle("/metrics", opt.Metrics.Handler())

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	return &API{tasks: tp, mods: mods}
}

func authPort(cfg config.Conf) *httpkit.Port {
	secret := cfg.MayString("JWT_SECRET", DevJWTSecret)
	if secret == DevJWTSecret {
		logger.Named("api").Warn().Msg("JWT_SECRET not set, dashboard tokens use the development secret")
	}
	return httpkit.NewPortFunc(httpkit.HS256([]byte(secret)))
}
