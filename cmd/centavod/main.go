package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/centavo/internal/cache"
	"github.com/dropDatabas3/centavo/internal/config"
	httpserver "github.com/dropDatabas3/centavo/internal/http"
	"github.com/dropDatabas3/centavo/internal/http/handlers"
	"github.com/dropDatabas3/centavo/internal/oauth"
	"github.com/dropDatabas3/centavo/internal/oauth/github"
	"github.com/dropDatabas3/centavo/internal/oauth/google"
	"github.com/dropDatabas3/centavo/internal/observability/logger"
	"github.com/dropDatabas3/centavo/internal/session"
	"github.com/dropDatabas3/centavo/internal/store"
	migrations "github.com/dropDatabas3/centavo/migrations/postgres"
)

func main() {
	// .env es opcional; en prod todo viene del entorno real
	_ = godotenv.Load()

	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al config.yaml (opcional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// logger aún no inicializado
		panic("config: " + err.Error())
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "centavod"})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatal("store open", logger.Err(err))
	}
	defer db.Close()

	if cfg.Flags.Migrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			log.Fatal("migrate", logger.Err(err))
		}
		log.Info("migrations applied")
	}

	cc, err := cache.New(cache.Config{
		Kind:     cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		log.Fatal("cache init", logger.Err(err))
	}
	defer cc.Close()

	sessions := session.NewManager(cc, session.Config{
		CookieName: cfg.Session.CookieName,
		Domain:     cfg.Session.Domain,
		SameSite:   cfg.Session.SameSite,
		Secure:     cfg.Session.Secure,
		TTL:        cfg.SessionTTL(),
	})

	var providers []*oauth.Provider
	if cfg.OAuth.Google.Enabled {
		providers = append(providers, google.New(
			cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.Scopes))
	}
	if cfg.OAuth.GitHub.Enabled {
		providers = append(providers, github.New(
			cfg.OAuth.GitHub.ClientID, cfg.OAuth.GitHub.ClientSecret, cfg.OAuth.GitHub.Scopes))
	}
	flow := &oauth.CookieFlowStore{TTL: cfg.StateTTL(), Secure: cfg.Session.Secure}
	oc := oauth.NewClient(cfg.OAuth.RedirectURLBase, flow, providers...)

	metricsHandler, err := httpserver.RegisterMetrics(nil)
	if err != nil {
		log.Fatal("metrics init", logger.Err(err))
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handlers:    handlers.New(db, sessions, oc),
		Health:      &handlers.Health{DB: db, Cache: cc},
		Sessions:    sessions,
		AdminAPIKey: cfg.Admin.APIKey,
		Metrics:     metricsHandler,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
		return httpserver.Start(gctx, cfg.Server.Addr, router)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", logger.Err(err))
	}
	log.Info("bye")
}
