// Package server arma todas las dependencias del servicio a partir de la
// configuración y expone el handler HTTP listo para servir.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Zim95/browseterm-server/internal/cache"
	"github.com/Zim95/browseterm-server/internal/config"
	"github.com/Zim95/browseterm-server/internal/http/controllers"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	mw "github.com/Zim95/browseterm-server/internal/http/middlewares"
	"github.com/Zim95/browseterm-server/internal/http/router"
	"github.com/Zim95/browseterm-server/internal/http/services"
	"github.com/Zim95/browseterm-server/internal/http/services/health"
	"github.com/Zim95/browseterm-server/internal/metrics"
	"github.com/Zim95/browseterm-server/internal/oauth"
	"github.com/Zim95/browseterm-server/internal/oauth/github"
	"github.com/Zim95/browseterm-server/internal/oauth/google"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
	"github.com/Zim95/browseterm-server/internal/rate"
	"github.com/Zim95/browseterm-server/internal/security/state"
	"github.com/Zim95/browseterm-server/internal/session"
	"github.com/Zim95/browseterm-server/internal/store"
	"github.com/Zim95/browseterm-server/internal/store/pg"
)

// App es el resultado del wiring.
type App struct {
	Handler  http.Handler
	Services services.Services
	Sessions *session.Store
	Cache    cache.Client
	Store    store.Store
}

// Close libera cache y store.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// Build crea el servicio completo. Ante un error libera lo ya abierto.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logger.From(ctx).With(logger.Layer("wiring"))
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	// 1. Backends
	if app.Cache, err = OpenCache(cfg); err != nil {
		return nil, err
	}
	if app.Store, err = OpenStore(ctx, cfg); err != nil {
		return nil, err
	}
	app.Sessions = NewSessionStore(cfg, app.Cache)

	// 2. OAuth
	providers := NewProviders(cfg)
	var signer *state.Signer
	if cfg.OAuth.State.Secret != "" {
		if signer, err = state.NewSigner(cfg.OAuth.State.Secret, cfg.App.Name, cfg.OAuth.State.TTL); err != nil {
			return nil, fmt.Errorf("wiring: oauth state: %w", err)
		}
	}

	// 3. Métricas (antes del router: WithMetrics se resuelve al construirlo)
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		if metricsHandler, err = metrics.Register(metrics.Config{Pool: store.PoolOf(app.Store)}); err != nil {
			return nil, fmt.Errorf("wiring: metrics: %w", err)
		}
	}

	// 4. Services y controllers
	app.Services = services.New(services.Deps{
		Users:         app.Store.Users(),
		Subscriptions: app.Store.Subscriptions(),
		Providers:     providers,
		Sessions:      app.Sessions,
		State:         signer,
		VerifyState:   cfg.OAuth.State.Verify,
		Health: health.Deps{
			Critical: map[string]health.Check{"cache": app.Cache.Ping},
			Optional: map[string]health.Check{"store": app.Store.Ping},
			Version:  cfg.App.Version,
		},
	})
	cookie := helpers.CookieConfig{
		Name:     cfg.Session.Cookie.Name,
		Domain:   cfg.Session.Cookie.Domain,
		SameSite: cfg.Session.Cookie.SameSite,
		Secure:   cfg.Session.Cookie.Secure,
	}

	proxies, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("wiring: %w", err)
	}

	gate := mw.NewSessionGate(app.Services.Auth.Auth, mw.SessionGateConfig{
		CookieName: cookie.Name,
		SlidingTTL: cfg.Session.SlidingTTL,
	})

	app.Handler = router.New(router.Deps{
		Controllers:    controllers.New(app.Services, cookie),
		Gate:           gate,
		RateLimiter:    NewLimiter(cfg, app.Cache),
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		TrustedProxies: proxies,
		MetricsHandler: metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
	})

	log.Info("service wired",
		logger.String("cache", cfg.Cache.Kind),
		logger.String("storage", cfg.Storage.Driver),
		logger.Int("providers", len(providers.Providers())),
		logger.Bool("state_verify", cfg.OAuth.State.Verify),
	)
	return app, nil
}

// OpenCache abre el backend de sesiones y verifica la conexión.
func OpenCache(cfg *config.Config) (cache.Client, error) {
	r := cfg.Cache.Redis
	c, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Host:     r.Host,
		Port:     r.Port,
		Username: r.Username,
		Password: r.Password,
		DB:       r.DB,
		Prefix:   r.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring: cache: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("wiring: cache ping: %w", err)
	}
	return c, nil
}

// OpenStore abre el store relacional configurado.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	sc := store.Config{Driver: cfg.Storage.Driver, AutoMigrate: cfg.Storage.AutoMigrate}
	if sc.Driver == "postgres" {
		p := cfg.Storage.Postgres
		sc.DSN = cfg.PostgresDSN()
		sc.Pool = pg.PoolConfig{
			MaxConns:        int32(p.MaxConns),
			MinConns:        int32(p.MinConns),
			MaxConnLifetime: p.ConnMaxLifetime,
		}
	}
	s, err := store.Open(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("wiring: store: %w", err)
	}
	return s, nil
}

// NewSessionStore crea el store de sesiones sobre c.
func NewSessionStore(cfg *config.Config, c cache.Client) *session.Store {
	return session.NewStore(c, session.Config{
		Prefix:      cfg.Session.Prefix,
		TTL:         cfg.Session.TTL,
		FaultPolicy: session.ParseFaultPolicy(cfg.Session.StoreFaultPolicy),
	})
}

// NewProviders registra Google y GitHub. Un proveedor sin client_id no se
// registra y su token exchange responde UNKNOWN_PROVIDER.
func NewProviders(cfg *config.Config) *oauth.Registry {
	client := oauth.NewHTTPClient(cfg.OAuth.HTTPTimeout)
	var svcs []*oauth.UserInfoService

	if g := cfg.OAuth.Google; g.ClientID != "" {
		svcs = append(svcs, oauth.NewUserInfoService(google.New(credentials(g)), client))
	}
	if gh := cfg.OAuth.GitHub; gh.ClientID != "" {
		svcs = append(svcs, oauth.NewUserInfoService(github.New(credentials(gh), gh.EmailsURL), client))
	}
	return oauth.NewRegistry(svcs...)
}

func credentials(p config.Provider) oauth.Credentials {
	return oauth.Credentials{
		ClientID:             p.ClientID,
		ClientSecret:         p.ClientSecret,
		RedirectURI:          p.RedirectURI,
		AuthURL:              p.AuthURL,
		Scope:                p.Scope,
		AccessTokenURL:       p.TokenURL,
		UserInfoURL:          p.UserInfoURL,
		TokenExchangeHeaders: p.Headers,
	}
}

// NewLimiter usa Redis cuando el cache es Redis (contador compartido entre
// réplicas); si no, un token bucket en memoria. nil si está deshabilitado.
func NewLimiter(cfg *config.Config, c cache.Client) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if rc, ok := c.(*cache.RedisClient); ok {
		return rate.NewRedisLimiter(rc.Raw(), cfg.Cache.Redis.Prefix+"ratelimit:", cfg.Rate.Limit, cfg.Rate.Window)
	}
	return rate.NewMemoryLimiter(cfg.Rate.Limit, cfg.Rate.Window)
}
