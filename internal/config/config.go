package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider agrupa la configuración de un proveedor OAuth.
// Los endpoints vacíos toman los defaults del adapter correspondiente.
type Provider struct {
	ClientID     string            `yaml:"client_id"`
	ClientSecret string            `yaml:"client_secret"`
	RedirectURI  string            `yaml:"redirect_uri"` // si vacío => <redirect_base_uri>/<provider>-login-redirect
	AuthURL      string            `yaml:"auth_url"`
	TokenURL     string            `yaml:"token_url"`
	UserInfoURL  string            `yaml:"userinfo_url"`
	EmailsURL    string            `yaml:"emails_url"` // solo github; "-" desactiva
	Scope        string            `yaml:"scope"`
	Headers      map[string]string `yaml:"headers"`
}

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console | json; vacío => según app.env
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// IPs o CIDRs de proxies cuyo X-Forwarded-For se acepta. Vacío => solo RemoteAddr.
		TrustedProxies  []string      `yaml:"trusted_proxies"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Username string `yaml:"username"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Storage struct {
		Driver      string `yaml:"driver"` // memory | postgres
		DSN         string `yaml:"dsn"`
		AutoMigrate bool   `yaml:"auto_migrate"`
		Postgres    struct {
			Host            string        `yaml:"host"`
			Port            int           `yaml:"port"`
			User            string        `yaml:"user"`
			Password        string        `yaml:"password"`
			Database        string        `yaml:"database"`
			SSLMode         string        `yaml:"sslmode"`
			MaxConns        int           `yaml:"max_conns"`
			MinConns        int           `yaml:"min_conns"`
			ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Session struct {
		Prefix           string        `yaml:"prefix"`
		TTL              time.Duration `yaml:"ttl"`
		SlidingTTL       time.Duration `yaml:"sliding_ttl"`
		StoreFaultPolicy string        `yaml:"store_fault_policy"` // absent | fail
		Cookie           struct {
			Name     string `yaml:"name"`
			Domain   string `yaml:"domain"`
			SameSite string `yaml:"samesite"`
			Secure   bool   `yaml:"secure"`
		} `yaml:"cookie"`
	} `yaml:"session"`

	OAuth struct {
		RedirectBaseURI string        `yaml:"redirect_base_uri"`
		HTTPTimeout     time.Duration `yaml:"http_timeout"`
		State           struct {
			Secret string        `yaml:"secret"`
			Verify bool          `yaml:"verify"`
			TTL    time.Duration `yaml:"ttl"`
		} `yaml:"state"`
		Google Provider `yaml:"google"`
		GitHub Provider `yaml:"github"`
	} `yaml:"oauth"`

	Rate struct {
		Enabled bool          `yaml:"enabled"`
		Limit   int           `yaml:"limit"`
		Window  time.Duration `yaml:"window"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Load lee el YAML (opcional: path vacío o inexistente => solo defaults),
// aplica overrides por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	// secure, rate y metrics son true salvo que el YAML diga lo contrario
	c.Session.Cookie.Secure = true
	c.Rate.Enabled = true
	c.Metrics.Enabled = true

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	c.applyDefaults()

	// Overrides por env
	c.applyEnvOverrides()

	c.deriveRedirectURIs()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default devuelve la configuración por defecto sin leer archivo ni entorno.
func Default() *Config {
	var c Config
	c.Session.Cookie.Secure = true
	c.Rate.Enabled = true
	c.Metrics.Enabled = true
	c.applyDefaults()
	c.deriveRedirectURIs()
	return &c
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "browseterm-server"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":9999"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Postgres.Host == "" {
		c.Storage.Postgres.Host = "localhost"
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = 5432
	}
	if c.Storage.Postgres.User == "" {
		c.Storage.Postgres.User = "postgres"
	}
	if c.Storage.Postgres.Database == "" {
		c.Storage.Postgres.Database = "browseterm"
	}
	if c.Storage.Postgres.SSLMode == "" {
		c.Storage.Postgres.SSLMode = "disable"
	}

	if c.Session.Prefix == "" {
		c.Session.Prefix = "session:"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.SlidingTTL == 0 {
		c.Session.SlidingTTL = 30 * time.Minute
	}
	if c.Session.StoreFaultPolicy == "" {
		c.Session.StoreFaultPolicy = "absent"
	}
	if c.Session.Cookie.Name == "" {
		c.Session.Cookie.Name = "session"
	}
	if c.Session.Cookie.SameSite == "" {
		c.Session.Cookie.SameSite = "Strict"
	}

	if c.OAuth.RedirectBaseURI == "" {
		c.OAuth.RedirectBaseURI = "http://localhost:9999"
	}
	if c.OAuth.HTTPTimeout == 0 {
		c.OAuth.HTTPTimeout = 10 * time.Second
	}
	if c.OAuth.State.TTL == 0 {
		c.OAuth.State.TTL = 10 * time.Minute
	}

	if c.Rate.Limit == 0 {
		c.Rate.Limit = 10
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// deriveRedirectURIs completa las redirect URIs vacías a partir de la base.
func (c *Config) deriveRedirectURIs() {
	base := strings.TrimRight(c.OAuth.RedirectBaseURI, "/")
	if strings.TrimSpace(c.OAuth.Google.RedirectURI) == "" {
		c.OAuth.Google.RedirectURI = base + "/google-login-redirect"
	}
	if strings.TrimSpace(c.OAuth.GitHub.RedirectURI) == "" {
		c.OAuth.GitHub.RedirectURI = base + "/github-login-redirect"
	}
}

// PostgresDSN devuelve storage.dsn o, si está vacío, lo arma desde storage.postgres.
func (c *Config) PostgresDSN() string {
	if s := strings.TrimSpace(c.Storage.DSN); s != "" {
		return s
	}
	pg := c.Storage.Postgres
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(pg.User, pg.Password),
		Host:     net.JoinHostPort(pg.Host, strconv.Itoa(pg.Port)),
		Path:     "/" + pg.Database,
		RawQuery: url.Values{"sslmode": {pg.SSLMode}}.Encode(),
	}
	if pg.Password == "" {
		u.User = url.User(pg.User)
	}
	return u.String()
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// IsProd indica si app.env es prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// firstEnv devuelve el primer env no vacío de la lista (alias legacy al final).
func firstEnv(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := getEnvStr(k); ok {
			return v, true
		}
	}
	return "", false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}
	if v, ok := getEnvDur("SERVER_READ_TIMEOUT"); ok {
		c.Server.ReadTimeout = v
	}
	if v, ok := getEnvDur("SERVER_WRITE_TIMEOUT"); ok {
		c.Server.WriteTimeout = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_HOST"); ok {
		c.Cache.Redis.Host = v
	}
	if v, ok := getEnvInt("REDIS_PORT"); ok {
		c.Cache.Redis.Port = v
	}
	if v, ok := getEnvStr("REDIS_USERNAME"); ok {
		c.Cache.Redis.Username = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := firstEnv("DATABASE_URL", "STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvBool("STORAGE_AUTO_MIGRATE"); ok {
		c.Storage.AutoMigrate = v
	}
	if v, ok := getEnvStr("POSTGRES_HOST"); ok {
		c.Storage.Postgres.Host = v
	}
	if v, ok := getEnvInt("POSTGRES_PORT"); ok {
		c.Storage.Postgres.Port = v
	}
	if v, ok := getEnvStr("POSTGRES_USER"); ok {
		c.Storage.Postgres.User = v
	}
	if v, ok := getEnvStr("POSTGRES_PASSWORD"); ok {
		c.Storage.Postgres.Password = v
	}
	if v, ok := getEnvStr("POSTGRES_DB"); ok {
		c.Storage.Postgres.Database = v
	}
	if v, ok := getEnvStr("POSTGRES_SSLMODE"); ok {
		c.Storage.Postgres.SSLMode = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_PREFIX"); ok {
		c.Session.Prefix = v
	}
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.Session.TTL = v
	}
	if v, ok := getEnvDur("SESSION_SLIDING_TTL"); ok {
		c.Session.SlidingTTL = v
	}
	if v, ok := getEnvStr("SESSION_STORE_FAULT_POLICY"); ok {
		c.Session.StoreFaultPolicy = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.Cookie.Name = v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_DOMAIN"); ok {
		c.Session.Cookie.Domain = v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_SAMESITE"); ok {
		c.Session.Cookie.SameSite = v
	}
	if v, ok := getEnvBool("SESSION_COOKIE_SECURE"); ok {
		c.Session.Cookie.Secure = v
	}

	// OAUTH
	if v, ok := getEnvStr("AUTH_REDIRECT_BASE_URI"); ok {
		c.OAuth.RedirectBaseURI = v
	}
	if v, ok := getEnvDur("OAUTH_HTTP_TIMEOUT"); ok {
		c.OAuth.HTTPTimeout = v
	}
	if v, ok := getEnvStr("OAUTH_STATE_SECRET"); ok {
		c.OAuth.State.Secret = v
	}
	if v, ok := getEnvBool("OAUTH_STATE_VERIFY"); ok {
		c.OAuth.State.Verify = v
	}
	if v, ok := getEnvDur("OAUTH_STATE_TTL"); ok {
		c.OAuth.State.TTL = v
	}
	// GOOGLE (GOOGLE_AUTH_* son los nombres legacy)
	if v, ok := firstEnv("GOOGLE_CLIENT_ID", "GOOGLE_AUTH_CLIENT_ID"); ok {
		c.OAuth.Google.ClientID = v
	}
	if v, ok := firstEnv("GOOGLE_CLIENT_SECRET", "GOOGLE_AUTH_CLIENT_SECRET"); ok {
		c.OAuth.Google.ClientSecret = v
	}
	if v, ok := getEnvStr("GOOGLE_REDIRECT_URI"); ok {
		c.OAuth.Google.RedirectURI = v
	}
	// GITHUB
	if v, ok := firstEnv("GITHUB_CLIENT_ID", "GITHUB_AUTH_CLIENT_ID"); ok {
		c.OAuth.GitHub.ClientID = v
	}
	if v, ok := firstEnv("GITHUB_CLIENT_SECRET", "GITHUB_AUTH_CLIENT_SECRET"); ok {
		c.OAuth.GitHub.ClientSecret = v
	}
	if v, ok := getEnvStr("GITHUB_REDIRECT_URI"); ok {
		c.OAuth.GitHub.RedirectURI = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT"); ok {
		c.Rate.Limit = v
	}
	if v, ok := getEnvDur("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}

	// METRICS
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}

// Validate revisa los valores críticos. Junta todos los errores.
func (c *Config) Validate() error {
	var errs []error

	for _, p := range c.Server.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: invalid %q (IP or CIDR)", p))
		}
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown %q (console|json)", c.Log.Format))
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unknown %q (memory|redis)", c.Cache.Kind))
	}
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown %q (memory|postgres)", c.Storage.Driver))
	}
	switch c.Session.StoreFaultPolicy {
	case "absent", "fail":
	default:
		errs = append(errs, fmt.Errorf("session.store_fault_policy: unknown %q (absent|fail)", c.Session.StoreFaultPolicy))
	}
	switch strings.ToLower(c.Session.Cookie.SameSite) {
	case "strict", "lax", "none":
	default:
		errs = append(errs, fmt.Errorf("session.cookie.samesite: unknown %q", c.Session.Cookie.SameSite))
	}
	if strings.EqualFold(c.Session.Cookie.SameSite, "none") && !c.Session.Cookie.Secure {
		errs = append(errs, errors.New("session.cookie: samesite=none requires secure=true"))
	}
	if c.Session.TTL < time.Second {
		errs = append(errs, errors.New("session.ttl: must be at least 1s"))
	}
	if c.Session.SlidingTTL < time.Second {
		errs = append(errs, errors.New("session.sliding_ttl: must be at least 1s"))
	}
	if c.OAuth.State.Verify && len(c.OAuth.State.Secret) < 32 {
		errs = append(errs, errors.New("oauth.state.secret: at least 32 bytes required when oauth.state.verify is true"))
	}
	if c.Rate.Enabled && (c.Rate.Limit <= 0 || c.Rate.Window <= 0) {
		errs = append(errs, errors.New("rate: limit and window must be positive"))
	}
	if _, err := url.Parse(c.OAuth.RedirectBaseURI); err != nil {
		errs = append(errs, fmt.Errorf("oauth.redirect_base_uri: %w", err))
	}

	return errors.Join(errs...)
}
