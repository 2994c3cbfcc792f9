package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Zim95/browseterm-server/internal/config"
	"github.com/Zim95/browseterm-server/internal/http/server"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime config efectiva y termina")
	)
	flag.Parse()

	if *flagEnvFile != "" && fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: cargado %s", *flagEnvFile)
		}
	}

	cfgPath := *flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		logger.L().Fatal("server failed", logger.Err(err))
	}
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// printConfigSummary no imprime secretos.
func printConfigSummary(c *config.Config) {
	fmt.Printf(`env=%s addr=%s
cache=%s redis=%s:%d db=%d
storage=%s auto_migrate=%t
session prefix=%s ttl=%s sliding=%s fault_policy=%s cookie=%s samesite=%s secure=%t
oauth base=%s google_client=%t github_client=%t state_verify=%t
rate enabled=%t limit=%d window=%s metrics=%t path=%s
`,
		c.App.Env, c.Server.Addr,
		c.Cache.Kind, c.Cache.Redis.Host, c.Cache.Redis.Port, c.Cache.Redis.DB,
		c.Storage.Driver, c.Storage.AutoMigrate,
		c.Session.Prefix, c.Session.TTL, c.Session.SlidingTTL, c.Session.StoreFaultPolicy,
		c.Session.Cookie.Name, c.Session.Cookie.SameSite, c.Session.Cookie.Secure,
		c.OAuth.RedirectBaseURI, c.OAuth.Google.ClientID != "", c.OAuth.GitHub.ClientID != "", c.OAuth.State.Verify,
		c.Rate.Enabled, c.Rate.Limit, c.Rate.Window, c.Metrics.Enabled, c.Metrics.Path,
	)
}
