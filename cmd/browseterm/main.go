package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Zim95/browseterm-server/internal/config"
	"github.com/Zim95/browseterm-server/internal/http/server"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
	"github.com/Zim95/browseterm-server/internal/store/pg"
)

func main() {
	var (
		cfgPath = envOr("CONFIG_PATH", "configs/config.yaml")
		envFile = envOr("BROWSETERM_ENV_FILE", ".env")
		out     = envOr("BROWSETERM_OUT", "text")
		cfg     *config.Config
	)

	root := &cobra.Command{
		Use:           "browseterm",
		Short:         "CLI de operación de browseterm-server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
			c, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = c
			logger.Init(logger.Config{Env: c.App.Env, Level: c.Log.Level, Format: c.Log.Format, ServiceName: c.App.Name, Version: c.App.Version})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "ruta a config.yaml (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "ruta a .env (si existe, se carga)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	// serve
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	})

	// migrate
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de Postgres (embebidas)",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todas las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pg.MigrateUp(cfg.PostgresDSN()); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	})
	var downSteps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (--steps 0 revierte todo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pg.MigrateDown(cfg.PostgresDSN(), downSteps); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	downCmd.Flags().IntVar(&downSteps, "steps", 1, "cantidad de migraciones a revertir")
	migrateCmd.AddCommand(downCmd)
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, dirty, err := pg.Version(cfg.PostgresDSN())
			if err != nil {
				return err
			}
			return printOut(out, map[string]any{"version": v, "dirty": dirty}, func() {
				fmt.Printf("version=%d dirty=%t\n", v, dirty)
			})
		},
	})
	root.AddCommand(migrateCmd)

	// session
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspección y revocación de sesiones",
	}
	sessionCmd.AddCommand(&cobra.Command{
		Use:   "inspect <session-id>",
		Short: "Muestra TTL y payload de una sesión",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := server.OpenCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			sessions := server.NewSessionStore(cfg, c)

			ctx := cmd.Context()
			ttl := sessions.TTL(ctx, args[0])
			data := sessions.Get(ctx, args[0])
			return printOut(out, map[string]any{"ttl": ttl, "session_data": data}, func() {
				fmt.Printf("ttl=%d\n", ttl)
				if data == nil {
					fmt.Println("payload: <none>")
					return
				}
				fmt.Printf("user_id=%d provider=%s provider_id=%s subscription_id=%d plan=%s valid_until=%s\n",
					data.UserInfo.ID, data.UserInfo.Provider, data.UserInfo.ProviderID,
					data.SubscriptionInfo.ID, data.CurrentSubscriptionPlan.Type,
					data.SubscriptionInfo.ValidUntil.Format("2006-01-02T15:04:05Z07:00"))
			})
		},
	})
	sessionCmd.AddCommand(&cobra.Command{
		Use:   "revoke <session-id>",
		Short: "Elimina una sesión",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := server.OpenCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			deleted := server.NewSessionStore(cfg, c).Delete(cmd.Context(), args[0])
			return printOut(out, map[string]any{"deleted": deleted}, func() {
				fmt.Printf("deleted=%t\n", deleted)
			})
		},
	})
	root.AddCommand(sessionCmd)

	// plans
	plansCmd := &cobra.Command{
		Use:   "plans",
		Short: "Catálogo de planes de suscripción",
	}
	plansCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista los planes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := server.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			plans, err := st.Subscriptions().ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			return printOut(out, plans, func() {
				tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTYPE\tNAME\tDAYS\tPRICE")
				for _, p := range plans {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d %s\n", p.ID, p.Type, p.Name, p.DurationDays, p.PriceCents, p.Currency)
				}
				_ = tw.Flush()
			})
		},
	})
	root.AddCommand(plansCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printOut(format string, v any, text func()) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		text()
		return nil
	default:
		return errors.New("--out debe ser json|text")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
