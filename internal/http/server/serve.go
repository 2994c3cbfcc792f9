package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Zim95/browseterm-server/internal/config"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// Serve atiende handler en cfg.Server.Addr hasta que ctx se cancela y luego
// apaga el servidor esperando a lo sumo cfg.Server.ShutdownTimeout.
func Serve(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	log := logger.From(ctx).With(logger.Layer("server"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.String("timeout", cfg.Server.ShutdownTimeout.String()))
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run hace el wiring y sirve hasta que ctx se cancela.
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.From(ctx).Warn("cleanup failed", logger.Err(err))
		}
	}()
	return Serve(ctx, cfg, app.Handler)
}
