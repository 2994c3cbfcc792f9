// Package logger provee un logger Zap singleton con scoping por contexto.
//
//   - Singleton: una instancia global inicializada con Init().
//   - Scoping: cada request lleva su logger con request_id/method/path,
//     inyectado por middlewares.WithLogging y recuperado con From(ctx).
//   - Entornos: "dev" usa consola con colores, "prod" usa JSON.
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Login"))
//	log.Info("session created", logger.UserID(user.ID))
package logger
