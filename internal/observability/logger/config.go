package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger.
type Config struct {
	// Env: "dev" (consola con colores) o "prod" (JSON). Default: "dev".
	Env string

	// Level: "debug", "info", "warn", "error". Default: "info".
	Level string

	// Format fuerza el encoder ("console" o "json"). Vacío => según Env.
	Format string

	// ServiceName se agrega como campo base "service" si no está vacío.
	ServiceName string

	// Version se agrega como campo base "version" si no está vacío.
	Version string
}

func build(cfg Config) *zap.Logger {
	level := parseLevel(cfg.Level)

	var zcfg zap.Config
	var opts []zap.Option

	prod := strings.EqualFold(strings.TrimSpace(cfg.Env), "prod")
	if prod {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	switch encoding(cfg.Format, prod) {
	case "json":
		zcfg.Encoding = "json"
		zcfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	default:
		zcfg.Encoding = "console"
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	opts = append(opts, zap.AddCaller())
	l, err := zcfg.Build(opts...)
	if err != nil {
		// Fallback a un logger básico si falla
		l, _ = zap.NewProduction()
	}

	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	if cfg.Version != "" {
		l = l.With(zap.String("version", cfg.Version))
	}
	return l
}

// encoding resuelve el encoder: Format explícito o, si no, json en prod.
func encoding(format string, prod bool) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "json", "console":
		return f
	}
	if prod {
		return "json"
	}
	return "console"
}

// parseLevel convierte un string a zapcore.Level. Desconocido => info.
func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
