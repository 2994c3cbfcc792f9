package logger

import (
	"strconv"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// UserID crea un campo para el ID numérico del usuario.
func UserID(v int64) zap.Field {
	return zap.String("user_id", strconv.FormatInt(v, 10))
}

// Provider crea un campo para el proveedor OAuth (google|github).
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// SessionID loguea solo un prefijo del session id; el id completo es una credencial.
func SessionID(v string) zap.Field {
	if len(v) > 8 {
		v = v[:8] + "…"
	}
	return zap.String("session_id", v)
}

// SubscriptionID crea un campo para el ID de suscripción.
func SubscriptionID(v int64) zap.Field {
	return zap.Int64("subscription_id", v)
}

// TTL crea un campo para un TTL en segundos (con la codificación -2/-1/0/>0).
func TTL(v int64) zap.Field {
	return zap.Int64("ttl", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (handler, service, repository, middleware).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
