package middlewares

import (
	"context"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxSessionKey guarda el SessionContext inyectado por SessionGate
	ctxSessionKey ctxKey = "session"
)

// SessionContext es lo que SessionGate deja disponible para los handlers.
type SessionContext struct {
	SessionID               string
	UserInfo                repository.User
	SubscriptionInfo        repository.Subscription
	CurrentSubscriptionPlan repository.Plan
	// TTL restante en segundos luego de la renovación deslizante.
	TTL int64
}

// =================================================================================
// CONTEXT SETTERS
// =================================================================================

// WithSessionContext inyecta la sesión validada en el contexto.
func WithSessionContext(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, ctxSessionKey, sc)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS
// =================================================================================

// GetSessionContext obtiene la sesión del contexto.
// Retorna nil si la ruta no pasó por SessionGate.
func GetSessionContext(ctx context.Context) *SessionContext {
	if v, ok := ctx.Value(ctxSessionKey).(*SessionContext); ok {
		return v
	}
	return nil
}

// GetUserInfo, GetSubscriptionInfo, GetCurrentSubscriptionPlan y GetSessionID
// son atajos sobre GetSessionContext. Retornan nil/"" fuera del gate.
func GetUserInfo(ctx context.Context) *repository.User {
	if sc := GetSessionContext(ctx); sc != nil {
		return &sc.UserInfo
	}
	return nil
}

func GetSubscriptionInfo(ctx context.Context) *repository.Subscription {
	if sc := GetSessionContext(ctx); sc != nil {
		return &sc.SubscriptionInfo
	}
	return nil
}

func GetCurrentSubscriptionPlan(ctx context.Context) *repository.Plan {
	if sc := GetSessionContext(ctx); sc != nil {
		return &sc.CurrentSubscriptionPlan
	}
	return nil
}

func GetSessionID(ctx context.Context) string {
	if sc := GetSessionContext(ctx); sc != nil {
		return sc.SessionID
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}
