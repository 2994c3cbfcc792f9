package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/Zim95/browseterm-server/internal/http/errors"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
	"github.com/Zim95/browseterm-server/internal/session"
)

// =================================================================================
// SESSION GATE
// =================================================================================

// SessionAuthenticator es lo que el gate necesita del servicio de auth.
type SessionAuthenticator interface {
	ValidateSession(ctx context.Context, sessionID string) (session.Validation, error)
	ExtendSession(ctx context.Context, sessionID string, ttl time.Duration) bool
}

// SessionGateConfig configura el gate.
type SessionGateConfig struct {
	CookieName string        // default "session"
	SlidingTTL time.Duration // default 30m
	LoginPath  string        // default "/login"
}

// SessionGate protege rutas con la cookie de sesión.
type SessionGate struct {
	auth SessionAuthenticator
	cfg  SessionGateConfig
}

func NewSessionGate(auth SessionAuthenticator, cfg SessionGateConfig) *SessionGate {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if cfg.SlidingTTL <= 0 {
		cfg.SlidingTTL = 30 * time.Minute
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	return &SessionGate{auth: auth, cfg: cfg}
}

// Authenticate valida la cookie del request y renueva el TTL de la sesión.
// ok=false sin error => no hay sesión válida. err != nil solo con la política
// de fallas "fail" cuando el store no responde.
func (g *SessionGate) Authenticate(r *http.Request) (*SessionContext, bool, error) {
	ctx := r.Context()
	sid := helpers.SessionCookie(r, g.cfg.CookieName)
	if sid == "" {
		return nil, false, nil
	}

	v, err := g.auth.ValidateSession(ctx, sid)
	if err != nil {
		return nil, false, err
	}
	if !v.IsValid || v.SessionData == nil {
		return nil, false, nil
	}

	ttl := int64(-1)
	if v.TTL != nil {
		ttl = *v.TTL
	}
	if g.auth.ExtendSession(ctx, sid, g.cfg.SlidingTTL) {
		ttl = int64(g.cfg.SlidingTTL / time.Second)
	} else {
		logger.From(ctx).Warn("session extend failed",
			logger.Layer("middleware"),
			logger.Component("session_gate"),
			logger.SessionID(sid),
		)
	}

	return &SessionContext{
		SessionID:               sid,
		UserInfo:                v.SessionData.UserInfo,
		SubscriptionInfo:        v.SessionData.SubscriptionInfo,
		CurrentSubscriptionPlan: v.SessionData.CurrentSubscriptionPlan,
		TTL:                     ttl,
	}, true, nil
}

// Require es el middleware: sin sesión válida => 302 a LoginPath y el handler
// no se ejecuta. Con sesión, inyecta SessionContext y el user_id en el logger.
func (g *SessionGate) Require() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok, err := g.Authenticate(r)
			if err != nil {
				errors.WriteError(w, errors.ErrSessionStoreUnavailable.WithCause(err))
				return
			}
			if !ok {
				http.Redirect(w, r, g.cfg.LoginPath, http.StatusFound)
				return
			}

			ctx := WithSessionContext(r.Context(), sc)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(sc.UserInfo.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
