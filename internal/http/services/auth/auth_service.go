package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	dto "github.com/Zim95/browseterm-server/internal/http/dto/auth"
	"github.com/Zim95/browseterm-server/internal/metrics"
	"github.com/Zim95/browseterm-server/internal/oauth"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
	"github.com/Zim95/browseterm-server/internal/session"
)

// Errores de auth
var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrMissingCode     = errors.New("missing authorization code")
	ErrInvalidState    = errors.New("invalid oauth state")
	ErrAuthProvider    = errors.New("failed to exchange token")
	ErrMisconfigured   = errors.New("oauth provider misconfigured")
	ErrSessionCreation = errors.New("failed to create session")
)

// LogoutMessage es el mensaje fijo de POST /logout.
const LogoutMessage = "Logged out successfully"

// AuthenticationService orquesta login, logout y validación de sesiones.
type AuthenticationService struct {
	deps Deps
}

// NewAuthenticationService crea el service.
func NewAuthenticationService(d Deps) *AuthenticationService {
	return &AuthenticationService{deps: d}
}

// Login intercambia el código con el proveedor, resuelve la cuenta local y
// crea la sesión. Un rechazo del proveedor es ErrAuthProvider; cualquier
// otro error que no sea de validación es una falla interna.
func (s *AuthenticationService) Login(ctx context.Context, provider types.Provider, in dto.TokenExchangeRequest) (*dto.LoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
		logger.Provider(provider.String()),
	)
	result := "error"
	defer func() { metrics.RecordLogin(provider.String(), result) }()

	svc, ok := s.deps.Providers.Get(provider)
	if !ok {
		result = "unknown_provider"
		return nil, ErrUnknownProvider
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		result = "bad_request"
		return nil, ErrMissingCode
	}

	if s.deps.VerifyState {
		if s.deps.State == nil {
			return nil, fmt.Errorf("%w: state verification enabled without signer", ErrMisconfigured)
		}
		if _, err := s.deps.State.Verify(in.State, provider.String()); err != nil {
			log.Debug("state rejected", logger.Err(err))
			result = "bad_state"
			return nil, ErrInvalidState
		}
	}

	// Paso 1: código -> perfil
	info, err := svc.FetchUserInfo(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrMissingConfig) {
			return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
		}
		log.Error("user info fetch failed", logger.Err(err))
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	if info == nil {
		result = "rejected"
		return nil, ErrAuthProvider
	}

	// Paso 2: cuenta local y suscripción
	user, err := s.deps.Accounts.Users.CreateOrUpdateUser(ctx, *info)
	if err != nil {
		log.Error("user upsert failed", logger.Err(err))
		return nil, err
	}
	log = log.With(logger.UserID(user.ID))

	sub, err := s.deps.Accounts.Subscriptions.GetOrCreateFreeSubscription(ctx, user.ID)
	if err != nil {
		log.Error("subscription resolution failed", logger.Err(err))
		return nil, err
	}
	plan, err := s.deps.Accounts.Subscriptions.CurrentPlan(ctx, sub)
	if err != nil {
		log.Error("plan resolution failed", logger.Err(err), logger.SubscriptionID(sub.ID))
		return nil, err
	}

	// Paso 3: sesión
	data := session.Data{
		UserInfo:                *user,
		SubscriptionInfo:        *sub,
		CurrentSubscriptionPlan: *plan,
	}
	id, err := s.deps.Sessions.Create(ctx, data)
	if err != nil || id == "" {
		log.Error("session creation failed", logger.Err(err))
		return nil, ErrSessionCreation
	}

	result = "ok"
	log.Info("user logged in", logger.SessionID(id), logger.SubscriptionID(sub.ID))
	return &dto.LoginResponse{
		SessionID:               id,
		UserInfo:                data.UserInfo,
		SubscriptionInfo:        data.SubscriptionInfo,
		CurrentSubscriptionPlan: data.CurrentSubscriptionPlan,
	}, nil
}

// Logout borra la sesión si existe. Siempre tiene éxito, incluso para ids
// desconocidos o vacíos.
func (s *AuthenticationService) Logout(ctx context.Context, sessionID string) dto.LogoutResponse {
	if sessionID != "" {
		deleted := s.deps.Sessions.Delete(ctx, sessionID)
		logger.From(ctx).Debug("logout",
			logger.Layer("service"),
			logger.Component("auth.logout"),
			logger.SessionID(sessionID),
			logger.Bool("deleted", deleted),
		)
	}
	return dto.LogoutResponse{Message: LogoutMessage, Success: true}
}

// ValidateSession delega en el store; no renueva el TTL.
func (s *AuthenticationService) ValidateSession(ctx context.Context, sessionID string) (session.Validation, error) {
	if sessionID == "" {
		return session.Validation{IsValid: false}, nil
	}
	return s.deps.Sessions.Validate(ctx, sessionID)
}

// ExtendSession fija el TTL restante de la sesión.
func (s *AuthenticationService) ExtendSession(ctx context.Context, sessionID string, ttl time.Duration) bool {
	return s.deps.Sessions.Extend(ctx, sessionID, ttl)
}

// SessionTTL retorna el TTL con la codificación -2/-1/0/>0.
func (s *AuthenticationService) SessionTTL(ctx context.Context, sessionID string) int64 {
	return s.deps.Sessions.TTL(ctx, sessionID)
}

// SessionMaxAge es la vida de la cookie: igual al TTL con el que se crean las sesiones.
func (s *AuthenticationService) SessionMaxAge() time.Duration {
	return s.deps.Sessions.DefaultTTL()
}

// LoginConfig describe cómo iniciar el login con cada proveedor configurado.
// Con un signer cada proveedor recibe un state nuevo.
func (s *AuthenticationService) LoginConfig(ctx context.Context) (*dto.LoginConfigResponse, error) {
	out := &dto.LoginConfigResponse{Providers: []dto.ProviderLoginConfig{}}
	for _, p := range s.deps.Providers.Providers() {
		svc, _ := s.deps.Providers.Get(p)
		creds := svc.Credentials()

		var st string
		if s.deps.State != nil {
			tok, err := s.deps.State.Sign(p.String())
			if err != nil {
				logger.From(ctx).Error("state sign failed",
					logger.Layer("service"), logger.Component("auth.config"), logger.Provider(p.String()), logger.Err(err))
				return nil, fmt.Errorf("sign state: %w", err)
			}
			st = tok
		}

		extra := svc.AuthParams()
		out.Providers = append(out.Providers, dto.ProviderLoginConfig{
			Provider:        p.String(),
			ClientID:        creds.ClientID,
			AuthMetaURL:     creds.AuthURL,
			AuthScope:       creds.Scope,
			AuthRedirectURI: creds.RedirectURI,
			AuthorizeURL:    creds.AuthorizeURL(st, extra),
			TokenExchange:   "/" + p.String() + "-token-exchange",
			State:           st,
		})
	}
	return out, nil
}
