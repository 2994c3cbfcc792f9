package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	"github.com/Zim95/browseterm-server/internal/metrics"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// UserInfoService resuelve un authorization code a un perfil normalizado.
type UserInfoService struct {
	adapter   Adapter
	exchanger *TokenExchanger
	http      *http.Client
}

// NewUserInfoService crea el service para un proveedor. client nil => timeout por defecto.
func NewUserInfoService(adapter Adapter, client *http.Client) *UserInfoService {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &UserInfoService{
		adapter:   adapter,
		exchanger: NewTokenExchanger(client),
		http:      client,
	}
}

// Provider retorna el proveedor del adapter.
func (s *UserInfoService) Provider() types.Provider { return s.adapter.Provider() }

// Credentials retorna las credenciales del adapter.
func (s *UserInfoService) Credentials() Credentials { return s.adapter.Credentials() }

// AuthParams retorna los parámetros extra del proveedor para la URL de autorización.
func (s *UserInfoService) AuthParams() url.Values {
	if p, ok := s.adapter.(AuthParams); ok {
		return p.AuthParams()
	}
	return nil
}

// FetchUserInfo intercambia el código y obtiene el perfil.
// (nil, nil) significa que el proveedor rechazó el código o el token.
func (s *UserInfoService) FetchUserInfo(ctx context.Context, code string) (*types.UserInfo, error) {
	provider := s.adapter.Provider()
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.userinfo"),
		logger.Op("FetchUserInfo"),
		logger.Provider(provider.String()),
	)
	start := time.Now()
	result := "error"
	defer func() { metrics.RecordOAuthExchange(provider.String(), result, time.Since(start)) }()

	creds := s.adapter.Credentials()
	if err := creds.Validate(); err != nil {
		log.Error("provider misconfigured", logger.Err(err))
		return nil, err
	}

	tok, err := s.exchanger.Exchange(ctx, creds, code)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		result = "rejected"
		return nil, nil
	}

	raw, status, err := s.fetchProfile(ctx, creds.UserInfoURL, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		log.Warn("user info endpoint rejected token", logger.Status(status))
		result = "rejected"
		return nil, nil
	}

	info, err := s.adapter.Normalize(raw)
	if err != nil {
		return nil, err
	}
	info.Provider = provider

	if e, ok := s.adapter.(Enricher); ok {
		e.Enrich(ctx, s.http, tok.AccessToken, info)
	}

	result = "ok"
	log.Debug("user info fetched")
	return info, nil
}

func (s *UserInfoService) fetchProfile(ctx context.Context, endpoint, accessToken string) (map[string]any, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("oauth: build user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("oauth: user info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, resp.StatusCode, nil
	}

	raw, err := DecodeProfile(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}
