package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// DefaultHTTPTimeout es el timeout de las llamadas a proveedores.
const DefaultHTTPTimeout = 10 * time.Second

// maxBody limita lo que leemos de un proveedor.
const maxBody = 1 << 20

// NewHTTPClient crea el cliente compartido para hablar con proveedores.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// TokenExchanger intercambia un authorization code por un access token.
type TokenExchanger struct {
	http *http.Client
}

// NewTokenExchanger crea el exchanger. client nil => timeout por defecto.
func NewTokenExchanger(client *http.Client) *TokenExchanger {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &TokenExchanger{http: client}
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    json.Number `json:"expires_in"`
	Error        string      `json:"error"`
	ErrorDesc    string      `json:"error_description"`
}

// Exchange hace el POST form-encoded al endpoint de token.
//
// Devuelve (nil, nil) si el proveedor rechaza el código: status != 200 o
// respuesta sin access_token. Los errores de transporte y el JSON inválido
// se devuelven como error.
func (e *TokenExchanger) Exchange(ctx context.Context, creds Credentials, code string) (*TokenResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("client"),
		logger.Component("oauth.exchange"),
		logger.Op("Exchange"),
	)

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("redirect_uri", creds.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.AccessTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oauth: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	for k, v := range creds.TokenExchangeHeaders {
		req.Header.Set(k, v)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// rechazo del proveedor: falla blanda aunque el body no se pueda leer
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		log.Warn("token endpoint rejected code", logger.Status(resp.StatusCode))
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("oauth: read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("oauth: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		// GitHub responde 200 con {"error": "bad_verification_code"}
		log.Warn("token response without access_token", logger.String("error", tr.Error))
		return nil, nil
	}

	res := &TokenResult{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}
	if tr.ExpiresIn != "" {
		if n, err := tr.ExpiresIn.Int64(); err == nil {
			res.ExpiresIn = n
		}
	}
	return res, nil
}
