// Package oauth implementa el intercambio código -> token -> perfil para los
// proveedores soportados. Cada proveedor aporta un Adapter con sus
// credenciales y su normalización; el flujo HTTP es común.
package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Zim95/browseterm-server/internal/domain/types"
)

// ErrMissingConfig indica credenciales incompletas (falla de configuración, no del usuario).
var ErrMissingConfig = errors.New("oauth: missing provider configuration")

// Credentials son inmutables; se construyen una vez por proveedor al arrancar.
type Credentials struct {
	ClientID             string
	ClientSecret         string
	RedirectURI          string
	AuthURL              string
	Scope                string
	AccessTokenURL       string
	UserInfoURL          string
	TokenExchangeHeaders map[string]string
}

// Validate verifica los campos sin los cuales el intercambio no puede funcionar.
func (c Credentials) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.AccessTokenURL == "" {
		missing = append(missing, "access_token_url")
	}
	if c.UserInfoURL == "" {
		missing = append(missing, "user_info_url")
	}
	if len(missing) > 0 {
		return errors.Join(ErrMissingConfig, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

// AuthorizeURL arma la URL de autorización del proveedor para el state dado.
func (c Credentials) AuthorizeURL(state string, extra url.Values) string {
	u, err := url.Parse(c.AuthURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", c.Scope)
	if state != "" {
		q.Set("state", state)
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenResult es la respuesta útil del endpoint de token.
type TokenResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Adapter es la capacidad que aporta cada proveedor.
type Adapter interface {
	Provider() types.Provider
	Credentials() Credentials
	// Normalize convierte el JSON crudo del endpoint de perfil en UserInfo.
	Normalize(raw map[string]any) (*types.UserInfo, error)
}

// Enricher es opcional: completa el perfil con llamadas extra (ej: emails de GitHub).
// Un fallo de enriquecimiento no invalida el login.
type Enricher interface {
	Enrich(ctx context.Context, client *http.Client, accessToken string, info *types.UserInfo)
}

// AuthParams es opcional: parámetros extra para la URL de autorización.
type AuthParams interface {
	AuthParams() url.Values
}
