// Package google aporta el Adapter OAuth 2.0 de Google.
package google

import (
	"net/url"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	"github.com/Zim95/browseterm-server/internal/oauth"
)

const (
	DefaultAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	DefaultTokenURL    = "https://oauth2.googleapis.com/token"
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	DefaultScope       = "openid email profile"
)

// Adapter implementa oauth.Adapter para Google.
type Adapter struct {
	creds oauth.Credentials
}

// New completa los endpoints vacíos con los de Google.
func New(creds oauth.Credentials) *Adapter {
	if creds.AuthURL == "" {
		creds.AuthURL = DefaultAuthURL
	}
	if creds.AccessTokenURL == "" {
		creds.AccessTokenURL = DefaultTokenURL
	}
	if creds.UserInfoURL == "" {
		creds.UserInfoURL = DefaultUserInfoURL
	}
	if creds.Scope == "" {
		creds.Scope = DefaultScope
	}
	return &Adapter{creds: creds}
}

func (a *Adapter) Provider() types.Provider       { return types.ProviderGoogle }
func (a *Adapter) Credentials() oauth.Credentials { return a.creds }

// AuthParams fuerza el selector de cuenta en cada login.
func (a *Adapter) AuthParams() url.Values {
	return url.Values{"prompt": {"select_account"}}
}

// Normalize mapea id, name, email y picture del endpoint v2/userinfo.
func (a *Adapter) Normalize(raw map[string]any) (*types.UserInfo, error) {
	id, err := oauth.IDField(raw, "id")
	if err != nil {
		// v3/userinfo usa "sub"
		if id, err = oauth.IDField(raw, "sub"); err != nil {
			return nil, err
		}
	}
	return &types.UserInfo{
		ProviderID:        id,
		Name:              oauth.StringField(raw, "name"),
		Email:             oauth.StringField(raw, "email"),
		ProfilePictureURL: oauth.StringField(raw, "picture"),
		Provider:          types.ProviderGoogle,
	}, nil
}
