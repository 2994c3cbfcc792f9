// Package github aporta el Adapter OAuth 2.0 de GitHub.
// GitHub no emite ID tokens: el perfil sale de la API REST y el email puede
// venir vacío si el usuario lo tiene privado.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	"github.com/Zim95/browseterm-server/internal/oauth"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

const (
	DefaultAuthURL     = "https://github.com/login/oauth/authorize"
	DefaultTokenURL    = "https://github.com/login/oauth/access_token"
	DefaultUserInfoURL = "https://api.github.com/user"
	DefaultEmailsURL   = "https://api.github.com/user/emails"
	DefaultScope       = "user:email user"
)

// Adapter implementa oauth.Adapter y oauth.Enricher para GitHub.
type Adapter struct {
	creds     oauth.Credentials
	emailsURL string
}

// New completa los endpoints vacíos con los de GitHub. emailsURL vacío
// usa DefaultEmailsURL; "-" desactiva el enriquecimiento.
func New(creds oauth.Credentials, emailsURL string) *Adapter {
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
	if emailsURL == "" {
		emailsURL = DefaultEmailsURL
	}
	return &Adapter{creds: creds, emailsURL: emailsURL}
}

func (a *Adapter) Provider() types.Provider       { return types.ProviderGitHub }
func (a *Adapter) Credentials() oauth.Credentials { return a.creds }

// Normalize mapea id (numérico en GitHub), name, email y avatar_url.
func (a *Adapter) Normalize(raw map[string]any) (*types.UserInfo, error) {
	id, err := oauth.IDField(raw, "id")
	if err != nil {
		return nil, err
	}
	return &types.UserInfo{
		ProviderID:        id,
		Name:              oauth.StringField(raw, "name"),
		Email:             oauth.StringField(raw, "email"),
		ProfilePictureURL: oauth.StringField(raw, "avatar_url"),
		Provider:          types.ProviderGitHub,
	}, nil
}

type emailInfo struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Enrich completa el email desde /user/emails cuando /user no lo trae.
func (a *Adapter) Enrich(ctx context.Context, client *http.Client, accessToken string, info *types.UserInfo) {
	if info.Email != nil || a.emailsURL == "-" {
		return
	}
	log := logger.From(ctx).With(
		logger.Layer("client"),
		logger.Component("oauth.github"),
		logger.Op("Enrich"),
	)

	email, err := a.primaryEmail(ctx, client, accessToken)
	if err != nil {
		log.Debug("could not resolve github email", logger.Err(err))
		return
	}
	info.Email = types.OptionalString(email)
}

func (a *Adapter) primaryEmail(ctx context.Context, client *http.Client, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.emailsURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api error: status %d", resp.StatusCode)
	}

	var emails []emailInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&emails); err != nil {
		return "", err
	}
	return pickEmail(emails), nil
}

// pickEmail: primario y verificado, si no cualquier verificado, si no el primero.
func pickEmail(emails []emailInfo) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}
