package oauth_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	"github.com/Zim95/browseterm-server/internal/oauth"
	"github.com/Zim95/browseterm-server/internal/oauth/github"
	"github.com/Zim95/browseterm-server/internal/oauth/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider simula los endpoints de token, perfil y emails.
type fakeProvider struct {
	tokenStatus int
	tokenBody   string
	userStatus  int
	userBody    string
	emailsBody  string

	lastForm   url.Values
	lastHeader http.Header
	lastAuth   string
}

func (f *fakeProvider) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.lastForm = r.PostForm
		f.lastHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		_, _ = io.WriteString(w, f.tokenBody)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		w.WriteHeader(f.userStatus)
		_, _ = io.WriteString(w, f.userBody)
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, f.emailsBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func creds(base string) oauth.Credentials {
	return oauth.Credentials{
		ClientID:       "cid",
		ClientSecret:   "secret",
		RedirectURI:    "http://localhost:9999/github-login-redirect",
		AccessTokenURL: base + "/token",
		UserInfoURL:    base + "/user",
		TokenExchangeHeaders: map[string]string{
			"Accept": "application/json",
		},
	}
}

func TestFetchUserInfo_GitHubNumericID(t *testing.T) {
	fp := &fakeProvider{
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"gho_abc","token_type":"bearer"}`,
		userStatus:  http.StatusOK,
		userBody:    `{"id":123456,"login":"ada","name":"Ada","email":null,"avatar_url":"https://avatars/1"}`,
	}
	srv := fp.server(t)

	svc := oauth.NewUserInfoService(github.New(creds(srv.URL), "-"), srv.Client())
	info, err := svc.FetchUserInfo(context.Background(), "the-code")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "123456", info.ProviderID)
	assert.Equal(t, types.ProviderGitHub, info.Provider)
	assert.Equal(t, "Ada", *info.Name)
	assert.Nil(t, info.Email)
	assert.Equal(t, "https://avatars/1", *info.ProfilePictureURL)

	assert.Equal(t, "authorization_code", fp.lastForm.Get("grant_type"))
	assert.Equal(t, "the-code", fp.lastForm.Get("code"))
	assert.Equal(t, "cid", fp.lastForm.Get("client_id"))
	assert.Equal(t, "secret", fp.lastForm.Get("client_secret"))
	assert.Equal(t, "http://localhost:9999/github-login-redirect", fp.lastForm.Get("redirect_uri"))
	assert.Equal(t, "application/json", fp.lastHeader.Get("Accept"))
	assert.Equal(t, "Bearer gho_abc", fp.lastAuth)
}

func TestFetchUserInfo_GitHubEmailEnrichment(t *testing.T) {
	fp := &fakeProvider{
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"gho_abc"}`,
		userStatus:  http.StatusOK,
		userBody:    `{"id":1,"email":""}`,
		emailsBody: `[{"email":"old@x.io","primary":false,"verified":true},
		              {"email":"ada@x.io","primary":true,"verified":true}]`,
	}
	srv := fp.server(t)

	svc := oauth.NewUserInfoService(github.New(creds(srv.URL), srv.URL+"/user/emails"), srv.Client())
	info, err := svc.FetchUserInfo(context.Background(), "c")
	require.NoError(t, err)
	require.NotNil(t, info.Email)
	assert.Equal(t, "ada@x.io", *info.Email)
	assert.Nil(t, info.Name)
}

func TestFetchUserInfo_Google(t *testing.T) {
	fp := &fakeProvider{
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"ya29","expires_in":3599,"refresh_token":"r"}`,
		userStatus:  http.StatusOK,
		userBody:    `{"id":"109876","name":"","email":"ada@gmail.com","picture":"https://lh3/p.jpg"}`,
	}
	srv := fp.server(t)

	svc := oauth.NewUserInfoService(google.New(creds(srv.URL)), srv.Client())
	info, err := svc.FetchUserInfo(context.Background(), "c")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "109876", info.ProviderID)
	assert.Equal(t, types.ProviderGoogle, info.Provider)
	assert.Nil(t, info.Name, "empty name normalizes to nil")
	assert.Equal(t, "ada@gmail.com", *info.Email)
	assert.Equal(t, "https://lh3/p.jpg", *info.ProfilePictureURL)
}

func TestFetchUserInfo_SoftFailures(t *testing.T) {
	tests := []struct {
		name string
		fp   fakeProvider
	}{
		{"token endpoint non-200", fakeProvider{tokenStatus: http.StatusBadRequest, tokenBody: `{"error":"invalid_grant"}`}},
		{"token without access_token", fakeProvider{tokenStatus: http.StatusOK, tokenBody: `{"error":"bad_verification_code"}`}},
		{"user info non-200", fakeProvider{
			tokenStatus: http.StatusOK, tokenBody: `{"access_token":"t"}`,
			userStatus: http.StatusUnauthorized, userBody: `{"message":"Bad credentials"}`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := tt.fp
			srv := fp.server(t)
			svc := oauth.NewUserInfoService(github.New(creds(srv.URL), "-"), srv.Client())

			info, err := svc.FetchUserInfo(context.Background(), "c")
			assert.NoError(t, err)
			assert.Nil(t, info)
		})
	}
}

func TestExchange_RejectionWithTruncatedBodyIsSoft(t *testing.T) {
	// 401 que anuncia más bytes de los que envía y corta la conexión
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 401 Unauthorized\r\nContent-Type: application/json\r\nContent-Length: 500\r\n\r\n{\"error\":")
		_ = buf.Flush()
	}))
	defer srv.Close()

	c := creds(srv.URL)
	res, err := oauth.NewTokenExchanger(srv.Client()).Exchange(context.Background(), c, "code")
	assert.NoError(t, err)
	assert.Nil(t, res)

	svc := oauth.NewUserInfoService(github.New(c, "-"), srv.Client())
	info, err := svc.FetchUserInfo(context.Background(), "code")
	assert.NoError(t, err)
	assert.Nil(t, info)
}

func TestFetchUserInfo_Faults(t *testing.T) {
	t.Run("malformed token json", func(t *testing.T) {
		fp := &fakeProvider{tokenStatus: http.StatusOK, tokenBody: `{"access_token":`}
		srv := fp.server(t)
		svc := oauth.NewUserInfoService(github.New(creds(srv.URL), "-"), srv.Client())
		_, err := svc.FetchUserInfo(context.Background(), "c")
		assert.Error(t, err)
	})

	t.Run("malformed profile json", func(t *testing.T) {
		fp := &fakeProvider{
			tokenStatus: http.StatusOK, tokenBody: `{"access_token":"t"}`,
			userStatus: http.StatusOK, userBody: `<html>`,
		}
		srv := fp.server(t)
		svc := oauth.NewUserInfoService(github.New(creds(srv.URL), "-"), srv.Client())
		_, err := svc.FetchUserInfo(context.Background(), "c")
		assert.Error(t, err)
	})

	t.Run("profile without id", func(t *testing.T) {
		fp := &fakeProvider{
			tokenStatus: http.StatusOK, tokenBody: `{"access_token":"t"}`,
			userStatus: http.StatusOK, userBody: `{"name":"x"}`,
		}
		srv := fp.server(t)
		svc := oauth.NewUserInfoService(github.New(creds(srv.URL), "-"), srv.Client())
		_, err := svc.FetchUserInfo(context.Background(), "c")
		assert.Error(t, err)
	})

	t.Run("transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()
		svc := oauth.NewUserInfoService(github.New(creds(base), "-"), nil)
		_, err := svc.FetchUserInfo(context.Background(), "c")
		assert.Error(t, err)
	})

	t.Run("missing client secret", func(t *testing.T) {
		c := creds("http://unused")
		c.ClientSecret = ""
		svc := oauth.NewUserInfoService(github.New(c, "-"), nil)
		_, err := svc.FetchUserInfo(context.Background(), "c")
		assert.ErrorIs(t, err, oauth.ErrMissingConfig)
	})
}

func TestRegistry(t *testing.T) {
	gh := oauth.NewUserInfoService(github.New(oauth.Credentials{}, "-"), nil)
	gg := oauth.NewUserInfoService(google.New(oauth.Credentials{}), nil)
	r := oauth.NewRegistry(gh, gg)

	got, ok := r.Get(types.ProviderGitHub)
	require.True(t, ok)
	assert.Same(t, gh, got)

	_, ok = r.Get(types.Provider("gitlab"))
	assert.False(t, ok)

	assert.Equal(t, []types.Provider{types.ProviderGoogle, types.ProviderGitHub}, r.Providers())
	assert.Equal(t, google.DefaultTokenURL, gg.Credentials().AccessTokenURL)
}
