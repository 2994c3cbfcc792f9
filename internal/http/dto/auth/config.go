package auth

// ProviderLoginConfig describe cómo iniciar el login con un proveedor.
type ProviderLoginConfig struct {
	Provider        string `json:"provider"`
	ClientID        string `json:"client_id"`
	AuthMetaURL     string `json:"auth_meta_url"`
	AuthScope       string `json:"auth_scope"`
	AuthRedirectURI string `json:"auth_redirect_uri"`
	AuthorizeURL    string `json:"authorize_url"`
	TokenExchange   string `json:"token_exchange"`
	State           string `json:"state,omitempty"`
}

// LoginConfigResponse es la respuesta de GET /login.
type LoginConfigResponse struct {
	Providers []ProviderLoginConfig `json:"providers"`
}
