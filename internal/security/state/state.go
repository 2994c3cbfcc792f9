// Package state firma y valida el parámetro "state" del flujo OAuth como un
// JWT HS256 de vida corta. La clave se deriva del secreto configurado con
// HKDF-SHA256 para no usar el secreto crudo como clave HMAC.
package state

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	// Audience esperado en los state tokens.
	Audience = "oauth-state"
	// DefaultTTL es la vida de un state token.
	DefaultTTL = 10 * time.Minute

	hkdfInfo = "browseterm/oauth-state/v1"
)

var (
	ErrInvalid  = errors.New("state: invalid token")
	ErrExpired  = errors.New("state: token expired")
	ErrProvider = errors.New("state: provider mismatch")
	ErrNoSecret = errors.New("state: secret must be at least 32 bytes")
)

// Claims del state token.
type Claims struct {
	Provider string `json:"provider"`
	Nonce    string `json:"nonce"`
	jwtv5.RegisteredClaims
}

// Signer emite y valida state tokens.
type Signer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner deriva la clave HMAC desde secret.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) < 32 {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("state: derive key: %w", err)
	}
	return &Signer{key: key, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Sign emite un state para el proveedor con un nonce aleatorio.
func (s *Signer) Sign(provider string) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Provider: provider,
		Nonce:    uuid.NewString(),
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwtv5.ClaimStrings{Audience},
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify valida firma, issuer, audience, expiración y proveedor.
func (s *Signer) Verify(token, provider string) (*Claims, error) {
	var claims Claims
	_, err := jwtv5.ParseWithClaims(token, &claims,
		func(*jwtv5.Token) (any, error) { return s.key, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithAudience(Audience),
		jwtv5.WithIssuer(s.issuer),
		jwtv5.WithLeeway(30*time.Second),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if claims.Provider != provider {
		return nil, ErrProvider
	}
	return &claims, nil
}
