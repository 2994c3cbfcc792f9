package repository

import (
	"context"
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/types"
)

// User es la cuenta local de un usuario. Única por (Provider, ProviderID).
// Se serializa dentro del payload de sesión como "user_info".
type User struct {
	ID                int64          `json:"id"`
	ProviderID        string         `json:"provider_id"`
	Name              *string        `json:"name"`
	Email             *string        `json:"email"`
	ProfilePictureURL *string        `json:"profile_picture_url"`
	Provider          types.Provider `json:"provider"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// UserRepository persiste usuarios.
type UserRepository interface {
	// FindByProvider busca por (provider, provider_id). ErrNotFound si no existe.
	FindByProvider(ctx context.Context, provider types.Provider, providerID string) (*User, error)

	// Insert crea el usuario. Si (provider, provider_id) ya existe, actualiza
	// nombre/email/foto y devuelve la fila existente.
	Insert(ctx context.Context, info types.UserInfo) (*User, error)

	// UpdateProfile reemplaza nombre/email/foto del usuario. ErrNotFound si no existe.
	UpdateProfile(ctx context.Context, id int64, info types.UserInfo) error
}
