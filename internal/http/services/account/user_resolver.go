package account

import (
	"context"
	"fmt"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/domain/types"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// UserResolver crea o actualiza la cuenta local a partir del perfil OAuth.
type UserResolver struct {
	users repository.UserRepository
}

func NewUserResolver(users repository.UserRepository) *UserResolver {
	return &UserResolver{users: users}
}

// CreateOrUpdateUser busca por (provider, provider_id). Si existe, reemplaza
// nombre/email/foto y relee; si no, inserta. Llamarlo dos veces con el mismo
// perfil deja una sola fila.
func (r *UserResolver) CreateOrUpdateUser(ctx context.Context, info types.UserInfo) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("account.users"),
		logger.Op("CreateOrUpdateUser"),
		logger.Provider(info.Provider.String()),
	)

	existing, err := r.users.FindByProvider(ctx, info.Provider, info.ProviderID)
	switch {
	case err == nil:
		if err := r.users.UpdateProfile(ctx, existing.ID, info); err != nil {
			return nil, fmt.Errorf("account: update user %d: %w", existing.ID, err)
		}
		u, err := r.users.FindByProvider(ctx, info.Provider, info.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("account: reload user %d: %w", existing.ID, err)
		}
		log.Debug("user updated", logger.UserID(u.ID))
		return u, nil

	case repository.IsNotFound(err):
		// Insert es upsert: si otro login creó la fila en paralelo, converge.
		u, err := r.users.Insert(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("account: insert user: %w", err)
		}
		log.Info("user created", logger.UserID(u.ID))
		return u, nil

	default:
		return nil, fmt.Errorf("account: find user: %w", err)
	}
}
