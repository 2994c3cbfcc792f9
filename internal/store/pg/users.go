package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/domain/types"
)

type userRepo struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*userRepo)(nil)

const userColumns = `id, provider, provider_id, name, email, profile_picture_url, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	var provider string
	if err := row.Scan(&u.ID, &provider, &u.ProviderID, &u.Name, &u.Email, &u.ProfilePictureURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Provider = types.Provider(provider)
	return &u, nil
}

func (r *userRepo) FindByProvider(ctx context.Context, provider types.Provider, providerID string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`
	return scanUser(r.pool.QueryRow(ctx, query, string(provider), providerID))
}

// Insert es un upsert sobre (provider, provider_id): dos primeros logins
// concurrentes terminan en la misma fila.
func (r *userRepo) Insert(ctx context.Context, info types.UserInfo) (*repository.User, error) {
	const query = `
		INSERT INTO users (provider, provider_id, name, email, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_id) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    profile_picture_url = EXCLUDED.profile_picture_url,
		    updated_at = NOW()
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query,
		string(info.Provider), info.ProviderID, info.Name, info.Email, info.ProfilePictureURL,
	))
}

func (r *userRepo) UpdateProfile(ctx context.Context, id int64, info types.UserInfo) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, profile_picture_url = $4, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, info.Name, info.Email, info.ProfilePictureURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
