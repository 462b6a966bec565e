package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
)

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	if conn == nil {
		log.Fatal("provided nil connection for usersRepo")
	}
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) UpsertByProviderUID(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	var saved entity.User
	row := ur.conn.QueryRow(ctx, `INSERT INTO users (provider_uid, email, display_name, photo_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider_uid) DO UPDATE
		SET email = EXCLUDED.email, display_name = EXCLUDED.display_name, photo_url = EXCLUDED.photo_url, updated_at = NOW()
		RETURNING id, provider_uid, email, display_name, photo_url, created_at, updated_at;`,
		user.ProviderUID, user.Email, user.DisplayName, user.PhotoURL,
	)
	if err := row.Scan(&saved.ID, &saved.ProviderUID, &saved.Email, &saved.DisplayName, &saved.PhotoURL, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, errors.New("upserting user db error: " + err.Error())
	}
	return &saved, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, provider_uid, email, display_name, photo_url, created_at, updated_at FROM users WHERE id = $1;`, uid)
	if err := row.Scan(&user.ID, &user.ProviderUID, &user.Email, &user.DisplayName, &user.PhotoURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by id error: " + err.Error())
	}
	return &user, nil
}

func (ur *UsersRepository) FindByProviderUID(ctx context.Context, providerUID string) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, provider_uid, email, display_name, photo_url, created_at, updated_at FROM users WHERE provider_uid = $1;`, providerUID)
	if err := row.Scan(&user.ID, &user.ProviderUID, &user.Email, &user.DisplayName, &user.PhotoURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by provider uid error: " + err.Error())
	}
	return &user, nil
}
