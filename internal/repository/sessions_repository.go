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

type SessionsRepository struct {
	conn PgConnection
}

func NewSessionsRepo(conn PgConnection) *SessionsRepository {
	if conn == nil {
		log.Fatal("provided nil connection for sessionsRepo")
	}
	return &SessionsRepository{
		conn: conn,
	}
}

func (sr *SessionsRepository) Create(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	_, err := sr.conn.Exec(ctx, `INSERT INTO sessions (jti, user_id, expires_at) VALUES ($1, $2, $3);`,
		session.JTI, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return errors.New("creating session db error: " + err.Error())
	}
	return nil
}

func (sr *SessionsRepository) Get(ctx context.Context, jti uuid.UUID) (*entity.Session, error) {
	var session entity.Session
	row := sr.conn.QueryRow(ctx, `SELECT jti, user_id, expires_at, revoked_at FROM sessions WHERE jti = $1;`, jti)
	if err := row.Scan(&session.JTI, &session.UserID, &session.ExpiresAt, &session.RevokedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrSessionNotFound
		}
		return nil, errors.New("searching session error: " + err.Error())
	}
	return &session, nil
}

func (sr *SessionsRepository) Revoke(ctx context.Context, jti uuid.UUID) error {
	ct, err := sr.conn.Exec(ctx, `UPDATE sessions SET revoked_at = NOW() WHERE jti = $1 AND revoked_at IS NULL;`, jti)
	if err != nil {
		return errors.New("revoking session error: " + err.Error())
	}
	// Already revoked counts as success: logout is idempotent
	_ = ct
	return nil
}
