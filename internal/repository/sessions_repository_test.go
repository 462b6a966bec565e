package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateSession(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewSessionsRepo(conn)
	session := entity.Session{
		JTI:       uuid.New(),
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	query := regexp.QuoteMeta(`INSERT INTO sessions (jti, user_id, expires_at) VALUES ($1, $2, $3);`)

	t.Run("created", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(session.JTI, session.UserID, session.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		assert.NoError(t, repo.Create(ctx, &session))
	})
	t.Run("nil session", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, nil))
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(session.JTI, session.UserID, session.ExpiresAt).
			WillReturnError(errors.New("db error"))
		assert.Error(t, repo.Create(ctx, &session))
	})
}

func TestGetSession(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewSessionsRepo(conn)
	jti := uuid.New()
	userID := uuid.New()
	expires := time.Now().Add(time.Hour)
	query := regexp.QuoteMeta(`SELECT jti, user_id, expires_at, revoked_at FROM sessions WHERE jti = $1;`)

	t.Run("live session", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(jti).
			WillReturnRows(pgxmock.NewRows([]string{"jti", "user_id", "expires_at", "revoked_at"}).
				AddRow(jti, userID, expires, (*time.Time)(nil)))
		session, err := repo.Get(ctx, jti)
		assert.NoError(t, err)
		assert.Equal(t, jti, session.JTI)
		assert.Nil(t, session.RevokedAt)
	})
	t.Run("revoked session", func(t *testing.T) {
		revokedAt := time.Now()
		conn.ExpectQuery(query).WithArgs(jti).
			WillReturnRows(pgxmock.NewRows([]string{"jti", "user_id", "expires_at", "revoked_at"}).
				AddRow(jti, userID, expires, &revokedAt))
		session, err := repo.Get(ctx, jti)
		assert.NoError(t, err)
		assert.NotNil(t, session.RevokedAt)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(jti).WillReturnError(pgx.ErrNoRows)
		_, err := repo.Get(ctx, jti)
		assert.ErrorIs(t, err, errorvalues.ErrSessionNotFound)
	})
}

func TestRevokeSession(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewSessionsRepo(conn)
	jti := uuid.New()
	query := regexp.QuoteMeta(`UPDATE sessions SET revoked_at = NOW() WHERE jti = $1 AND revoked_at IS NULL;`)

	t.Run("revoked", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(jti).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Revoke(ctx, jti))
	})
	t.Run("second revoke is a no-op", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(jti).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.NoError(t, repo.Revoke(ctx, jti))
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(jti).WillReturnError(errors.New("db error"))
		assert.Error(t, repo.Revoke(ctx, jti))
	})
}
