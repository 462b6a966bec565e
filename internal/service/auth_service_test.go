package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/service"
	jwtservice "github.com/halvard/choreboard/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
)

const (
	identitySecret = "identity-test-secret"
	sessionSecret  = "session-test-secret"
)

func signIdentityToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": testMember.Email,
		"name":  testMember.DisplayName,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(identitySecret))
	assert.NoError(t, err)
	return signed
}

func newAuthFixture() (*service.AuthService, *sessionsRepoMock) {
	sessions := newSessionsRepoMock()
	s := service.NewAuthService(
		&usersRepoMock{},
		sessions,
		jwtservice.NewHSIdentityVerifier(identitySecret),
		jwtservice.New(sessionSecret, "choreboard-test"),
	)
	return s, sessions
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		s, sessions := newAuthFixture()
		result, err := s.Login(ctx, signIdentityToken(t, testMember.ProviderUID))
		assert.NoError(t, err)
		assert.Equal(t, testMember.ID, result.User.ID)
		assert.NotEmpty(t, result.Token)
		assert.Len(t, sessions.sessions, 1)
	})
	t.Run("garbage token", func(t *testing.T) {
		s, _ := newAuthFixture()
		_, err := s.Login(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
	t.Run("wrong signing key", func(t *testing.T) {
		s, _ := newAuthFixture()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "someone"})
		signed, err := token.SignedString([]byte("other-secret"))
		assert.NoError(t, err)
		_, err = s.Login(ctx, signed)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
	t.Run("missing subject", func(t *testing.T) {
		s, _ := newAuthFixture()
		_, err := s.Login(ctx, signIdentityToken(t, ""))
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	t.Run("round trip", func(t *testing.T) {
		s, _ := newAuthFixture()
		result, err := s.Login(ctx, signIdentityToken(t, testMember.ProviderUID))
		assert.NoError(t, err)
		user, jti, err := s.Authorize(ctx, result.Token)
		assert.NoError(t, err)
		assert.Equal(t, testMember.ID, user.ID)
		assert.NotEqual(t, jti.String(), "00000000-0000-0000-0000-000000000000")
	})
	t.Run("invalid token", func(t *testing.T) {
		s, _ := newAuthFixture()
		_, _, err := s.Authorize(ctx, "garbage")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
	t.Run("revoked after logout", func(t *testing.T) {
		s, _ := newAuthFixture()
		result, err := s.Login(ctx, signIdentityToken(t, testMember.ProviderUID))
		assert.NoError(t, err)
		_, jti, err := s.Authorize(ctx, result.Token)
		assert.NoError(t, err)
		assert.NoError(t, s.Logout(ctx, jti))
		_, _, err = s.Authorize(ctx, result.Token)
		assert.ErrorIs(t, err, errorvalues.ErrSessionRevoked)
	})
	t.Run("expired session row", func(t *testing.T) {
		s, sessions := newAuthFixture()
		result, err := s.Login(ctx, signIdentityToken(t, testMember.ProviderUID))
		assert.NoError(t, err)
		for _, row := range sessions.sessions {
			row.ExpiresAt = time.Now().Add(-time.Minute)
		}
		_, _, err = s.Authorize(ctx, result.Token)
		assert.ErrorIs(t, err, errorvalues.ErrSessionRevoked)
	})
	t.Run("unknown session", func(t *testing.T) {
		s, sessions := newAuthFixture()
		result, err := s.Login(ctx, signIdentityToken(t, testMember.ProviderUID))
		assert.NoError(t, err)
		for jti := range sessions.sessions {
			delete(sessions.sessions, jti)
		}
		_, _, err = s.Authorize(ctx, result.Token)
		assert.ErrorIs(t, err, errorvalues.ErrSessionRevoked)
	})
}
