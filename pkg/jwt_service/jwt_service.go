package jwtservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
)

var (
	sessionTTL = 24 * time.Hour
)

// SessionClaims are minted by this service after a successful identity
// exchange. The JTI names a server-side session row so logout can revoke it.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// IdentityClaims are carried by the identity provider's idToken.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// IdentityVerifier checks a third-party idToken and returns its claims.
// Pluggable so tests and alternative providers can substitute their own.
type IdentityVerifier interface {
	Verify(idToken string) (*IdentityClaims, error)
}

type JWTService struct {
	secret []byte
	issuer string
}

func New(secret, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (s *JWTService) GenerateSessionToken(user *entity.User, jti uuid.UUID) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.New("token parsing error: " + err.Error())
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errorvalues.ErrInvalidToken
	}
	return claims, nil
}

// SessionTTL reports how long minted session tokens stay valid.
func SessionTTL() time.Duration {
	return sessionTTL
}

// HSIdentityVerifier validates idTokens signed with a shared HS256 secret.
// Provider-specific key discovery is deliberately out of scope; deployments
// that need it wrap their own IdentityVerifier.
type HSIdentityVerifier struct {
	secret []byte
}

func NewHSIdentityVerifier(secret string) *HSIdentityVerifier {
	return &HSIdentityVerifier{secret: []byte(secret)}
}

func (v *HSIdentityVerifier) Verify(idToken string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(idToken, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, errorvalues.ErrInvalidToken
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errorvalues.ErrInvalidToken
	}
	return claims, nil
}
