package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/pkg/entity"
	jwtservice "github.com/halvard/choreboard/pkg/jwt_service"
)

type AuthService struct {
	usersRepo    repository.UsersRepositoryI
	sessionsRepo repository.SessionsRepositoryI
	verifier     jwtservice.IdentityVerifier
	tokens       *jwtservice.JWTService
}

func NewAuthService(usersRepo repository.UsersRepositoryI, sessionsRepo repository.SessionsRepositoryI, verifier jwtservice.IdentityVerifier, tokens *jwtservice.JWTService) *AuthService {
	if usersRepo == nil || sessionsRepo == nil || verifier == nil || tokens == nil {
		log.Fatal("on auth service provided nil dependency")
	}
	return &AuthService{
		usersRepo:    usersRepo,
		sessionsRepo: sessionsRepo,
		verifier:     verifier,
		tokens:       tokens,
	}
}

func (as *AuthService) Login(ctx context.Context, idToken string) (*LoginResult, error) {
	claims, err := as.verifier.Verify(idToken)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidToken) {
			return nil, err
		}
		return nil, errors.New("identity verification error: " + err.Error())
	}
	user, err := as.usersRepo.UpsertByProviderUID(ctx, &entity.User{
		ProviderUID: claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	})
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	jti := uuid.New()
	err = as.sessionsRepo.Create(ctx, &entity.Session{
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(jwtservice.SessionTTL()),
	})
	if err != nil {
		return nil, errors.New("sessions repository error: " + err.Error())
	}
	token, err := as.tokens.GenerateSessionToken(user, jti)
	if err != nil {
		return nil, errors.New("generating session token error: " + err.Error())
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (as *AuthService) Logout(ctx context.Context, jti uuid.UUID) error {
	if err := as.sessionsRepo.Revoke(ctx, jti); err != nil {
		return errors.New("sessions repository error: " + err.Error())
	}
	return nil
}

func (as *AuthService) Authorize(ctx context.Context, token string) (*entity.User, uuid.UUID, error) {
	claims, err := as.tokens.ParseSessionToken(token)
	if err != nil {
		return nil, uuid.UUID{}, errorvalues.ErrInvalidToken
	}
	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, uuid.UUID{}, errorvalues.ErrInvalidToken
	}
	session, err := as.sessionsRepo.Get(ctx, jti)
	if err != nil {
		if errors.Is(err, errorvalues.ErrSessionNotFound) {
			return nil, uuid.UUID{}, errorvalues.ErrSessionRevoked
		}
		return nil, uuid.UUID{}, errors.New("sessions repository error: " + err.Error())
	}
	if session.RevokedAt != nil || session.ExpiresAt.Before(time.Now()) {
		return nil, uuid.UUID{}, errorvalues.ErrSessionRevoked
	}
	user, err := as.usersRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, uuid.UUID{}, errorvalues.ErrSessionRevoked
		}
		return nil, uuid.UUID{}, errors.New("users repository error: " + err.Error())
	}
	return user, jti, nil
}

func (as *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := as.usersRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	return user, nil
}
