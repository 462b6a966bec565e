package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
	"github.com/halvard/choreboard/pkg/httputil"
)

type contextKey string

var (
	requestIDContextKey = contextKey("Request-ID")
	loggerContextKey    = contextKey("Logger")
	userContextKey      = contextKey("User")
	jtiContextKey       = contextKey("Session-JTI")
)

func (s *Server) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New()
		ctx := context.WithValue(r.Context(), requestIDContextKey, reqID.String())
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) SettingUpLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default()
		reqID, ok := r.Context().Value(requestIDContextKey).(string)
		if ok && reqID != "" {
			logger = logger.With(slog.String("request_id", reqID))
		}
		logger = logger.With(slog.String("from", r.RemoteAddr))
		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware resolves the bearer token to a live session. Expired,
// revoked and malformed tokens all answer 401 so the client treats them
// uniformly as session expiry.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		tokenString, err := GetTokenFromHeader(r)
		if err != nil {
			logger.Error("auth failed: missing bearer token")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: invalid token", nil)
			return
		}
		user, jti, err := s.authService.Authorize(r.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, errorvalues.ErrInvalidToken), errors.Is(err, errorvalues.ErrSessionRevoked):
				logger.Error("auth failed: dead or invalid session")
				httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: session expired", nil)
				return
			default:
				logger.Error("auth failed: internal error", slog.String("error", err.Error()))
				httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during authorization", nil)
				return
			}
		}
		logger = logger.With(slog.String("uid", user.ID.String()))
		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		ctx = context.WithValue(ctx, userContextKey, user)
		ctx = context.WithValue(ctx, jtiContextKey, jti)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey).(*slog.Logger)
	if ok {
		return logger
	}
	return slog.Default()
}

func GetTokenFromHeader(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", errorvalues.ErrInvalidToken
	}
	parts := strings.Split(token, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errorvalues.ErrInvalidToken
	}
	return parts[1], nil
}

func GetUserFromContext(r *http.Request) (*entity.User, error) {
	user, ok := r.Context().Value(userContextKey).(*entity.User)
	if !ok || user == nil {
		return nil, errors.New("user invalid or doesn't exist in context")
	}
	return user, nil
}

func GetJTIFromContext(r *http.Request) (uuid.UUID, error) {
	jti, ok := r.Context().Value(jtiContextKey).(uuid.UUID)
	if !ok {
		return uuid.UUID{}, errors.New("session jti doesn't exist in context")
	}
	return jti, nil
}
