package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
	"github.com/halvard/choreboard/pkg/httputil"
)

type LoginRequest struct {
	IDToken string `json:"idToken"`
}

type AuthResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Token       string `json:"token,omitempty"`
}

func authResponseFor(user *entity.User, token string) AuthResponse {
	return AuthResponse{
		UID:         user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Token:       token,
	}
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.IDToken == "" {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	result, err := s.authService.Login(ctx, req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidToken):
			logger.Error("login error: bad identity token")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "identity token rejected", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, authResponseFor(result.User, result.Token))
	logger.Info("successful login")
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	jti, err := GetJTIFromContext(r)
	if err != nil {
		logger.Error("logout error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err = s.authService.Logout(ctx, jti); err != nil {
		logger.Error("logout error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during logout", nil)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("successful logout")
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("me error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, authResponseFor(user, ""))
}
