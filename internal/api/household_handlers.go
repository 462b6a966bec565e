package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/service"
	"github.com/halvard/choreboard/pkg/httputil"
)

type CreateHouseholdRequest struct {
	Name string `json:"name"`
}

type AddMemberRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("list households error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	households, err := s.householdsService.ListMine(ctx, user.ID)
	if err != nil {
		writeDomainError(w, logger, "list households", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, households)
	logger.Info("households provided")
}

func (s *Server) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("create household error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateHouseholdRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create household error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	household, err := s.householdsService.Create(ctx, user.ID, &service.CreateHouseholdRequest{Name: req.Name})
	if err != nil {
		writeDomainError(w, logger, "create household", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, household)
	logger.Info("household created")
}

func (s *Server) GetHousehold(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("get household error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("get household error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid household id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	household, err := s.householdsService.Get(ctx, user.ID, id)
	if err != nil {
		writeDomainError(w, logger, "get household", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, household)
}

func (s *Server) RenameHousehold(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("rename household error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("rename household error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid household id in path value", nil)
		return
	}
	var req CreateHouseholdRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("rename household error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	household, err := s.householdsService.Rename(ctx, user.ID, id, &service.CreateHouseholdRequest{Name: req.Name})
	if err != nil {
		writeDomainError(w, logger, "rename household", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, household)
	logger.Info("household renamed")
}

func (s *Server) AddHouseholdMember(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("add member error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("add member error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid household id in path value", nil)
		return
	}
	var req AddMemberRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("add member error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		logger.Error("add member error: invalid user id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	household, err := s.householdsService.AddMember(ctx, user.ID, id, memberID)
	if err != nil {
		writeDomainError(w, logger, "add member", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, household)
	logger.Info("household member added")
}
