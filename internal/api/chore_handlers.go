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

type CreateChoreRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CategoryID  *uuid.UUID  `json:"categoryId"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Points      int         `json:"points"`
}

type UpdateChoreRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	CategoryID  *uuid.UUID  `json:"categoryId"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Points      *int        `json:"points"`
}

func (s *Server) ListChores(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "list chores")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	chores, err := s.choresService.List(ctx, user.ID, householdID)
	if err != nil {
		writeDomainError(w, logger, "list chores", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, chores)
	logger.Info("chores provided")
}

func (s *Server) CreateChore(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "create chore")
	if !ok {
		return
	}
	var req CreateChoreRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create chore error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	chore, err := s.choresService.Create(ctx, user.ID, householdID, &service.CreateChoreRequest{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AssignedTo:  req.AssignedTo,
		Points:      req.Points,
	})
	if err != nil {
		writeDomainError(w, logger, "create chore", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, chore)
	logger.Info("chore created")
}

func (s *Server) GetChore(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "get chore")
	if !ok {
		return
	}
	choreID, err := uuid.Parse(chi.URLParam(r, "chid"))
	if err != nil {
		logger.Error("get chore error: invalid chore id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid chore id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	chore, err := s.choresService.Get(ctx, user.ID, householdID, choreID)
	if err != nil {
		writeDomainError(w, logger, "get chore", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, chore)
}

func (s *Server) UpdateChore(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "update chore")
	if !ok {
		return
	}
	choreID, err := uuid.Parse(chi.URLParam(r, "chid"))
	if err != nil {
		logger.Error("update chore error: invalid chore id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid chore id in path value", nil)
		return
	}
	var req UpdateChoreRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("update chore error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	chore, err := s.choresService.Update(ctx, user.ID, householdID, choreID, &service.UpdateChoreRequest{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AssignedTo:  req.AssignedTo,
		Points:      req.Points,
	})
	if err != nil {
		writeDomainError(w, logger, "update chore", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, chore)
	logger.Info("chore updated")
}

func (s *Server) DeleteChore(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "delete chore")
	if !ok {
		return
	}
	choreID, err := uuid.Parse(chi.URLParam(r, "chid"))
	if err != nil {
		logger.Error("delete chore error: invalid chore id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid chore id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err = s.choresService.Delete(ctx, user.ID, householdID, choreID); err != nil {
		writeDomainError(w, logger, "delete chore", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("chore deleted")
}
