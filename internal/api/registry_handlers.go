package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/points"
	"github.com/halvard/choreboard/internal/service"
	"github.com/halvard/choreboard/pkg/httputil"
)

type RegisterChoreRequest struct {
	ChoreID uuid.UUID `json:"choreId"`
	UserID  uuid.UUID `json:"userId"`
	Times   int       `json:"times"`
}

type RegisterBatchRequest struct {
	Chores []RegisterChoreRequest `json:"chores"`
}

// parseListRegistryQuery reads the filter, userId and limit query params.
func parseListRegistryQuery(r *http.Request) (*service.ListRegistryRequest, error) {
	filter, err := points.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		return nil, err
	}
	req := &service.ListRegistryRequest{Filter: filter}
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		req.UserID = &id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, strconv.ErrSyntax
		}
		req.Limit = limit
	}
	return req, nil
}

func (s *Server) ListRegistry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "list registry")
	if !ok {
		return
	}
	req, err := parseListRegistryQuery(r)
	if err != nil {
		logger.Error("list registry error: invalid query: " + err.Error())
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	entries, err := s.registryService.List(ctx, user.ID, householdID, req)
	if err != nil {
		writeDomainError(w, logger, "list registry", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entries)
	logger.Info("registry entries provided")
}

func (s *Server) CreateRegistryEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "register chore")
	if !ok {
		return
	}
	var req RegisterChoreRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("register chore error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	entry, err := s.registryService.Create(ctx, user.ID, householdID, &service.RegisterChoreRequest{
		ChoreID: req.ChoreID,
		UserID:  req.UserID,
		Times:   req.Times,
	})
	if err != nil {
		writeDomainError(w, logger, "register chore", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entry)
	logger.Info("chore registered")
}

func (s *Server) CreateRegistryBatch(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "register chore batch")
	if !ok {
		return
	}
	var req RegisterBatchRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("register chore batch error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	reqs := make([]*service.RegisterChoreRequest, 0, len(req.Chores))
	for _, c := range req.Chores {
		reqs = append(reqs, &service.RegisterChoreRequest{
			ChoreID: c.ChoreID,
			UserID:  c.UserID,
			Times:   c.Times,
		})
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	entries, err := s.registryService.CreateBatch(ctx, user.ID, householdID, reqs)
	if err != nil {
		writeDomainError(w, logger, "register chore batch", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entries)
	logger.Info("chore batch registered")
}

func (s *Server) Leaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "leaderboard")
	if !ok {
		return
	}
	req, err := parseListRegistryQuery(r)
	if err != nil {
		logger.Error("leaderboard error: invalid query: " + err.Error())
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	board, err := s.registryService.Leaderboard(ctx, user.ID, householdID, req)
	if err != nil {
		writeDomainError(w, logger, "leaderboard", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, board)
	logger.Info("leaderboard provided")
}
