package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/service"
	"github.com/halvard/choreboard/pkg/entity"
	"github.com/halvard/choreboard/pkg/httputil"
)

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// householdScope pulls the caller and the household id out of the request.
// Writes the error response itself when either is missing.
func (s *Server) householdScope(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string) (*entity.User, uuid.UUID, bool) {
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error(op + " error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return nil, uuid.Nil, false
	}
	householdID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error(op + " error: invalid household id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid household id in path value", nil)
		return nil, uuid.Nil, false
	}
	return user, householdID, true
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "list categories")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	categories, err := s.categoriesService.List(ctx, user.ID, householdID)
	if err != nil {
		writeDomainError(w, logger, "list categories", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, categories)
	logger.Info("categories provided")
}

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "create category")
	if !ok {
		return
	}
	var req CreateCategoryRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create category error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	category, err := s.categoriesService.Create(ctx, user.ID, householdID, &service.CreateCategoryRequest{Name: req.Name})
	if err != nil {
		writeDomainError(w, logger, "create category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, category)
	logger.Info("category created")
}

func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "get category")
	if !ok {
		return
	}
	categoryID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		logger.Error("get category error: invalid category id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	category, err := s.categoriesService.Get(ctx, user.ID, householdID, categoryID)
	if err != nil {
		writeDomainError(w, logger, "get category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, category)
}

func (s *Server) RenameCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "rename category")
	if !ok {
		return
	}
	categoryID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		logger.Error("rename category error: invalid category id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category id in path value", nil)
		return
	}
	var req CreateCategoryRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("rename category error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	category, err := s.categoriesService.Rename(ctx, user.ID, householdID, categoryID, &service.CreateCategoryRequest{Name: req.Name})
	if err != nil {
		writeDomainError(w, logger, "rename category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, category)
	logger.Info("category renamed")
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, householdID, ok := s.householdScope(w, r, logger, "delete category")
	if !ok {
		return
	}
	categoryID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		logger.Error("delete category error: invalid category id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err = s.categoriesService.Delete(ctx, user.ID, householdID, categoryID); err != nil {
		writeDomainError(w, logger, "delete category", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("category deleted")
}
