package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/httputil"
)

// writeDomainError maps service errors onto wire statuses. Not-found covers
// both genuinely missing resources and resources hidden from non-members.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrValidation):
		logger.Error(op + " error: validation failed")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, errorvalues.ErrBadDateFilter):
		logger.Error(op + " error: unknown date filter")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown date filter", nil)
	case errors.Is(err, errorvalues.ErrHouseholdNotFound):
		logger.Error(op + " error: household not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "household doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrCategoryNotFound):
		logger.Error(op + " error: category not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "category doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrChoreNotFound):
		logger.Error(op + " error: chore not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "chore doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrUserNotFound):
		logger.Error(op + " error: user not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrEntryNotFound):
		logger.Error(op + " error: registry entry not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "registry entry doesn't exist", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
