package handlers

import (
	"encoding/json"
	"errors"
	"ev-trip-planner/internal/api/dto"
	"ev-trip-planner/internal/domain"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeServiceError maps domain failures onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var gap *domain.UnreachableGapError
	if errors.As(err, &gap) {
		at := gap.AtMiles
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   gap.Error(),
			AtMiles: &at,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidConfiguration):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrVehicleNotFound), errors.Is(err, domain.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRouteNotFound):
		writeError(w, r, http.StatusUnprocessableEntity, "no drivable route between the requested points")
	case errors.Is(err, domain.ErrProviderError):
		slog.WarnContext(r.Context(), "directions provider failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "directions provider unavailable")
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrCancelled):
		slog.WarnContext(r.Context(), "planning aborted", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "charging station data unavailable, try again")
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
