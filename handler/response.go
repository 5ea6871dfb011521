package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ex9/authservice/pkg/auth"
	"github.com/ex9/authservice/pkg/logger"
	"github.com/ex9/authservice/pkg/validator"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

func writeValidationError(w http.ResponseWriter, err error) {
	var errs validator.Errors
	if !errors.As(err, &errs) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	writeJSON(w, http.StatusBadRequest, validationResponse{
		Error:  "validation failed",
		Fields: errs.Fields(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the domain error taxonomy onto HTTP status classes.
// Unexpected failures are logged and collapsed into a generic 500 so
// internals never leak to clients.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidState),
		errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrNoProviderEmail),
		errors.Is(err, auth.ErrProviderEmailUnverified):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrRoleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrAccountExists), errors.Is(err, auth.ErrAccountConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
			logger.Component("handler"),
		)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
