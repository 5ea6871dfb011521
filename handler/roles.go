package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ex9/authservice/pkg/auth"
)

type userRolesRequest struct {
	UserLogin string   `json:"userLogin"`
	Roles     []string `json:"roles"`
}

type userRolesResponse struct {
	UserLogin string   `json:"userLogin"`
	Roles     []string `json:"roles"`
}

func (h *handlers) getRoles(w http.ResponseWriter, r *http.Request) {
	// An absent principal authorizes as the zero value and is denied.
	principal, _ := auth.PrincipalFromContext(r.Context())

	result, err := h.roles.GetRoles(r.Context(), principal, chi.URLParam(r, "login"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userRolesResponse{UserLogin: result.Login, Roles: result.Roles})
}

func (h *handlers) setRoles(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req userRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.roles.SetRoles(r.Context(), principal, req.UserLogin, req.Roles); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
