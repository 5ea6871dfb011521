package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/ex9/authservice/pkg/validator"
)

type signUpRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type signInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// The password ceiling matches the bcrypt input limit.
	if err := validator.Apply(
		validator.Required("login", req.Login),
		validator.Login("login", req.Login),
		validator.MaxLen("login", req.Login, 64),
		validator.Required("password", req.Password),
		validator.MinLen("password", req.Password, 8),
		validator.MaxLen("password", req.Password, 72),
		validator.Required("email", req.Email),
		validator.Email("email", req.Email),
	); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.accounts.SignUp(r.Context(), req.Login, req.Password, req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.accounts.SignIn(r.Context(), req.Login, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// oauthStart sends the browser to the provider's consent screen with a
// one-time state token bound to this process.
func (h *handlers) oauthStart(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.oauth.AuthURL(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// oauthCallback is the provider redirect target. The code is exchanged
// for a verified email, the identity reconciled, and the browser sent on
// to /login/success carrying the issued token.
func (h *handlers) oauthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token, err := h.oauth.Callback(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login/success?token="+url.QueryEscape(token), http.StatusSeeOther)
}

// loginSuccess is the landing route of the provider-login redirect,
// receiving the issued token as a query parameter.
func (h *handlers) loginSuccess(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing token"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
