package handlers

import (
	"net/http"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/middleware"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

// Register Request
type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Login Request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token Response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account and returns a token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.Auth.Register(r.Context(), services.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Login exchanges credentials for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the caller's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperr.Unauthenticated("Not authenticated"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email":    account.Email,
		"username": account.Username,
	})
}

// callerID returns the authenticated account id. Routes using it sit behind RequireAuth.
func callerID(r *http.Request) (string, error) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		return "", apperr.Unauthenticated("Not authenticated")
	}
	return account.ID.Hex(), nil
}
