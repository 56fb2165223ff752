package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vidshare/backend/internal/api/middleware"
	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/db/models"
	"github.com/vidshare/backend/internal/validate"
)

type AuthHandler struct {
	store         *db.Store
	jwt           *auth.JWTService
	secureCookies bool
}

func NewAuthHandler(store *db.Store, jwt *auth.JWTService, secureCookies bool) *AuthHandler {
	return &AuthHandler{store: store, jwt: jwt, secureCookies: secureCookies}
}

type userSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func summarize(u *models.User) userSummary {
	return userSummary{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validate.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	user, err := h.store.GetUserByUsername(req.Username)
	if err == db.ErrNotFound {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		jsonError(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	jsonResponse(w, map[string]interface{}{"user": summarize(user)}, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	jsonResponse(w, map[string]string{"status": "logged out"}, http.StatusOK)
}

// Me reports session state without requiring one, so the client can render
// logged-out views from the same call.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		jsonResponse(w, map[string]interface{}{"authenticated": false}, http.StatusOK)
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		jsonResponse(w, map[string]interface{}{"authenticated": false}, http.StatusOK)
		return
	}

	user, err := h.store.GetUserByID(claims.UserID)
	if err != nil || user == nil {
		jsonResponse(w, map[string]interface{}{"authenticated": false}, http.StatusOK)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"authenticated": true,
		"user":          summarize(user),
	}, http.StatusOK)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req validate.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	user, err := h.store.GetUserByID(claims.UserID)
	if err == db.ErrNotFound {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.Password) {
		jsonError(w, "current password is incorrect", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		jsonError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := h.store.UpdateUserPassword(user.ID, hash); err != nil {
		jsonError(w, "failed to update password", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"status": "password changed"}, http.StatusOK)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validate.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	existing, err := h.store.GetUserByUsername(req.Username)
	if err != nil && err != db.ErrNotFound {
		jsonError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		jsonError(w, "username already taken", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	user, err := h.store.CreateUser(req.Username, hash, false)
	if err != nil {
		jsonError(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{"user": summarize(user)}, http.StatusCreated)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionLifetime / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func jsonValidationError(w http.ResponseWriter, errs []validate.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "validation failed",
		"fields": errs,
	})
}
