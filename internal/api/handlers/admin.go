package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/db"
)

type AdminHandler struct {
	store *db.Store
}

func NewAdminHandler(store *db.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// ListUsers returns all users (password hashes are never serialized).
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		jsonError(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, users, http.StatusOK)
}

// ListVideos returns every video regardless of category.
func (h *AdminHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.store.ListVideos("", "")
	if err != nil {
		jsonError(w, "failed to list videos", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, videos, http.StatusOK)
}

// CreateUser lets an admin provision accounts, including other admins.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	user, err := h.store.CreateUser(req.Username, hash, req.IsAdmin)
	if err != nil {
		jsonError(w, "failed to create user (username may already exist)", http.StatusConflict)
		return
	}
	jsonResponse(w, summarize(user), http.StatusCreated)
}
