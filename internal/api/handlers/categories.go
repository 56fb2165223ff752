package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/validate"
)

type CategoriesHandler struct {
	store *db.Store
}

func NewCategoriesHandler(store *db.Store) *CategoriesHandler {
	return &CategoriesHandler{store: store}
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories()
	if err != nil {
		jsonError(w, "failed to list categories", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, categories, http.StatusOK)
}

// Create adds a category. Admin only; names are unique and "All" is reserved
// as the no-filter sentinel.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req validate.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	category, err := h.store.CreateCategory(req.Name)
	if err != nil {
		jsonError(w, "failed to create category (name may already exist)", http.StatusConflict)
		return
	}
	jsonResponse(w, category, http.StatusCreated)
}
