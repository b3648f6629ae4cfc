package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

// ListCategories returns all categories. Public.
func (a *App) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Categories.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]categoryDTO, 0, len(categories))
	for _, c := range categories {
		items = append(items, toCategoryDTO(c))
	}
	a.json(w, http.StatusOK, map[string]any{"data": items})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory adds a category. Admin only, enforced by the router.
func (a *App) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := a.Categories.Create(r.Context(), category); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toCategoryDTO(*category))
}

// DeleteCategory removes a category. Admin only.
func (a *App) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
