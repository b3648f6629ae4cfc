package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

// ListVideos returns published videos with the caller's quota overview.
func (a *App) ListVideos(w http.ResponseWriter, r *http.Request) {
	ident, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit, offset := pageParams(r)
	videos, err := a.Videos.ListPublished(r.Context(), r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		a.domainError(w, err)
		return
	}
	overview, err := a.Access.Overview(r.Context(), ident.UserID, a.now())
	if err != nil {
		a.domainError(w, err)
		return
	}

	items := make([]videoDTO, 0, len(videos))
	for i := range videos {
		items = append(items, toVideoDTO(&videos[i], false))
	}
	a.json(w, http.StatusOK, map[string]any{
		"data":  items,
		"quota": overviewDTO(overview),
	})
}

// GetVideo serves one video, gated by the daily quota. Administrators bypass
// the quota engine entirely.
func (a *App) GetVideo(w http.ResponseWriter, r *http.Request) {
	ident, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "id")

	video, err := a.Videos.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if ident.Role == domain.UserRoleAdmin {
		a.json(w, http.StatusOK, toVideoDTO(video, true))
		return
	}
	if !video.IsPublished {
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	decision, err := a.Access.AuthorizeView(r.Context(), ident.UserID, domain.ContentTypeVideo, id, a.now())
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !decision.Allowed {
		a.error(w, http.StatusForbidden, "DAILY_LIMIT_REACHED", decision.Reason)
		return
	}
	a.json(w, http.StatusOK, toVideoDTO(video, true))
}

type videoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Thumbnail   string   `json:"thumbnail"`
	Duration    int      `json:"duration"`
	CategoryID  string   `json:"category_id"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
}

// CreateVideo adds a video. Admin only, enforced by the router.
func (a *App) CreateVideo(w http.ResponseWriter, r *http.Request) {
	ident, _ := a.identity(r)
	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" || req.URL == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and url are required")
		return
	}

	video := &domain.Video{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		CategoryID:  req.CategoryID,
		AuthorID:    ident.UserID,
		Tags:        req.Tags,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := a.Videos.Create(r.Context(), video); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toVideoDTO(video, true))
}

// UpdateVideo overwrites a video. Admin only.
func (a *App) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" || req.URL == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and url are required")
		return
	}

	video := &domain.Video{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := a.Videos.Update(r.Context(), video); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toVideoDTO(video, true))
}

// DeleteVideo removes a video. Admin only.
func (a *App) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := a.Videos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
