package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ListArticles returns published articles. Listing never denies access and
// never touches the stored ledger; the quota block is informational for the
// UI.
func (a *App) ListArticles(w http.ResponseWriter, r *http.Request) {
	ident, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit, offset := pageParams(r)
	articles, err := a.Articles.ListPublished(r.Context(), r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		a.domainError(w, err)
		return
	}
	overview, err := a.Access.Overview(r.Context(), ident.UserID, a.now())
	if err != nil {
		a.domainError(w, err)
		return
	}

	items := make([]articleDTO, 0, len(articles))
	for i := range articles {
		items = append(items, toArticleDTO(&articles[i], false))
	}
	a.json(w, http.StatusOK, map[string]any{
		"data":  items,
		"quota": overviewDTO(overview),
	})
}

// GetArticle serves one article, gated by the daily quota. Administrators
// bypass the quota engine entirely.
func (a *App) GetArticle(w http.ResponseWriter, r *http.Request) {
	ident, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "id")

	article, err := a.Articles.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if ident.Role == domain.UserRoleAdmin {
		a.json(w, http.StatusOK, toArticleDTO(article, true))
		return
	}
	if !article.IsPublished {
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	decision, err := a.Access.AuthorizeView(r.Context(), ident.UserID, domain.ContentTypeArticle, id, a.now())
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !decision.Allowed {
		a.error(w, http.StatusForbidden, "DAILY_LIMIT_REACHED", decision.Reason)
		return
	}
	a.json(w, http.StatusOK, toArticleDTO(article, true))
}

type articleRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt"`
	CoverImage  string   `json:"cover_image"`
	CategoryID  string   `json:"category_id"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
}

// CreateArticle adds an article. Admin only, enforced by the router.
func (a *App) CreateArticle(w http.ResponseWriter, r *http.Request) {
	ident, _ := a.identity(r)
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" || req.Content == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and content are required")
		return
	}

	article := &domain.Article{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CoverImage:  req.CoverImage,
		CategoryID:  req.CategoryID,
		AuthorID:    ident.UserID,
		Tags:        req.Tags,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := a.Articles.Create(r.Context(), article); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toArticleDTO(article, true))
}

// UpdateArticle overwrites an article. Admin only.
func (a *App) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" || req.Content == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and content are required")
		return
	}

	article := &domain.Article{
		ID:          id,
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CoverImage:  req.CoverImage,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := a.Articles.Update(r.Context(), article); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toArticleDTO(article, true))
}

// DeleteArticle removes an article. Admin only.
func (a *App) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := a.Articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
