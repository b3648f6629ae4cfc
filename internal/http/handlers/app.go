package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/access"
	"server/internal/auth"
	"server/internal/domain"
	"server/internal/middleware"
)

// App bundles the handler dependencies.
type App struct {
	Users      domain.UserRepository
	Articles   domain.ArticleRepository
	Videos     domain.VideoRepository
	Categories domain.CategoryRepository
	Access     *access.Service
	Tokens     *auth.TokenManager
	Logger     zerolog.Logger

	// Now supplies the wall clock; tests override it to pin the calendar day.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorPayload{Code: errCode, Message: message})
}

// domainError maps repository and engine errors onto HTTP responses. Quota
// denials never arrive here; they are values, not errors.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, http.StatusConflict, "email_taken", "email already registered")
	case errors.Is(err, domain.ErrUnknownTier), errors.Is(err, domain.ErrUnknownContentType):
		// Data-integrity fault; never silently defaulted.
		a.Logger.Error().Err(err).Msg("membership policy fault")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func (a *App) identity(r *http.Request) (middleware.Identity, bool) {
	return middleware.IdentityFromContext(r.Context())
}
