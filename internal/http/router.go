package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/auth"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/metrics"
	mw "server/internal/middleware"
)

// NewRouter assembles the API routes. Detail routes are quota-gated inside
// their handlers; listing routes only report quota status.
func NewRouter(app *handlers.App, tokens *auth.TokenManager, collector *metrics.Collector, cfg *infra.Config, logger zerolog.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(mw.Logger(logger))
	r.Use(mw.Metrics(collector))
	r.Use(mw.CORS(cfg.CORSAllowedOrigins))
	r.Use(mw.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/v1/healthz", app.Health)
	r.Method(stdhttp.MethodGet, "/metrics", collector.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", app.Register)
		r.Post("/auth/login", app.Login)
		r.Get("/categories", app.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(tokens))

			r.Get("/users/me", app.Me)
			r.Get("/articles", app.ListArticles)
			r.Get("/articles/{id}", app.GetArticle)
			r.Get("/videos", app.ListVideos)
			r.Get("/videos/{id}", app.GetVideo)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)

				r.Post("/articles", app.CreateArticle)
				r.Put("/articles/{id}", app.UpdateArticle)
				r.Delete("/articles/{id}", app.DeleteArticle)
				r.Post("/videos", app.CreateVideo)
				r.Put("/videos/{id}", app.UpdateVideo)
				r.Delete("/videos/{id}", app.DeleteVideo)
				r.Post("/categories", app.CreateCategory)
				r.Delete("/categories/{id}", app.DeleteCategory)
			})
		})
	})

	return r
}
