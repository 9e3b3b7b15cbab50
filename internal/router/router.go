package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muthakira-dev/muthakira/internal/middleware/metrics"
	"github.com/muthakira-dev/muthakira/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)

	// CORS for the browser frontend; X-Admin-Key rides on delete requests.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Admin-Key"},
		AllowCredentials: true,
	}))

	h := deps.Handler

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/files", h.ListFiles)
		r.Post("/upload", h.Upload)

		r.Route("/files/{id}", func(r chi.Router) {
			r.Delete("/", h.DeleteFile)
			r.Get("/download", h.Download)
			r.Get("/comments", h.ListComments)
			r.Post("/comments", h.AddComment)
		})

		r.Get("/chat/history", h.ChatHistory)
	})

	r.Get("/ws", h.ChatWS)

	// Stored artifacts are served directly for previews. Directory requests
	// are rejected so the artifact store cannot be enumerated.
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.Media.Root())))
	r.Handle("/uploads/*", noDirListing(files))

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
