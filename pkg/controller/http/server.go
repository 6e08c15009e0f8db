package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/osgb-lab/riskcatalog/pkg/usecase"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
	"github.com/osgb-lab/riskcatalog/pkg/utils/safe"
)

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	moderatorToken string
}

type Options func(*Server)

// WithModeratorToken enables bearer-token protection on the moderation and
// reconciliation endpoints. Without a token those endpoints stay open, which
// is only acceptable for local development.
func WithModeratorToken(token string) Options {
	return func(s *Server) {
		s.moderatorToken = token
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/classification", classificationHandler(s.uc))
		r.Post("/search", searchHandler(s.uc))

		r.Route("/submissions", func(r chi.Router) {
			r.Post("/", submitHandler(s.uc))
			r.Get("/{id}", getSubmissionHandler(s.uc))

			// Moderation surface
			r.Group(func(r chi.Router) {
				r.Use(moderatorMiddleware(s.moderatorToken))
				r.Get("/", listSubmissionsHandler(s.uc))
				r.Put("/{id}", transitionHandler(s.uc))
			})
		})

		r.With(moderatorMiddleware(s.moderatorToken)).
			Post("/reconcile", reconcileHandler(s.uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}
