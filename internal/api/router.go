package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/collabhub/engine/internal/api/handlers"
	mw "github.com/collabhub/engine/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret       []byte
	AuthHandler      *handlers.AuthHandler
	ResumeHandler    *handlers.ResumeHandler
	ProjectsHandler  *handlers.ProjectsHandler
	TeammatesHandler *handlers.TeammatesHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
		})

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))

			protected.Get("/profile", dep.AuthHandler.GetProfile)
			protected.Get("/profiles/{email}", dep.AuthHandler.GetProfileByEmail)
			protected.Post("/resume/parse", dep.ResumeHandler.Parse)
			protected.Post("/resume/upload", dep.ResumeHandler.Upload)

			protected.Route("/projects", func(pr chi.Router) {
				pr.Get("/", dep.ProjectsHandler.List)
				pr.Post("/", dep.ProjectsHandler.Create)
				pr.Get("/explore", dep.ProjectsHandler.Explore)

				// teammate requests addressed to the actor
				pr.Get("/teammates/requests", dep.TeammatesHandler.ListIncoming)
				pr.Post("/teammates/requests/{id}/accept", dep.TeammatesHandler.Accept)
				pr.Post("/teammates/requests/{id}/reject", dep.TeammatesHandler.Reject)

				pr.Get("/{id}", dep.ProjectsHandler.Get)
				pr.Post("/{id}/teammates", dep.TeammatesHandler.Invite)
				pr.Post("/{id}/complete", dep.ProjectsHandler.Complete)
			})
		})
	})

	return r
}
