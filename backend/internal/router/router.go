package router

import (
	"net/http"

	"github.com/apexcharge/paddock/backend/internal/setup"
	mw "github.com/apexcharge/paddock/shared/middleware"
	"github.com/apexcharge/paddock/shared/middleware/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates the chi router with all routes. Reads are open to everyone;
// writes by guests are allowed where guests may write (photo upload and
// delete, counters). Content creation and uploads are rate limited per actor
// or per IP.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Compress(5, "application/json"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Backend CSP: strict policy (JSON API only, no scripts/styles needed)
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware
	limitContent := mw.RateLimit(deps.ContentLimiter, mw.ActorOrIP)
	limitUpload := mw.RateLimit(deps.UploadLimiter, mw.ActorOrIP)

	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(limitContent).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(authMw.NeedAuth()).Get("/me", h.Me)
		})

		// Guests are welcome; a valid session attaches the actor.
		r.Group(func(r chi.Router) {
			r.Use(authMw.OptionalAuth())

			r.Get("/threads", h.ListThreads)
			r.Get("/threads/{thread}", h.GetThread)
			r.Post("/threads/{thread}/view", h.ViewThread)
			r.Get("/threads/{thread}/vote", h.GetThreadVote)
			r.Get("/threads/{thread}/comments", h.ListComments)
			r.Get("/threads/{thread}/comments/{comment}/replies", h.ListReplies)

			r.Get("/photos", h.ListPhotos)
			r.With(limitUpload).Post("/photos", h.UploadPhoto)
			r.Get("/photos/{photo}", h.GetPhoto)
			r.Delete("/photos/{photo}", h.DeletePhoto)
			r.Get("/photos/{photo}/cover", h.GetCover)
			r.Post("/photos/{photo}/view", h.ViewPhoto)
			r.Post("/photos/{photo}/like", h.LikePhoto)
			r.Get("/photos/{photo}/vote", h.GetPhotoVote)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.With(limitContent).Post("/threads", h.CreateThread)
			r.Patch("/threads/{thread}", h.EditThread)
			r.Delete("/threads/{thread}", h.DeleteThread)
			r.Post("/threads/{thread}/vote", h.VoteThread)

			r.With(limitContent).Post("/threads/{thread}/comments", h.AddComment)
			r.Patch("/threads/{thread}/comments/{comment}", h.EditComment)
			r.Delete("/threads/{thread}/comments/{comment}", h.DeleteComment)

			r.With(limitContent).Post("/threads/{thread}/comments/{comment}/replies", h.AddReply)
			r.Patch("/threads/{thread}/comments/{comment}/replies/{reply}", h.EditReply)
			r.Delete("/threads/{thread}/comments/{comment}/replies/{reply}", h.DeleteReply)

			r.Post("/photos/{photo}/vote", h.VotePhoto)

			r.Get("/me/threads", h.MyThreads)
			r.Get("/me/comments", h.MyComments)
			r.Get("/me/photos", h.MyPhotos)
			r.Post("/me/threads/delete", h.DeleteMyThreads)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
	return r
}
