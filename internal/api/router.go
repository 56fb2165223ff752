package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vidshare/backend/internal/api/handlers"
	"github.com/vidshare/backend/internal/api/middleware"
	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/storage"
)

func NewRouter(store *db.Store, jwtService *auth.JWTService, uploads *storage.Uploads, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(store, jwtService, cfg.Production)
	videosHandler := handlers.NewVideosHandler(store, uploads)
	streamHandler := handlers.NewStreamHandler(store)
	categoriesHandler := handlers.NewCategoriesHandler(store)
	adminHandler := handlers.NewAdminHandler(store)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(1 << 20))

			r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)
			r.With(loginLimiter.Handler).Post("/auth/register", authHandler.Register)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/videos", videosHandler.List)
			r.Get("/videos/{id}", videosHandler.Get)
			r.Post("/videos/{id}/views", videosHandler.IncrementViews)
			r.Get("/videos/{id}/thumbnail", videosHandler.Thumbnail)

			r.Get("/categories", categoriesHandler.List)
		})

		r.Get("/stream/{id}", streamHandler.Serve)

		// Session routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(jwtService))

			// Upload enforces its own 500 MiB body cap
			r.Post("/videos", videosHandler.Upload)

			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBodySize(1 << 20))

				r.Post("/auth/logout", authHandler.Logout)
				r.Post("/auth/change-password", authHandler.ChangePassword)

				r.Post("/videos/embed", videosHandler.Embed)
				r.Put("/videos/{id}", videosHandler.Update)
				r.Delete("/videos/{id}", videosHandler.Delete)
			})
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(jwtService))
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.MaxBodySize(1 << 20))

			r.Get("/admin/videos", adminHandler.ListVideos)
			r.Get("/admin/users", adminHandler.ListUsers)
			r.Post("/admin/users", adminHandler.CreateUser)

			r.Post("/categories", categoriesHandler.Create)
		})
	})

	return r
}
