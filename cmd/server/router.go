package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/kanban-api/internal/api"
	apiMiddleware "github.com/phrazzld/kanban-api/internal/api/middleware"
	"github.com/phrazzld/kanban-api/internal/config"
)

// newRouter builds the chi router: standard middleware, CORS, tracing, the
// public auth routes and the bearer-protected API under /api.
func newRouter(svcs *services, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{apiMiddleware.TraceHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(svcs.auth, logger)
	boardHandler := api.NewBoardHandler(svcs.boards, logger)
	taskHandler := api.NewTaskHandler(svcs.tasks, logger)
	commentHandler := api.NewCommentHandler(svcs.comments, logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(svcs.auth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/email", authHandler.LookupEmail)

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", boardHandler.List)
				r.Post("/", boardHandler.Create)
				r.Get("/{"+api.BoardIDParam+"}", boardHandler.Get)
				r.Patch("/{"+api.BoardIDParam+"}", boardHandler.Update)
				r.Delete("/{"+api.BoardIDParam+"}", boardHandler.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				// Static segments take precedence over {taskID} in chi.
				r.Get("/assigned-to-me", taskHandler.AssignedToMe)
				r.Get("/reviewing", taskHandler.Reviewing)

				r.Route("/{"+api.TaskIDParam+"}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Patch("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)

					r.Get("/comments", commentHandler.List)
					r.Post("/comments", commentHandler.Create)
					r.Delete("/comments/{"+api.CommentIDParam+"}", commentHandler.Delete)
				})
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
