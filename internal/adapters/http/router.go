package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskpilot/taskpilot/internal/application"
)

// Handler is the HTTP adapter entrypoint.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers the HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", handler.register)
		r.Post("/auth/login", handler.login)
		r.Get("/auth/google", handler.googleLogin)
		r.Get("/auth/google/callback", handler.googleCallback)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Get("/users", handler.listUsers)
			r.Get("/users/me", handler.currentUser)
			r.Get("/users/{user_id}", handler.getUser)
			r.Delete("/users/{user_id}", handler.deleteUser)

			r.Post("/tasks", handler.createTask)
			r.Get("/tasks", handler.listTasks)
			r.Get("/tasks/{task_id}", handler.getTask)
			r.Patch("/tasks/{task_id}", handler.updateTask)
			r.Delete("/tasks/{task_id}", handler.deleteTask)
			r.Post("/tasks/{task_id}/analyze", handler.analyzeTask)

			r.Post("/tasks/{task_id}/schedule", handler.scheduleTask)
			r.Post("/calendar/schedule-all", handler.scheduleAllTasks)
			r.Post("/calendar/import", handler.importCalendarEvents)
		})
	})

	return r
}
