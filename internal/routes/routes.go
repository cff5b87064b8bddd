package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"TODOAPP_BACK-END/internal/handlers"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Todos      *handlers.TodoHandler
	Health     *handlers.HealthHandler
	GoogleAuth *handlers.GoogleAuthHandler

	// RequireAuth wraps every route that needs a valid token.
	RequireAuth func(http.Handler) http.Handler

	SwaggerEnabled bool
}

// SetupRoutes configures all application routes on mux
func SetupRoutes(mux *http.ServeMux, h Handlers) {
	protected := func(fn http.HandlerFunc) http.Handler {
		return h.RequireAuth(fn)
	}

	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// User routes
	mux.HandleFunc("POST /users", h.Auth.Register)
	mux.HandleFunc("POST /users/login", h.Auth.Login)
	mux.Handle("GET /users/me", protected(h.Auth.Me))
	mux.Handle("DELETE /users/me/token", protected(h.Auth.Logout))
	mux.HandleFunc("GET /users/google/login", h.GoogleAuth.GoogleLogin)
	mux.HandleFunc("GET /users/google/callback", h.GoogleAuth.GoogleCallback)

	// Todo routes
	mux.Handle("POST /todos", protected(h.Todos.Create))
	mux.Handle("GET /todos", protected(h.Todos.List))
	mux.Handle("GET /todos/{id}", protected(h.Todos.Get))
	mux.Handle("PATCH /todos/{id}", protected(h.Todos.Update))
	mux.Handle("DELETE /todos/{id}", protected(h.Todos.Delete))

	if h.SwaggerEnabled {
		mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
	}

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Todo API is running."))
}
