package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"finmatch-backend/internal/config"
	"finmatch-backend/internal/handlers"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health  *handlers.HealthHandler
	Signup  *handlers.SignupHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
}

// NewRouter configures all application routes and wraps them with CORS.
func NewRouter(h Handlers, cfg *config.Config, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	// Health check routes
	r.Get("/api/health", h.Health.HealthCheck)
	r.Get("/livez", h.Health.LivenessCheck)
	r.Get("/readyz", h.Health.ReadinessCheck)

	// Signup routes
	r.Post("/api/signup/trial", h.Signup.Trial)
	r.Post("/api/signup/subscription", h.Signup.Subscription)

	// Authentication routes
	r.Post("/api/auth/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(&cfg.JWT))
		r.Get("/api/profile", h.Profile.Get)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Get("/", rootHandler)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	return c.Handler(r)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("FinMatch backend is running."))
}
