package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bearister/auth-service/internal/api/handlers"
	mw "github.com/bearister/auth-service/internal/api/middleware"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	HealthHandler  *handlers.HealthHandler
	Authenticator  mw.Authenticator
	AllowedOrigins []string
	// SwaggerURL points the UI at doc.json; empty uses a relative path.
	SwaggerURL string
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.AllowedOrigins))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := dep.HealthHandler
	if hh == nil {
		hh = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	// Swagger documentation
	swaggerURL := dep.SwaggerURL
	if swaggerURL == "" {
		swaggerURL = "/docs/doc.json"
	}
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/superadmin/register", dep.AuthHandler.RegisterSuperadmin)
		ar.Post("/superadmin/login", dep.AuthHandler.LoginSuperadmin)
		ar.Post("/register", dep.AuthHandler.Register)
		ar.Get("/verify-email", dep.AuthHandler.VerifyEmail)
		ar.Post("/login", dep.AuthHandler.Login)
		ar.Post("/refresh", dep.AuthHandler.Refresh)

		// Protected routes
		ar.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Authenticator))
			protected.Get("/profile", dep.AuthHandler.Profile)
			protected.Put("/update_profile", dep.AuthHandler.UpdateProfile)
			protected.Put("/update_password", dep.AuthHandler.UpdatePassword)
		})
	})

	return r
}
