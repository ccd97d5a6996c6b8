package routes

import (
	"log/slog"
	"net/http"

	_ "github.com/Dosada05/tennis-ladder/docs" // регистрирует swagger-спеку
	"github.com/Dosada05/tennis-ladder/handlers"
	"github.com/Dosada05/tennis-ladder/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Bracket   *handlers.BracketHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	JWTSecret          []byte
	CORSAllowedOrigins []string
	GenerateLimiter    *middleware.IPRateLimiter
	Logger             *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(middleware.Recover(opts.Logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/api/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/matches", h.Bracket.ListMatchesHandler)

		r.Options("/bracket", h.Bracket.PreflightHandler)

		// Генерация сетки: только организаторы и администраторы
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))
			if opts.GenerateLimiter != nil {
				r.Use(middleware.RateLimit(opts.GenerateLimiter))
			}
			r.Post("/bracket", h.Bracket.GenerateBracketHandler)
		})
	})
}
