package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/matchday-dev/cup-manager/handlers"
	"github.com/matchday-dev/cup-manager/middleware"
)

// SetupRoutes mounts the public read API, the admin-only mutation API and the
// live-scores websocket on the router.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	groupHandler *handlers.GroupHandler,
	matchHandler *handlers.MatchHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAdmin := middleware.RequireAdmin(jwtSecret)

	router.Post("/auth/login", authHandler.Login)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", teamHandler.Create)
			r.Put("/{teamID}", teamHandler.Update)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
			r.Delete("/{teamID}", teamHandler.Delete)
			r.Delete("/", teamHandler.DeleteAll)
		})
	})

	router.Route("/groups", func(r chi.Router) {
		r.Get("/", groupHandler.List)
		r.Get("/standings", groupHandler.Standings)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/draw", groupHandler.Draw)
			r.Post("/manual", groupHandler.ManualDraw)
			r.Post("/reset", groupHandler.Reset)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{matchID}", matchHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", matchHandler.CreateKnockout)
			r.Post("/generate", matchHandler.GenerateFixtures)
			r.Post("/resolve-placeholders", matchHandler.ResolvePlaceholders)
			r.Put("/{matchID}/score", matchHandler.UpdateScore)
			r.Delete("/{matchID}", matchHandler.Delete)
		})
	})

	router.Get("/dashboard", dashboardHandler.Summary)

	router.Get("/ws/scores", webSocketHandler.ServeScores)

	router.Get("/swagger/*", httpSwagger.Handler())
}
