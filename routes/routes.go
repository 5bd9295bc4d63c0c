package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/yerlan-k/league-system/handlers"
	"github.com/yerlan-k/league-system/middleware"
)

// SetupRoutes wires every endpoint onto the router. Read endpoints are
// public; anything that mutates state sits behind authentication, and
// tournament administration additionally requires the admin flag.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	notificationHandler *handlers.NotificationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/verify", authHandler.Verify)
			r.Get("/profile", authHandler.Profile)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)

		// Public team registration, gated by capacity and deadline in
		// the service layer.
		r.Post("/teams", teamHandler.Register)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByID)
			r.Get("/standings", tournamentHandler.Standings)
			r.Get("/matches", matchHandler.ListByTournament)
			r.Get("/teams", teamHandler.ListByTournament)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(auth.RequireAdmin)

				r.Patch("/", tournamentHandler.Update)
				r.Delete("/", tournamentHandler.Delete)
				r.Post("/matches", matchHandler.Create)
				r.Post("/advance-phase", tournamentHandler.AdvancePhase)
				r.Post("/knockout/advance", tournamentHandler.AdvanceKnockout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireAdmin)

			r.Post("/", tournamentHandler.Create)
			r.Patch("/admin/teams/{teamID}/status", teamHandler.ChangeStatus)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireAdmin)

			r.Patch("/{matchID}/result", matchHandler.Finish)
			r.Patch("/{matchID}/schedule", matchHandler.UpdateSchedule)
			r.Post("/{matchID}/force-winner", matchHandler.ForceWinner)
			r.Delete("/{matchID}", matchHandler.Delete)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", teamHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireAdmin)

			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
			r.Delete("/{teamID}", teamHandler.Delete)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireAdmin)

			r.Post("/{playerID}/photo", playerHandler.UploadPhoto)
		})
	})

	router.Route("/notifications", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", notificationHandler.List)
		r.Post("/{notificationID}/dismiss", notificationHandler.Dismiss)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
