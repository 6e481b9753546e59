package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/maxesports/esports-hub/contract"
	"github.com/maxesports/esports-hub/handlers"
	"github.com/maxesports/esports-hub/middleware"
)

type Deps struct {
	AuthHandler       *handlers.AuthHandler
	TournamentHandler *handlers.TournamentHandler
	TeamHandler       *handlers.TeamHandler
	WebSocketHandler  *handlers.WebSocketHandler

	SessionSecret string
	AdminPolicy   middleware.AdminPolicy
}

// Setup mounts the full HTTP surface. Paths for the contract operations come
// from the contract table itself, so the router can never drift from what
// the client builds URLs against.
func Setup(router *chi.Mux, deps Deps) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Authenticate(deps.SessionSecret))

	// Public reads.
	mount(router, contract.OpTournamentsList, deps.TournamentHandler.ListHandler)
	mount(router, contract.OpTournamentsGet, deps.TournamentHandler.GetByIDHandler)
	mount(router, contract.OpTeamList, deps.TeamHandler.ListHandler)

	// Session endpoints.
	router.Post("/api/login", deps.AuthHandler.LoginHandler)
	router.Post("/api/logout", deps.AuthHandler.LogoutHandler)
	router.Get("/api/auth/user", deps.AuthHandler.GetUserHandler)

	// Live updates for the public site.
	router.Get("/ws", deps.WebSocketHandler.ServeWs)

	// Admin-gated mutations.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin(deps.AdminPolicy))

		mount(r, contract.OpTournamentsCreate, deps.TournamentHandler.CreateHandler)
		mount(r, contract.OpTournamentsUpdate, deps.TournamentHandler.UpdateHandler)
		mount(r, contract.OpTournamentsDelete, deps.TournamentHandler.DeleteHandler)
		mount(r, contract.OpTeamCreate, deps.TeamHandler.CreateHandler)
		mount(r, contract.OpTeamUpdate, deps.TeamHandler.UpdateHandler)
		mount(r, contract.OpTeamDelete, deps.TeamHandler.DeleteHandler)

		r.Post("/api/tournaments/{id}/image", deps.TournamentHandler.UploadImageHandler)
		r.Post("/api/team/{id}/photo", deps.TeamHandler.UploadPhotoHandler)
	})
}

func mount(r chi.Router, opName string, handler http.HandlerFunc) {
	op := contract.API[opName]
	r.Method(op.Method, op.ChiPattern(), handler)
}
