package routes

import (
	"padrinho_server/auth"
	"padrinho_server/controllers"
	"padrinho_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterMatchRoutes sets up routes for match resolution under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, authMw *auth.Middleware, logger *zap.Logger) {
	controller := controllers.NewMatchController(matchService, logger)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.Use(authMw.Handler)

	matchRouter.HandleFunc("", controller.ResolveMatch).Methods("GET")
}
