package routes

import (
	"padrinho_server/auth"
	"padrinho_server/controllers"
	"padrinho_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterParticipantRoutes sets up routes for profile operations under /api/participants
func RegisterParticipantRoutes(r *mux.Router, participantService *services.ParticipantService, authMw *auth.Middleware, logger *zap.Logger) {
	controller := controllers.NewParticipantController(participantService, logger)

	participantRouter := r.PathPrefix("/api/participants").Subrouter()
	participantRouter.Use(authMw.Handler)

	participantRouter.HandleFunc("", controller.CreateParticipant).Methods("POST")
	participantRouter.HandleFunc("/me", controller.GetMyProfile).Methods("GET")
	participantRouter.HandleFunc("/me", controller.UpdateMyProfile).Methods("PATCH")
}
