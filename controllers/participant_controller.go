package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"padrinho_server/auth"
	"padrinho_server/models"
	"padrinho_server/services"

	"go.uber.org/zap"
)

// ParticipantController handles requests related to participant profiles
type ParticipantController struct {
	ParticipantService *services.ParticipantService
	Logger             *zap.Logger
}

// NewParticipantController creates a new instance of ParticipantController
func NewParticipantController(participantService *services.ParticipantService, logger *zap.Logger) *ParticipantController {
	return &ParticipantController{ParticipantService: participantService, Logger: logger}
}

// CreateParticipant stores the caller's profile. The profile ID is always
// the authenticated subject, whatever the payload says.
func (c *ParticipantController) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	requesterID, err := auth.RequesterID(r)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var participant models.Participant
	if err := json.NewDecoder(r.Body).Decode(&participant); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	participant.ID = requesterID

	if !participant.Complete() {
		http.Error(w, "Profile is missing required fields", http.StatusBadRequest)
		return
	}

	created, err := c.ParticipantService.CreateParticipant(r.Context(), participant)
	if err != nil {
		c.Logger.Error("Failed to create participant",
			zap.String("id", requesterID),
			zap.Error(err))
		http.Error(w, "Failed to create profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Profile created successfully",
		"participant": created,
	})
}

// GetMyProfile returns the caller's own profile
func (c *ParticipantController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	requesterID, err := auth.RequesterID(r)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	participant, err := c.ParticipantService.GetParticipant(r.Context(), requesterID)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		c.Logger.Error("Failed to fetch participant",
			zap.String("id", requesterID),
			zap.Error(err))
		http.Error(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}

// UpdateMyProfile applies a partial edit to the caller's profile
func (c *ParticipantController) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	requesterID, err := auth.RequesterID(r)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := c.ParticipantService.UpdateParticipant(r.Context(), requesterID, updates)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUpdate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.Logger.Error("Failed to update participant",
			zap.String("id", requesterID),
			zap.Error(err))
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Profile updated successfully",
		"participant": updated,
	})
}
