package controllers

import (
	"encoding/json"
	"net/http"

	"padrinho_server/auth"
	"padrinho_server/models"
	"padrinho_server/services"

	"go.uber.org/zap"
)

// MatchController handles HTTP requests for match resolution
type MatchController struct {
	MatchService *services.MatchService
	Logger       *zap.Logger
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, logger *zap.Logger) *MatchController {
	return &MatchController{MatchService: matchService, Logger: logger}
}

// ResolveMatch resolves the caller's pairing and maps each outcome to a
// distinct HTTP shape. "No match yet" is a 200 with status unmatched; a
// repository failure is a 503 so clients can tell "retry later" apart from
// "nothing for you".
func (mc *MatchController) ResolveMatch(w http.ResponseWriter, r *http.Request) {
	requesterID, err := auth.RequesterID(r)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	result, err := mc.MatchService.ResolveMatch(r.Context(), requesterID)
	if err != nil {
		mc.Logger.Error("Match resolution failed",
			zap.String("requesterId", requesterID),
			zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "Matching temporarily unavailable, try again later",
		})
		return
	}

	switch result.Status {
	case models.StatusNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status":   result.Status,
			"redirect": "/signup",
		})
	case models.StatusNotEligible:
		writeJSON(w, http.StatusConflict, map[string]string{
			"status":   result.Status,
			"redirect": "/signup",
		})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
