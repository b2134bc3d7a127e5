package models

// ✅ Match resolution statuses
const (
	StatusMatched     = "matched"
	StatusUnmatched   = "unmatched"
	StatusNotEligible = "not_eligible"
	StatusNotFound    = "not_found"
)

// ✅ Yes/No/Neutral answers (games, sports)
const (
	AnswerYes     = "Sim"
	AnswerNo      = "Não"
	AnswerNeutral = "Neutro"
)

// MatchResult is the outcome of a match resolution
type MatchResult struct {
	Status   string               `json:"status"`
	Pairings []PairingWithProfile `json:"pairings,omitempty"`
}
