package services

import "padrinho_server/models"

// ScoreWeights holds the per-attribute weights used when comparing a mentee
// against a candidate mentor
type ScoreWeights struct {
	City            int
	State           int
	Pronouns        int
	Parties         int
	Games           int
	Sports          int
	Ethnicity       int
	FieldOfInterest int
}

// DefaultWeights returns the standard weight table. Only the games weight
// varies per deployment (1 or 2).
func DefaultWeights(gamesWeight int) ScoreWeights {
	return ScoreWeights{
		City:            2,
		State:           1,
		Pronouns:        1,
		Parties:         2,
		Games:           gamesWeight,
		Sports:          1,
		Ethnicity:       1,
		FieldOfInterest: 1,
	}
}

// Score sums the weight of every attribute where mentee and candidate hold
// the exact same value. There is no partial credit; a missing attribute on
// either side contributes zero.
func Score(w ScoreWeights, mentee, candidate *models.Participant) int {
	score := 0

	if mentee.City != "" && candidate.City == mentee.City {
		score += w.City
	}
	if mentee.State != "" && candidate.State == mentee.State {
		score += w.State
	}
	if mentee.Pronouns != "" && candidate.Pronouns == mentee.Pronouns {
		score += w.Pronouns
	}
	if mentee.Parties != nil && candidate.Parties != nil && *candidate.Parties == *mentee.Parties {
		score += w.Parties
	}
	if mentee.Games != "" && candidate.Games == mentee.Games {
		score += w.Games
	}
	if mentee.Sports != "" && candidate.Sports == mentee.Sports {
		score += w.Sports
	}
	if mentee.Ethnicity != "" && candidate.Ethnicity == mentee.Ethnicity {
		score += w.Ethnicity
	}
	if mentee.FieldOfInterest != "" && candidate.FieldOfInterest == mentee.FieldOfInterest {
		score += w.FieldOfInterest
	}

	return score
}
