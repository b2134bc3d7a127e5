package models

import "time"

// Pairing links one mentee to one mentor. Written once, never updated.
type Pairing struct {
	ID        string    `dynamodbav:"pairingId" json:"pairingId"`
	MenteeID  string    `dynamodbav:"menteeId" json:"menteeId"` // ✅ Partition Key
	MentorID  string    `dynamodbav:"mentorId" json:"mentorId"` // Indexed via GSI
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// PairingsTable is the DynamoDB table name for pairings
const PairingsTable = "Pairings"

// MentorIndex is the GSI on Pairings keyed by mentorId
const MentorIndex = "mentorId-index"

// MentorLoad tracks how many mentees are assigned to a mentor. It is only
// written inside the pairing transaction; reads count from Pairings.
type MentorLoad struct {
	MentorID string `dynamodbav:"mentorId" json:"mentorId"`
	Assigned int    `dynamodbav:"assigned" json:"assigned"`
}

// MentorLoadTable is the DynamoDB table name for mentor load counters
const MentorLoadTable = "MentorLoad"

// PairingWithProfile combines a Pairing with the counterpart's profile data
type PairingWithProfile struct {
	Pairing
	Counterpart Participant `json:"counterpart"`
}
