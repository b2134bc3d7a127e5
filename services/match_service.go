package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"padrinho_server/models"

	"go.uber.org/zap"
)

// ParticipantStore is the participant side of the profile repository
// consumed by the matching engine
type ParticipantStore interface {
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
	ListParticipants(ctx context.Context, role string) ([]models.Participant, error)
}

// PairingStore is the pairing side of the profile repository consumed by
// the matching engine
type PairingStore interface {
	ListPairings(ctx context.Context, menteeID, mentorID string) ([]models.Pairing, error)
	CreatePairingIfAbsent(ctx context.Context, menteeID, mentorID string) (*models.Pairing, error)
}

// MatchService decides whether a requester already has a pairing and, for
// unmatched mentees, selects and persists the best available mentor
type MatchService struct {
	Participants ParticipantStore
	Pairings     PairingStore
	Weights      ScoreWeights
	Capacity     int
	Logger       *zap.Logger
}

func NewMatchService(participants ParticipantStore, pairings PairingStore, weights ScoreWeights, capacity int, logger *zap.Logger) *MatchService {
	return &MatchService{
		Participants: participants,
		Pairings:     pairings,
		Weights:      weights,
		Capacity:     capacity,
		Logger:       logger,
	}
}

// ResolveMatch resolves the pairing state for the requester. Once a pairing
// exists for an identity it is returned as-is forever; the search runs only
// for complete, unmatched mentee profiles. "No match available" is a normal
// outcome, not an error — errors mean the repository itself failed.
func (ms *MatchService) ResolveMatch(ctx context.Context, requesterID string) (*models.MatchResult, error) {
	requester, err := ms.Participants.GetParticipant(ctx, requesterID)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return &models.MatchResult{Status: models.StatusNotFound}, nil
		}
		return nil, fmt.Errorf("failed to load requester profile: %w", err)
	}

	if !requester.Complete() {
		ms.Logger.Info("Requester profile incomplete",
			zap.String("requesterId", requesterID))
		return &models.MatchResult{Status: models.StatusNotEligible}, nil
	}

	existing, err := ms.lookupExisting(ctx, requester)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &models.MatchResult{Status: models.StatusMatched, Pairings: existing}, nil
	}

	// Mentors never initiate a search; they only receive assignments
	if requester.Role == models.RoleMentor {
		return &models.MatchResult{Status: models.StatusUnmatched}, nil
	}

	pairing, candidate, err := ms.selectAndPersist(ctx, requester)
	if err != nil {
		if !errors.Is(err, ErrPairingConflict) {
			return nil, err
		}

		// A racing call may have created our pairing; check before retrying
		existing, lookupErr := ms.lookupExisting(ctx, requester)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if len(existing) > 0 {
			return &models.MatchResult{Status: models.StatusMatched, Pairings: existing}, nil
		}

		// One retry, then give up and let the caller come back later
		pairing, candidate, err = ms.selectAndPersist(ctx, requester)
		if err != nil {
			if errors.Is(err, ErrPairingConflict) {
				ms.Logger.Warn("Pairing conflict persisted after retry",
					zap.String("requesterId", requesterID))
				return &models.MatchResult{Status: models.StatusUnmatched}, nil
			}
			return nil, err
		}
	}

	if pairing == nil {
		return &models.MatchResult{Status: models.StatusUnmatched}, nil
	}

	return &models.MatchResult{
		Status: models.StatusMatched,
		Pairings: []models.PairingWithProfile{
			{Pairing: *pairing, Counterpart: *candidate},
		},
	}, nil
}

// lookupExisting returns the requester's persisted pairings, if any, with
// each counterpart profile attached
func (ms *MatchService) lookupExisting(ctx context.Context, requester *models.Participant) ([]models.PairingWithProfile, error) {
	var pairings []models.Pairing
	var err error
	if requester.Role == models.RoleMentor {
		pairings, err = ms.Pairings.ListPairings(ctx, "", requester.ID)
	} else {
		pairings, err = ms.Pairings.ListPairings(ctx, requester.ID, "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load existing pairings: %w", err)
	}

	enriched := make([]models.PairingWithProfile, 0, len(pairings))
	for _, pairing := range pairings {
		counterpartID := pairing.MentorID
		if requester.Role == models.RoleMentor {
			counterpartID = pairing.MenteeID
		}

		counterpart, err := ms.Participants.GetParticipant(ctx, counterpartID)
		if err != nil {
			if errors.Is(err, ErrParticipantNotFound) {
				ms.Logger.Warn("Pairing references unknown participant",
					zap.String("pairingId", pairing.ID),
					zap.String("counterpartId", counterpartID))
				enriched = append(enriched, models.PairingWithProfile{Pairing: pairing})
				continue
			}
			return nil, fmt.Errorf("failed to load counterpart profile: %w", err)
		}

		enriched = append(enriched, models.PairingWithProfile{Pairing: pairing, Counterpart: *counterpart})
	}

	return enriched, nil
}

// selectAndPersist runs one pass of candidate selection and, when a
// candidate exists, attempts the conditional pairing write. A nil pairing
// with nil error means no eligible candidate remained.
func (ms *MatchService) selectAndPersist(ctx context.Context, requester *models.Participant) (*models.Pairing, *models.Participant, error) {
	mentors, err := ms.Participants.ListParticipants(ctx, models.RoleMentor)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	allPairings, err := ms.Pairings.ListPairings(ctx, "", "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pairings: %w", err)
	}

	assigned := make(map[string]int, len(allPairings))
	for _, pairing := range allPairings {
		assigned[pairing.MentorID]++
	}

	candidates := make([]models.Participant, 0, len(mentors))
	for _, mentor := range mentors {
		if mentor.Role != models.RoleMentor || mentor.ID == requester.ID {
			continue
		}
		if !mentor.Complete() {
			continue
		}
		if assigned[mentor.ID] >= ms.Capacity {
			continue
		}
		candidates = append(candidates, mentor)
	}

	// Stable order so the first-encountered tie-break is deterministic
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	var best *models.Participant
	bestScore := -1
	for i := range candidates {
		score := Score(ms.Weights, requester, &candidates[i])
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best == nil {
		ms.Logger.Info("No eligible mentor available",
			zap.String("requesterId", requester.ID))
		return nil, nil, nil
	}

	ms.Logger.Debug("Best candidate selected",
		zap.String("requesterId", requester.ID),
		zap.String("mentorId", best.ID),
		zap.Int("score", bestScore))

	pairing, err := ms.Pairings.CreatePairingIfAbsent(ctx, requester.ID, best.ID)
	if err != nil {
		return nil, nil, err
	}

	return pairing, best, nil
}
