package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"padrinho_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPairingConflict signals that the conditional pairing write was rejected:
// either a pairing already exists for the mentee, or the mentor's capacity
// filled up between the candidate check and the write.
var ErrPairingConflict = errors.New("pairing conflict")

// PairingService gives typed access to persisted pairings
type PairingService struct {
	Dynamo          *DynamoService
	Table           string
	MentorLoadTable string
	Capacity        int
	Logger          *zap.Logger
}

func NewPairingService(dynamo *DynamoService, table, mentorLoadTable string, capacity int, logger *zap.Logger) *PairingService {
	return &PairingService{
		Dynamo:          dynamo,
		Table:           table,
		MentorLoadTable: mentorLoadTable,
		Capacity:        capacity,
		Logger:          logger,
	}
}

// ListPairings returns pairings filtered by mentee, by mentor, or all of
// them when both filters are empty
func (p *PairingService) ListPairings(ctx context.Context, menteeID, mentorID string) ([]models.Pairing, error) {
	var items []map[string]types.AttributeValue
	var err error

	switch {
	case menteeID != "":
		items, err = p.Dynamo.QueryItems(ctx, p.Table,
			"menteeId = :menteeId",
			map[string]types.AttributeValue{
				":menteeId": &types.AttributeValueMemberS{Value: menteeID},
			})
	case mentorID != "":
		items, err = p.Dynamo.QueryItemsWithIndex(ctx, p.Table, models.MentorIndex,
			"mentorId = :mentorId",
			map[string]types.AttributeValue{
				":mentorId": &types.AttributeValueMemberS{Value: mentorID},
			})
	default:
		var pairings []models.Pairing
		if err := p.Dynamo.ScanAll(ctx, p.Table, nil, &pairings); err != nil {
			return nil, err
		}
		return pairings, nil
	}
	if err != nil {
		return nil, err
	}

	var pairings []models.Pairing
	if err := attributevalue.UnmarshalListOfMaps(items, &pairings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pairings: %w", err)
	}

	return pairings, nil
}

// CreatePairingIfAbsent writes a pairing in a single transaction:
// the pairing item is conditioned on no pairing existing for the mentee,
// and the mentor's load counter is conditioned on staying below capacity.
// Either condition failing cancels the whole transaction and surfaces as
// ErrPairingConflict, so the capacity check stays valid at write time.
func (p *PairingService) CreatePairingIfAbsent(ctx context.Context, menteeID, mentorID string) (*models.Pairing, error) {
	pairing := models.Pairing{
		ID:        uuid.NewString(),
		MenteeID:  menteeID,
		MentorID:  mentorID,
		CreatedAt: time.Now().UTC(),
	}

	item, err := attributevalue.MarshalMap(pairing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pairing: %w", err)
	}

	transactItems := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(p.Table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(menteeId)"),
			},
		},
		{
			Update: &types.Update{
				TableName: aws.String(p.MentorLoadTable),
				Key: map[string]types.AttributeValue{
					"mentorId": &types.AttributeValueMemberS{Value: mentorID},
				},
				UpdateExpression:    aws.String("ADD assigned :one"),
				ConditionExpression: aws.String("attribute_not_exists(assigned) OR assigned < :cap"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":one": &types.AttributeValueMemberN{Value: "1"},
					":cap": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", p.Capacity)},
				},
			},
		},
	}

	if err := p.Dynamo.TransactWriteItems(ctx, transactItems); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			p.Logger.Info("Pairing write lost a race",
				zap.String("menteeId", menteeID),
				zap.String("mentorId", mentorID))
			return nil, ErrPairingConflict
		}
		return nil, fmt.Errorf("failed to create pairing: %w", err)
	}

	p.Logger.Info("Pairing created",
		zap.String("pairingId", pairing.ID),
		zap.String("menteeId", menteeID),
		zap.String("mentorId", mentorID))
	return &pairing, nil
}
