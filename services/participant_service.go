package services

import (
	"context"
	"errors"
	"fmt"

	"padrinho_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ErrParticipantNotFound signals that no profile exists for the given ID
var ErrParticipantNotFound = errors.New("participant not found")

// ErrInvalidUpdate signals a profile edit that would corrupt or break the
// stored record (unknown field, wrong type, out-of-range value)
var ErrInvalidUpdate = errors.New("invalid profile update")

// ParticipantService gives typed access to participant records
type ParticipantService struct {
	Dynamo *DynamoService
	Table  string
	Logger *zap.Logger
}

func NewParticipantService(dynamo *DynamoService, table string, logger *zap.Logger) *ParticipantService {
	return &ParticipantService{Dynamo: dynamo, Table: table, Logger: logger}
}

// GetParticipant retrieves a participant profile by ID
func (ps *ParticipantService) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}

	item, err := ps.Dynamo.GetItem(ctx, ps.Table, key)
	if err != nil {
		return nil, err
	}

	if item == nil {
		return nil, ErrParticipantNotFound
	}

	var participant models.Participant
	if err := attributevalue.UnmarshalMap(item, &participant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant: %w", err)
	}

	return &participant, nil
}

// ListParticipants returns all participants, optionally filtered by role.
// Order is whatever the table scan yields; callers needing a stable order
// sort themselves.
func (ps *ParticipantService) ListParticipants(ctx context.Context, role string) ([]models.Participant, error) {
	matchFields := map[string]string{}
	if role != "" {
		matchFields["role"] = role
	}

	var participants []models.Participant
	if err := ps.Dynamo.ScanAll(ctx, ps.Table, matchFields, &participants); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// CreateParticipant stores a new participant profile. Writing the whole
// document mirrors the signup form, which always submits every field.
func (ps *ParticipantService) CreateParticipant(ctx context.Context, participant models.Participant) (*models.Participant, error) {
	if err := ps.Dynamo.PutItem(ctx, ps.Table, participant); err != nil {
		return nil, err
	}

	ps.Logger.Info("Participant profile created",
		zap.String("id", participant.ID),
		zap.String("role", participant.Role))
	return &participant, nil
}

// updatableFields are the profile attributes a PATCH may touch; id and role
// are immutable, anything else is rejected so no foreign attribute sneaks
// into the record.
var updatableFields = map[string]bool{
	"name":            true,
	"phone":           true,
	"pronouns":        true,
	"ethnicity":       true,
	"state":           true,
	"city":            true,
	"parties":         true,
	"games":           true,
	"sports":          true,
	"fieldOfInterest": true,
}

// UpdateParticipant applies a partial profile edit. The id and role fields
// are immutable and silently skipped. Values are marshaled with their
// native DynamoDB type, so numeric attributes stay numbers and the record
// remains readable afterwards.
func (ps *ParticipantService) UpdateParticipant(ctx context.Context, id string, updates map[string]interface{}) (*models.Participant, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		if k == "id" || k == "role" {
			continue
		}
		if !updatableFields[k] {
			return nil, fmt.Errorf("%w: field '%s' is not updatable", ErrInvalidUpdate, k)
		}
		if k == "parties" {
			if err := validateParties(v); err != nil {
				return nil, err
			}
		}

		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field '%s': %w", k, err)
		}

		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","

		expressionAttributeValues[placeholder] = av
		expressionAttributeNames[attributeName] = k
	}

	if len(expressionAttributeValues) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields in request", ErrInvalidUpdate)
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ps.Dynamo.UpdateItem(ctx, ps.Table, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updated models.Participant
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated participant: %w", err)
	}

	return &updated, nil
}

// validateParties checks that a parties edit is a whole number in the 0-10
// slider range. JSON decoding hands numbers over as float64.
func validateParties(v interface{}) error {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case int:
		n = float64(value)
	default:
		return fmt.Errorf("%w: parties must be a number, got %T", ErrInvalidUpdate, v)
	}

	if n != float64(int(n)) || n < 0 || n > 10 {
		return fmt.Errorf("%w: parties must be a whole number between 0 and 10, got %v", ErrInvalidUpdate, n)
	}
	return nil
}
