package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"padrinho_server/models"
	"padrinho_server/services"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDynamoAPI implements services.DynamoDBAPI with overridable behavior
type fakeDynamoAPI struct {
	getItem  func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putItem  func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	update   func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	query    func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	scan     func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	transact func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)
}

func (f *fakeDynamoAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return f.getItem(params)
}

func (f *fakeDynamoAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.putItem(params)
}

func (f *fakeDynamoAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return f.update(params)
}

func (f *fakeDynamoAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return f.query(params)
}

func (f *fakeDynamoAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return f.scan(params)
}

func (f *fakeDynamoAPI) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return f.transact(params)
}

func newPairingService(api *fakeDynamoAPI, capacity int) *services.PairingService {
	dynamo := &services.DynamoService{Client: api}
	return services.NewPairingService(dynamo, models.PairingsTable, models.MentorLoadTable, capacity, zap.NewNop())
}

func TestCreatePairingIfAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("writes pairing and load counter in one transaction", func(t *testing.T) {
		var captured *dynamodb.TransactWriteItemsInput
		api := &fakeDynamoAPI{
			transact: func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				captured = input
				return &dynamodb.TransactWriteItemsOutput{}, nil
			},
		}
		service := newPairingService(api, 2)

		pairing, err := service.CreatePairingIfAbsent(ctx, "mentee-1", "mentor-1")

		require.NoError(t, err)
		assert.NotEmpty(t, pairing.ID)
		assert.Equal(t, "mentee-1", pairing.MenteeID)
		assert.Equal(t, "mentor-1", pairing.MentorID)
		assert.WithinDuration(t, time.Now().UTC(), pairing.CreatedAt, time.Minute)

		require.NotNil(t, captured)
		require.Len(t, captured.TransactItems, 2)

		put := captured.TransactItems[0].Put
		require.NotNil(t, put)
		assert.Equal(t, models.PairingsTable, *put.TableName)
		assert.Equal(t, "attribute_not_exists(menteeId)", *put.ConditionExpression)

		// Stored as an RFC3339 string, so the timestamp round-trips
		created, ok := put.Item["createdAt"].(*types.AttributeValueMemberS)
		require.True(t, ok)
		parsed, err := time.Parse(time.RFC3339Nano, created.Value)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(pairing.CreatedAt))

		update := captured.TransactItems[1].Update
		require.NotNil(t, update)
		assert.Equal(t, models.MentorLoadTable, *update.TableName)
		assert.Equal(t, "ADD assigned :one", *update.UpdateExpression)
		assert.Equal(t, "attribute_not_exists(assigned) OR assigned < :cap", *update.ConditionExpression)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "2"}, update.ExpressionAttributeValues[":cap"])
	})

	t.Run("cancelled transaction maps to conflict", func(t *testing.T) {
		api := &fakeDynamoAPI{
			transact: func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				return nil, &types.TransactionCanceledException{}
			},
		}
		service := newPairingService(api, 2)

		pairing, err := service.CreatePairingIfAbsent(ctx, "mentee-1", "mentor-1")

		assert.Nil(t, pairing)
		assert.ErrorIs(t, err, services.ErrPairingConflict)
	})

	t.Run("transport failure is not a conflict", func(t *testing.T) {
		boom := errors.New("connection reset")
		api := &fakeDynamoAPI{
			transact: func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				return nil, boom
			},
		}
		service := newPairingService(api, 2)

		_, err := service.CreatePairingIfAbsent(ctx, "mentee-1", "mentor-1")

		assert.NotErrorIs(t, err, services.ErrPairingConflict)
		assert.ErrorIs(t, err, boom)
	})
}

func TestListPairings(t *testing.T) {
	ctx := context.Background()

	marshal := func(t *testing.T, pairing models.Pairing) map[string]types.AttributeValue {
		item, err := attributevalue.MarshalMap(pairing)
		require.NoError(t, err)
		return item
	}

	t.Run("by mentee queries the table key", func(t *testing.T) {
		var captured *dynamodb.QueryInput
		api := &fakeDynamoAPI{
			query: func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
				captured = input
				return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
					marshal(t, models.Pairing{ID: "p1", MenteeID: "mentee-1", MentorID: "mentor-1"}),
				}}, nil
			},
		}
		service := newPairingService(api, 2)

		pairings, err := service.ListPairings(ctx, "mentee-1", "")

		require.NoError(t, err)
		require.Len(t, pairings, 1)
		assert.Equal(t, "p1", pairings[0].ID)
		assert.Nil(t, captured.IndexName)
		assert.Equal(t, "menteeId = :menteeId", *captured.KeyConditionExpression)
	})

	t.Run("by mentor queries the GSI", func(t *testing.T) {
		var captured *dynamodb.QueryInput
		api := &fakeDynamoAPI{
			query: func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
				captured = input
				return &dynamodb.QueryOutput{}, nil
			},
		}
		service := newPairingService(api, 2)

		_, err := service.ListPairings(ctx, "", "mentor-1")

		require.NoError(t, err)
		require.NotNil(t, captured.IndexName)
		assert.Equal(t, models.MentorIndex, *captured.IndexName)
		assert.Equal(t, "mentorId = :mentorId", *captured.KeyConditionExpression)
	})

	t.Run("no filter scans everything, following pagination", func(t *testing.T) {
		pageKey := map[string]types.AttributeValue{
			"menteeId": &types.AttributeValueMemberS{Value: "mentee-1"},
		}
		calls := 0
		api := &fakeDynamoAPI{
			scan: func(input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				calls++
				if calls == 1 {
					return &dynamodb.ScanOutput{
						Items: []map[string]types.AttributeValue{
							marshal(t, models.Pairing{ID: "p1", MenteeID: "mentee-1", MentorID: "mentor-1"}),
						},
						LastEvaluatedKey: pageKey,
					}, nil
				}
				assert.Equal(t, pageKey, input.ExclusiveStartKey)
				return &dynamodb.ScanOutput{
					Items: []map[string]types.AttributeValue{
						marshal(t, models.Pairing{ID: "p2", MenteeID: "mentee-2", MentorID: "mentor-1"}),
					},
				}, nil
			},
		}
		service := newPairingService(api, 2)

		pairings, err := service.ListPairings(ctx, "", "")

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		require.Len(t, pairings, 2)
		assert.Equal(t, "p2", pairings[1].ID)
	})
}
