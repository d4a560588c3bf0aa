package ds

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

type SlotTableName string

func (name SlotTableName) String() string {
	return string(name)
}

type DynamoSlotStore struct {
	db       *dynamodb.Client
	table    string
	revision *we.RevisionGenerator
}

func NewSlotStore(db *dynamodb.Client, table SlotTableName) *DynamoSlotStore {
	return &DynamoSlotStore{db: db, table: table.String(), revision: we.NewRevisionGenerator()}
}

func (ds *DynamoSlotStore) Load(ctx context.Context, id we.SlotId) (we.Record, error) {
	key, err := attributevalue.MarshalMap(latestKey(id))
	if err != nil {
		return we.Record{}, err
	}

	out, err := ds.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(ds.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return we.Record{}, errors.Wrapf(err, "failed to load slot %s", id)
	}

	if len(out.Item) == 0 {
		return we.EmptyRecord(id), nil
	}

	var latest stateRecord
	if err := attributevalue.UnmarshalMap(out.Item, &latest); err != nil {
		return we.Record{}, err
	}

	return latest.Record()
}

func (ds *DynamoSlotStore) Save(ctx context.Context, id we.SlotId, options we.SaveOptions, data []byte) (we.Revision, error) {
	var revision we.Revision

	err := retry.Do(
		func() error {
			record := ds.makeRecord(id, options, data)
			revision = record.Revision

			return ds.write(ctx, record, options.ExpectedRevision)
		},
		retry.RetryIf(
			func(err error) bool {
				return we.IsRevisionConflict(err) && len(options.ExpectedRevision) == 0
			},
		),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	if err != nil {
		return "", err
	}

	return revision, nil
}

func (ds *DynamoSlotStore) Remove(ctx context.Context, id we.SlotId) (int, error) {
	query := expression.Key("pk").Equal(expression.Value(partitionKey(id)))
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"))

	builder := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection)
	expr, err := builder.Build()
	if err != nil {
		return 0, err
	}

	var count int
	var start map[string]types.AttributeValue
	for {
		query := &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			Limit:                     aws.Int32(25),
		}

		out, err := ds.db.Query(ctx, query)
		if err != nil {
			return count, err
		}

		if len(out.Items) > 0 {
			var keys []recordKey
			if err := attributevalue.UnmarshalListOfMaps(out.Items, &keys); err != nil {
				return count, err
			}

			actions := make([]types.TransactWriteItem, 0, len(keys))
			for _, k := range keys {
				key, err := attributevalue.MarshalMap(k)
				if err != nil {
					return count, err
				}

				actions = append(actions, types.TransactWriteItem{
					Delete: &types.Delete{
						Key:       key,
						TableName: aws.String(ds.table),
					},
				})
			}

			_, err = ds.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: actions})
			if err != nil {
				return count, err
			}

			count += len(keys)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return count, nil
}

// internal

func (ds *DynamoSlotStore) makeRecord(id we.SlotId, options we.SaveOptions, data []byte) *stateRecord {
	now := time.Now()
	revision := ds.revision.NewRevision(now)

	return &stateRecord{
		PartitionKey: partitionKey(id),
		SortKey:      sortKey(revision),
		Revision:     revision,
		Timestamp:    we.TimestampFromTime(now),
		Data:         data,
		Correlation:  options.CorrelationId.String(),
	}
}

func (ds *DynamoSlotStore) write(ctx context.Context, record *stateRecord, expected we.Revision) error {
	latest, err := attributevalue.MarshalMap(record.latest())
	if err != nil {
		return err
	}

	history, err := attributevalue.MarshalMap(record)
	if err != nil {
		return err
	}

	condition, err := expression.NewBuilder().WithCondition(latestCondition(record.Revision, expected)).Build()
	if err != nil {
		return err
	}

	write := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					Item:                                latest,
					TableName:                           aws.String(ds.table),
					ConditionExpression:                 condition.Condition(),
					ExpressionAttributeNames:            condition.Names(),
					ExpressionAttributeValues:           condition.Values(),
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureNone,
				},
			},
			{
				Put: &types.Put{
					Item:      history,
					TableName: aws.String(ds.table),
				},
			},
		},
	}

	_, err = ds.db.TransactWriteItems(ctx, write)
	return maybeRevisionConflict(err)
}

func latestCondition(revision we.Revision, expected we.Revision) expression.ConditionBuilder {
	if len(expected) == 0 {
		return expression.Name("revision").LessThan(expression.Value(revision)).Or(
			expression.AttributeNotExists(expression.Name("revision")),
		)
	}

	if expected == we.InitialRevision {
		return expression.AttributeNotExists(expression.Name("revision"))
	}

	return expression.Name("revision").Equal(expression.Value(expected))
}

func maybeRevisionConflict(err error) error {
	if err == nil {
		return nil
	}

	var cancelled *types.TransactionCanceledException
	if errors.As(err, &cancelled) {
		for _, reason := range cancelled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return we.RevisionConflict
			}
		}
	}

	var api smithy.APIError
	if errors.As(err, &api) && api.ErrorCode() == "ConditionalCheckFailedException" {
		return we.RevisionConflict
	}

	return err
}
