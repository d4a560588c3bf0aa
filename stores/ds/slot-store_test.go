package ds

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/we"
)

func TestDynamoDBStore(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	store, tearDown, err := DynamoTestStore(ctx)
	if err != nil {
		t.Fatalf("failed to create test store. %+v", err)
	}

	defer tearDown()

	suite := we.NewSlotStoreValidationSuite(ctx, store)

	t.Run("dynamodb slot store validation", func(t *testing.T) {
		suite.Run(t)
	})

	t.Run("keeps a history item per revision", func(t *testing.T) {
		id := suite.MakeTestSlotId()

		first, err := store.Save(ctx, id, we.Options(we.WithExpectedRevision(we.InitialRevision)), suite.MakeTestData())
		require.NoError(t, err)
		_, err = store.Save(ctx, id, we.Options(we.WithExpectedRevision(first)), suite.MakeTestData())
		require.NoError(t, err)

		count, err := store.Remove(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		record, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.False(t, record.Exists())
	})

	t.Run("records the correlation id", func(t *testing.T) {
		id := suite.MakeTestSlotId()
		options := we.Options(we.WithCorrelationId("request-7"))

		revision, err := store.Save(ctx, id, options, suite.MakeTestData())
		require.NoError(t, err)

		record := store.makeRecord(id, options, nil)
		assert.Equal(t, "request-7", record.Correlation)
		assert.Greater(t, record.Revision.String(), revision.String())
	})
}

func TestLatestCondition(t *testing.T) {
	revision := we.NewRevisionGenerator().NewRevision(time.Now())

	for _, expected := range []we.Revision{"", we.InitialRevision, revision} {
		_, err := expression.NewBuilder().WithCondition(latestCondition(revision, expected)).Build()
		assert.NoError(t, err)
	}
}

func TestMaybeRevisionConflict(t *testing.T) {
	assert.Nil(t, maybeRevisionConflict(nil))

	cancelled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}
	assert.Equal(t, we.RevisionConflict, maybeRevisionConflict(cancelled))

	other := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("ThrottlingError")}},
	}
	assert.Equal(t, other, maybeRevisionConflict(other))
}
