package esdbs

import (
	"context"
	"testing"
	"time"

	"github.com/EventStore/EventStore-Client-Go/esdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/we"
)

func TestSlotStore(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	store, cleanup, err := NewESDBTestStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	suite := we.NewSlotStoreValidationSuite(ctx, store)

	t.Run("esdb slot store validation", func(t *testing.T) {
		suite.Run(t)
	})

	t.Run("revisions follow the stream", func(t *testing.T) {
		id := suite.MakeTestSlotId()

		var last we.Revision = we.InitialRevision
		for i := 0; i < 3; i++ {
			last, err = store.Save(ctx, id, we.Options(we.WithExpectedRevision(last)), suite.MakeTestData())
			require.NoError(t, err)
		}

		record, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, last, record.Revision)

		count, err := store.Remove(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestExpectedRevision(t *testing.T) {
	unconditional, err := expectedRevision("")
	require.NoError(t, err)
	assert.Equal(t, esdb.Any{}, unconditional)

	none, err := expectedRevision(we.InitialRevision)
	require.NoError(t, err)
	assert.Equal(t, esdb.NoStream{}, none)

	revision, err := revisionOf(time.Now(), 4)
	require.NoError(t, err)

	expected, err := expectedRevision(revision)
	require.NoError(t, err)
	assert.Equal(t, esdb.Revision(4), expected)

	_, err = expectedRevision("not-a-revision")
	assert.Error(t, err)
}
