package we

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func NewSlotStoreValidationSuite(ctx context.Context, store SlotStore) *SlotStoreValidationSuite {
	return &SlotStoreValidationSuite{
		store: store,
		ctx:   ctx,
		faker: faker.New(),
	}
}

type SlotStoreValidationSuite struct {
	store SlotStore
	ctx   context.Context
	faker faker.Faker
}

func (s *SlotStoreValidationSuite) Run(t *testing.T) {
	t.Run("loads an initial revision", s.LoadInitial)
	t.Run("saves and loads a record", s.SavesAndLoads)
	t.Run("overwrites an unguarded record", s.OverwritesUnguarded)
	t.Run("saves with the expected revision", s.SavesWithExpectedRevision)
	t.Run("returns a revision conflict with an initial revision", s.RevisionConflictOnInitialRevision)
	t.Run("returns a revision conflict on a stale revision", s.RevisionConflictOnStaleRevision)
	t.Run("issues increasing revisions", s.IncreasingRevisions)

	if _, ok := s.store.(SlotRemover); ok {
		t.Run("removes slots", s.Removes)
	}
}

func (s *SlotStoreValidationSuite) MakeTestSlotId() SlotId {
	return SlotId{
		Type: "go-test",
		Key:  ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
	}
}

func (s *SlotStoreValidationSuite) MakeTestData() []byte {
	return []byte(s.faker.Lorem().Sentence(10))
}

func (s *SlotStoreValidationSuite) LoadInitial(t *testing.T) {
	id := s.MakeTestSlotId()
	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.Empty(t, record.Data)
	assert.False(t, record.Exists())
	assert.Equal(t, InitialRevision, record.Revision)
	assert.EqualValues(t, id, record.Id)
}

func (s *SlotStoreValidationSuite) SavesAndLoads(t *testing.T) {
	id := s.MakeTestSlotId()
	data := s.MakeTestData()

	revision, err := s.store.Save(s.ctx, id, Options(), data)
	if !assert.Nil(t, err) {
		return
	}
	assert.NotEqual(t, InitialRevision, revision)

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.True(t, record.Exists())
	assert.Equal(t, revision, record.Revision)
	assert.Equal(t, data, record.Data)
	assert.EqualValues(t, id, record.Id)
}

func (s *SlotStoreValidationSuite) OverwritesUnguarded(t *testing.T) {
	id := s.MakeTestSlotId()

	_, err := s.store.Save(s.ctx, id, Options(), s.MakeTestData())
	if !assert.Nil(t, err) {
		return
	}

	data := s.MakeTestData()
	revision, err := s.store.Save(s.ctx, id, Options(), data)
	if !assert.Nil(t, err) {
		return
	}

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, revision, record.Revision)
	assert.Equal(t, data, record.Data)
}

func (s *SlotStoreValidationSuite) SavesWithExpectedRevision(t *testing.T) {
	id := s.MakeTestSlotId()

	first, err := s.store.Save(s.ctx, id, Options(WithExpectedRevision(InitialRevision)), s.MakeTestData())
	if !assert.Nil(t, err) {
		return
	}

	data := s.MakeTestData()
	second, err := s.store.Save(s.ctx, id, Options(WithExpectedRevision(first)), data)
	if !assert.Nil(t, err) {
		return
	}

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, second, record.Revision)
	assert.Equal(t, data, record.Data)
}

func (s *SlotStoreValidationSuite) RevisionConflictOnInitialRevision(t *testing.T) {
	id := s.MakeTestSlotId()

	_, err := s.store.Save(s.ctx, id, Options(), s.MakeTestData())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, Options(WithExpectedRevision(InitialRevision)), s.MakeTestData())
	assert.NotNil(t, err)
	assert.Equal(t, RevisionConflict, err)
}

func (s *SlotStoreValidationSuite) RevisionConflictOnStaleRevision(t *testing.T) {
	id := s.MakeTestSlotId()

	first, err := s.store.Save(s.ctx, id, Options(), s.MakeTestData())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, Options(), s.MakeTestData())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, Options(WithExpectedRevision(first)), s.MakeTestData())
	assert.NotNil(t, err)
	assert.Equal(t, RevisionConflict, err)
}

func (s *SlotStoreValidationSuite) IncreasingRevisions(t *testing.T) {
	id := s.MakeTestSlotId()

	var last Revision = InitialRevision
	for i := 0; i < 5; i++ {
		revision, err := s.store.Save(s.ctx, id, Options(WithExpectedRevision(last)), s.MakeTestData())
		if !assert.Nil(t, err) {
			return
		}

		assert.Greater(t, revision.String(), last.String())
		last = revision
	}
}

func (s *SlotStoreValidationSuite) Removes(t *testing.T) {
	remover := s.store.(SlotRemover)
	id := s.MakeTestSlotId()

	_, err := s.store.Save(s.ctx, id, Options(), s.MakeTestData())
	if !assert.Nil(t, err) {
		return
	}

	count, err := remover.Remove(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}
	assert.Greater(t, count, 0)

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, InitialRevision, record.Revision)
}
