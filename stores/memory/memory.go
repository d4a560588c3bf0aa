package memory

import (
	"context"
	"sync"
	"time"

	"github.com/weegigs/wee-counter-go/we"
)

// SlotStore keeps slot records in process memory. It is safe for concurrent
// use and is intended for tests and local runs.
type SlotStore struct {
	lk       sync.RWMutex
	records  map[we.EncodedSlotId]we.Record
	revision *we.RevisionGenerator
}

func NewSlotStore() *SlotStore {
	return &SlotStore{
		records:  make(map[we.EncodedSlotId]we.Record),
		revision: we.NewRevisionGenerator(),
	}
}

func (s *SlotStore) Load(ctx context.Context, id we.SlotId) (we.Record, error) {
	if err := ctx.Err(); err != nil {
		return we.Record{}, err
	}

	s.lk.RLock()
	defer s.lk.RUnlock()

	record, ok := s.records[id.Encode()]
	if !ok {
		return we.EmptyRecord(id), nil
	}

	return clone(record), nil
}

func (s *SlotStore) Save(ctx context.Context, id we.SlotId, options we.SaveOptions, data []byte) (we.Revision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	key := id.Encode()
	current := we.InitialRevision
	if existing, ok := s.records[key]; ok {
		current = existing.Revision
	}

	if err := we.CheckExpectedRevision(current, options.ExpectedRevision); err != nil {
		return "", err
	}

	now := time.Now()
	revision := s.revision.NewRevision(now)
	s.records[key] = clone(we.Record{
		Id:        id,
		Revision:  revision,
		Timestamp: we.TimestampFromTime(now),
		Data:      data,
	})

	return revision, nil
}

func (s *SlotStore) Remove(ctx context.Context, id we.SlotId) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	key := id.Encode()
	if _, ok := s.records[key]; !ok {
		return 0, nil
	}

	delete(s.records, key)

	return 1, nil
}

func clone(record we.Record) we.Record {
	data := make([]byte, len(record.Data))
	copy(data, record.Data)
	record.Data = data

	return record
}
