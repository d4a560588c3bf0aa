package bdb

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/we"
)

const keyPrefix = "slot/"

type Options struct {
	Path     string
	InMemory bool
	Logger   *zerolog.Logger
}

// BadgerSlotStore keeps the latest record of each slot in an embedded badger
// database.
type BadgerSlotStore struct {
	db       *badger.DB
	revision *we.RevisionGenerator
}

type storedRecord struct {
	Revision    string
	Timestamp   string
	Correlation string
	Data        []byte
}

func Open(options Options) (*BadgerSlotStore, error) {
	logger := options.Logger
	if logger == nil {
		logger = &log.Logger
	}

	opts := badger.DefaultOptions(options.Path).
		WithInMemory(options.InMemory).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger")
	}

	return &BadgerSlotStore{db: db, revision: we.NewRevisionGenerator()}, nil
}

func (s *BadgerSlotStore) Close() error {
	return s.db.Close()
}

func key(id we.SlotId) []byte {
	return []byte(keyPrefix + id.Encode().String())
}

func (s *BadgerSlotStore) Load(ctx context.Context, id we.SlotId) (we.Record, error) {
	if err := ctx.Err(); err != nil {
		return we.Record{}, err
	}

	record := we.EmptyRecord(id)
	err := s.db.View(func(txn *badger.Txn) error {
		stored, err := read(txn, id)
		if err != nil || stored == nil {
			return err
		}

		record.Revision = we.Revision(stored.Revision)
		record.Timestamp = we.Timestamp(stored.Timestamp)
		record.Data = stored.Data

		return nil
	})

	if err != nil {
		return we.Record{}, err
	}

	return record, nil
}

func (s *BadgerSlotStore) Save(ctx context.Context, id we.SlotId, options we.SaveOptions, data []byte) (we.Revision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := time.Now()
	revision := s.revision.NewRevision(now)

	err := s.db.Update(func(txn *badger.Txn) error {
		current := we.InitialRevision
		stored, err := read(txn, id)
		if err != nil {
			return err
		}
		if stored != nil {
			current = we.Revision(stored.Revision)
		}

		if err := we.CheckExpectedRevision(current, options.ExpectedRevision); err != nil {
			return err
		}

		value, err := borsh.Serialize(storedRecord{
			Revision:    revision.String(),
			Timestamp:   we.TimestampFromTime(now).String(),
			Correlation: options.CorrelationId.String(),
			Data:        data,
		})
		if err != nil {
			return errors.Wrap(err, "failed to serialize record")
		}

		return txn.Set(key(id), value)
	})

	if errors.Is(err, badger.ErrConflict) {
		return "", we.RevisionConflict
	}

	if err != nil {
		return "", err
	}

	return revision, nil
}

func (s *BadgerSlotStore) Remove(ctx context.Context, id we.SlotId) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		count = 1
		return txn.Delete(key(id))
	})

	return count, err
}

func read(txn *badger.Txn, id we.SlotId) (*storedRecord, error) {
	item, err := txn.Get(key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stored := &storedRecord{}
	err = item.Value(func(value []byte) error {
		return borsh.Deserialize(stored, value)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read slot %s", id)
	}

	return stored, nil
}

type badgerLogger struct {
	logger *zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}
