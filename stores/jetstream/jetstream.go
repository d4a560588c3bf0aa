package jetstream

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/weegigs/wee-counter-go/internal"
	"github.com/weegigs/wee-counter-go/we"
)

type SlotStoreOption func(*SlotStore)

// WithClock replaces the clock used to stamp saves.
func WithClock(now func() time.Time) SlotStoreOption {
	return func(store *SlotStore) {
		if now != nil {
			store.now = now
		}
	}
}

const (
	prefix = "slot."

	correlationHeader = "We-Correlation-Id"
	timestampHeader   = "We-Timestamp"
)

// NewSlotStore keeps every save of a slot as a message on the slot's subject
// of a JetStream stream. Only the latest message per subject is retained.
func NewSlotStore(name string, connection *nats.Conn, options ...SlotStoreOption) (*SlotStore, error) {
	stream, err := connection.JetStream()
	if err != nil {
		return nil, err
	}

	_, err = stream.AddStream(&nats.StreamConfig{
		Name:              name,
		Description:       "slot stream for " + name,
		Subjects:          []string{prefix + ">"},
		MaxMsgsPerSubject: 1,
	})
	if err != nil {
		return nil, err
	}

	store := &SlotStore{
		name:    name,
		manager: stream,
		stream:  stream,
		now:     time.Now,
	}

	for _, option := range options {
		option(store)
	}

	return store, nil
}

type SlotStore struct {
	name    string
	manager nats.JetStreamManager
	stream  nats.JetStream
	now     func() time.Time
}

func subject(id we.SlotId) string {
	return prefix + id.Encode().String()
}

func (s *SlotStore) Load(ctx context.Context, id we.SlotId) (we.Record, error) {
	msg, err := s.manager.GetLastMsg(s.name, subject(id), nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrMsgNotFound) {
			return we.EmptyRecord(id), nil
		}

		return we.Record{}, err
	}

	if len(msg.Data) == 0 {
		return we.EmptyRecord(id), nil
	}

	at := msg.Time
	if stamp := msg.Header.Get(timestampHeader); stamp != "" {
		millis, err := strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			return we.Record{}, err
		}
		at = time.UnixMilli(millis)
	}

	revision, err := internal.SequenceRevision(at, msg.Sequence)
	if err != nil {
		return we.Record{}, err
	}

	return we.Record{
		Id:        id,
		Revision:  revision,
		Timestamp: we.TimestampFromTime(at),
		Data:      msg.Data,
	}, nil
}

func (s *SlotStore) Save(ctx context.Context, id we.SlotId, options we.SaveOptions, data []byte) (we.Revision, error) {
	now := s.now()

	msg := nats.NewMsg(subject(id))
	msg.Data = data
	msg.Header.Set(timestampHeader, strconv.FormatInt(now.UnixMilli(), 10))
	if options.CorrelationId != "" {
		msg.Header.Set(correlationHeader, options.CorrelationId.String())
	}

	var opts = []nats.PubOpt{nats.Context(ctx)}

	expected := options.ExpectedRevision
	if expected != "" {
		if expected == we.InitialRevision {
			opts = append(opts, nats.ExpectLastSequencePerSubject(0))
		} else {
			sequenceNumber, err := internal.SequenceOf(expected)
			if err != nil {
				return "", err
			}

			opts = append(opts, nats.ExpectLastSequencePerSubject(sequenceNumber))
		}
	}

	ack, err := s.stream.PublishMsg(msg, opts...)
	if err != nil {
		var api *nats.APIError
		if errors.As(err, &api) && api.ErrorCode == nats.JSErrCodeStreamWrongLastSequence {
			return "", we.RevisionConflict
		}
		return "", err
	}

	return internal.SequenceRevision(now, ack.Sequence)
}

func (s *SlotStore) Remove(ctx context.Context, id we.SlotId) (int, error) {
	_, err := s.manager.GetLastMsg(s.name, subject(id), nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrMsgNotFound) {
			return 0, nil
		}

		return 0, err
	}

	err = s.manager.PurgeStream(s.name, &nats.StreamPurgeRequest{Subject: subject(id)}, nats.Context(ctx))
	if err != nil {
		return 0, err
	}

	return 1, nil
}
