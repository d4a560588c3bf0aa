package esdbs

import (
	"context"
	"io"
	"time"

	"github.com/EventStore/EventStore-Client-Go/esdb"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/internal"
	"github.com/weegigs/wee-counter-go/we"
)

const savedEventType = "slot-saved"

type SlotStoreOption func(*ESDBSlotStore)

func WithClock(now func() time.Time) SlotStoreOption {
	return func(es *ESDBSlotStore) {
		if now != nil {
			es.now = now
		}
	}
}

func NewSlotStore(client *esdb.Client, options ...SlotStoreOption) *ESDBSlotStore {
	store := &ESDBSlotStore{
		db:  client,
		now: time.Now,
	}

	for _, option := range options {
		option(store)
	}

	return store
}

// ESDBSlotStore appends every save of a slot to the slot's stream. Loading
// reads the newest event only.
type ESDBSlotStore struct {
	db  *esdb.Client
	now func() time.Time
}

type metadata struct {
	CorrelationId string `json:"$correlationId,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

func streamId(id we.SlotId) string {
	return id.Encode().String()
}

func (es *ESDBSlotStore) Save(ctx context.Context, id we.SlotId, options we.SaveOptions, data []byte) (we.Revision, error) {
	now := es.now()

	md, err := json.Marshal(metadata{
		CorrelationId: options.CorrelationId.String(),
		Timestamp:     now.UnixMilli(),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal metadata")
	}

	expected, err := expectedRevision(options.ExpectedRevision)
	if err != nil {
		return "", err
	}

	event := esdb.EventData{
		ContentType: esdb.BinaryContentType,
		EventType:   savedEventType,
		Data:        data,
		Metadata:    md,
	}

	result, err := es.db.AppendToStream(ctx, streamId(id), esdb.AppendToStreamOptions{ExpectedRevision: expected}, event)
	if err != nil {
		if errors.Is(err, esdb.ErrWrongExpectedStreamRevision) {
			return "", we.RevisionConflict
		}

		return "", errors.Wrap(err, "failed to append to stream")
	}

	return revisionOf(now, result.NextExpectedVersion)
}

func (es *ESDBSlotStore) Load(ctx context.Context, id we.SlotId) (we.Record, error) {
	event, err := es.latest(ctx, id)
	if err != nil {
		return we.Record{}, err
	}

	if event == nil {
		return we.EmptyRecord(id), nil
	}

	var md metadata
	if len(event.UserMetadata) > 0 {
		if err := json.Unmarshal(event.UserMetadata, &md); err != nil {
			return we.Record{}, errors.Wrap(err, "failed to unmarshal metadata")
		}
	}

	at := event.CreatedDate
	if md.Timestamp > 0 {
		at = time.UnixMilli(md.Timestamp)
	}

	revision, err := revisionOf(at, event.EventNumber)
	if err != nil {
		return we.Record{}, err
	}

	return we.Record{
		Id:        id,
		Revision:  revision,
		Timestamp: we.TimestampFromTime(at),
		Data:      event.Data,
	}, nil
}

func (es *ESDBSlotStore) Remove(ctx context.Context, id we.SlotId) (int, error) {
	event, err := es.latest(ctx, id)
	if err != nil {
		return 0, err
	}

	if event == nil {
		return 0, nil
	}

	_, err = es.db.DeleteStream(ctx, streamId(id), esdb.DeleteStreamOptions{ExpectedRevision: esdb.Any{}})
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete stream")
	}

	return int(event.EventNumber) + 1, nil
}

func (es *ESDBSlotStore) latest(ctx context.Context, id we.SlotId) (*esdb.RecordedEvent, error) {
	stream, err := es.db.ReadStream(
		ctx, streamId(id), esdb.ReadStreamOptions{
			Direction: esdb.Backwards,
			From:      esdb.End{},
		}, 1,
	)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to read stream")
	}
	defer stream.Close()

	event, err := stream.Recv()
	if err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to read event")
	}

	return event.OriginalEvent(), nil
}

func notFound(err error) bool {
	return errors.Is(err, esdb.ErrStreamNotFound) || errors.Is(err, io.EOF)
}

// The first event of a stream is event number 0, which would collide with
// the initial revision, so revisions carry the event number plus one.
func revisionOf(at time.Time, eventNumber uint64) (we.Revision, error) {
	return internal.SequenceRevision(at, eventNumber+1)
}

func expectedRevision(revision we.Revision) (esdb.ExpectedRevision, error) {
	switch revision {
	case "":
		return esdb.Any{}, nil
	case we.InitialRevision:
		return esdb.NoStream{}, nil
	}

	sequence, err := internal.SequenceOf(revision)
	if err != nil {
		return nil, errors.Wrap(err, "invalid expected revision")
	}

	if sequence == 0 {
		return nil, errors.New("invalid expected revision")
	}

	return esdb.Revision(sequence - 1), nil
}
