package we

import (
	"context"
	"errors"
)

type CorrelationID string

func (id CorrelationID) String() string {
	return string(id)
}

type SlotLoader = func(ctx context.Context, id SlotId) (Record, error)
type SlotSaver = func(ctx context.Context, id SlotId, options SaveOptions, data []byte) (Revision, error)

// SlotStore persists one record per slot. Load returns an empty record with
// InitialRevision for slots that have never been saved.
type SlotStore interface {
	Load(ctx context.Context, id SlotId) (Record, error)
	Save(ctx context.Context, id SlotId, options SaveOptions, data []byte) (Revision, error)
}

type SlotRemover interface {
	Remove(ctx context.Context, id SlotId) (int, error)
}

func Loader(store SlotStore) SlotLoader {
	return store.Load
}

func Saver(store SlotStore) SlotSaver {
	return store.Save
}

var RevisionConflict = errors.New("revision-conflict")

func IsRevisionConflict(err error) bool {
	return errors.Is(err, RevisionConflict)
}

type SaveOptions struct {
	ExpectedRevision Revision
	CorrelationId    CorrelationID
}

type SaveOption func(modifier *SaveOptions)

func Options(options ...SaveOption) SaveOptions {
	modifiers := &SaveOptions{}
	for _, option := range options {
		option(modifiers)
	}

	return *modifiers
}

// WithExpectedRevision guards a save. An empty revision saves unconditionally,
// InitialRevision requires the slot to be absent.
func WithExpectedRevision(expectedRevision Revision) SaveOption {
	return func(modifier *SaveOptions) {
		modifier.ExpectedRevision = expectedRevision
	}
}

func WithCorrelationId(correlationId CorrelationID) SaveOption {
	return func(modifier *SaveOptions) {
		modifier.CorrelationId = correlationId
	}
}

// CheckExpectedRevision compares the stored revision of a slot against the
// revision a save expects.
func CheckExpectedRevision(current Revision, expected Revision) error {
	if expected == "" {
		return nil
	}

	if current == "" {
		current = InitialRevision
	}

	if current != expected {
		return RevisionConflict
	}

	return nil
}

type correlationKey struct{}

func WithCorrelation(ctx context.Context, id CorrelationID) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationFrom(ctx context.Context) CorrelationID {
	id, _ := ctx.Value(correlationKey{}).(CorrelationID)
	return id
}
