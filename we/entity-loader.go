package we

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

type EntityLoader[T any] struct {
	Loader  SlotLoader
	Codec   StateCodec[T]
	Initial func() *T
}

func NewEntityLoader[T any](loader SlotLoader, codec StateCodec[T], initial func() *T) *EntityLoader[T] {
	return &EntityLoader[T]{Loader: loader, Codec: codec, Initial: initial}
}

// Load reads the slot and decodes its state. Slots without a record are
// default constructed with Initial.
func (l *EntityLoader[T]) Load(ctx context.Context, id SlotId) (Entity[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "load entity")
	defer span.End()

	record, err := l.Loader(ctx, id)
	if err != nil {
		span.RecordError(err)
		return Entity[T]{}, err
	}

	var state *T
	if record.Exists() {
		state, err = l.Codec.Decode(record.Data)
		if err != nil {
			span.RecordError(err)
			return Entity[T]{}, errors.Wrapf(err, "failed to decode slot %s", id)
		}
	} else {
		state = l.initial()
	}

	revision := record.Revision
	if revision == "" {
		revision = InitialRevision
	}

	return Entity[T]{
		Slot:     id,
		Revision: revision,
		Type:     EntityTypeOf(*state),
		State:    state,
	}, nil
}

func (l *EntityLoader[T]) initial() *T {
	if l.Initial == nil {
		return new(T)
	}

	return l.Initial()
}
