package we

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "we-counter"

type EntityService[T any] interface {
	Load(ctx context.Context, id SlotId) (Entity[T], error)
	Execute(ctx context.Context, id SlotId, call Call) (Outcome[T], error)
}

// Outcome is the result of one external call.
type Outcome[T any] struct {
	Entity    Entity[T]
	Method    MethodName
	Result    any
	Logs      []string
	Committed bool
}

type ServiceOption func(options *serviceOptions)

type serviceOptions struct {
	attempts   uint
	publishers []LogPublisher
	metrics    *Metrics
	log        *zerolog.Logger
}

func WithAttempts(attempts uint) ServiceOption {
	return func(options *serviceOptions) {
		if attempts > 0 {
			options.attempts = attempts
		}
	}
}

func WithLogPublisher(publishers ...LogPublisher) ServiceOption {
	return func(options *serviceOptions) {
		options.publishers = append(options.publishers, publishers...)
	}
}

func WithMetrics(metrics *Metrics) ServiceOption {
	return func(options *serviceOptions) {
		options.metrics = metrics
	}
}

func WithLogger(logger *zerolog.Logger) ServiceOption {
	return func(options *serviceOptions) {
		options.log = logger
	}
}

func NewEntityService[T any](loader *EntityLoader[T], dispatcher *RoutedDispatcher[T], saver SlotSaver, options ...ServiceOption) *entityService[T] {
	opts := serviceOptions{attempts: 5}
	for _, option := range options {
		option(&opts)
	}
	if opts.log == nil {
		opts.log = &log.Logger
	}

	return &entityService[T]{
		loader:     loader,
		dispatcher: dispatcher,
		saver:      saver,
		options:    opts,
	}
}

type entityService[T any] struct {
	loader     *EntityLoader[T]
	dispatcher *RoutedDispatcher[T]
	saver      SlotSaver
	options    serviceOptions
}

func (s *entityService[T]) Load(ctx context.Context, id SlotId) (Entity[T], error) {
	return s.loader.Load(ctx, id)
}

// Execute loads the slot, dispatches exactly one call against it and, for
// mutating calls, stores the result guarded by the loaded revision. The cycle
// is repeated when another writer commits first.
func (s *entityService[T]) Execute(ctx context.Context, id SlotId, call Call) (Outcome[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "execute call")
	defer span.End()

	start := time.Now()
	method := MethodNameOf(call)
	span.SetAttributes(attribute.String("slot", id.String()), attribute.String("method", method.String()))

	var outcome Outcome[T]
	err := retry.Do(
		func() error {
			o, err := s.attempt(ctx, id, call)
			if err != nil {
				return err
			}

			outcome = o
			return nil
		},
		retry.RetryIf(IsRevisionConflict),
		retry.Attempts(s.options.attempts),
		retry.Delay(5*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	s.options.metrics.Observe(method, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		return Outcome[T]{}, err
	}

	if outcome.Committed {
		s.publish(ctx, outcome)
	}

	return outcome, nil
}

func (s *entityService[T]) attempt(ctx context.Context, id SlotId, call Call) (Outcome[T], error) {
	entity, err := s.loader.Load(ctx, id)
	if err != nil {
		return Outcome[T]{}, err
	}

	logs := &Logs{}
	dispatched, err := s.dispatcher.Dispatch(ctx, entity.State, call, logs)
	if err != nil {
		return Outcome[T]{}, err
	}

	outcome := Outcome[T]{
		Entity: entity,
		Method: dispatched.Method,
		Result: dispatched.Result,
		Logs:   logs.Messages(),
	}

	if !dispatched.Mutates {
		return outcome, nil
	}

	data, err := s.loader.Codec.Encode(entity.State)
	if err != nil {
		return Outcome[T]{}, err
	}

	options := Options(
		WithExpectedRevision(entity.Revision),
		WithCorrelationId(CorrelationFrom(ctx)),
	)

	revision, err := s.saver(ctx, id, options, data)
	if err != nil {
		return Outcome[T]{}, err
	}

	outcome.Entity.Revision = revision
	outcome.Committed = true

	return outcome, nil
}

func (s *entityService[T]) publish(ctx context.Context, outcome Outcome[T]) {
	if len(outcome.Logs) == 0 {
		return
	}

	for _, publisher := range s.options.publishers {
		err := publisher.PublishLogs(ctx, outcome.Entity.Slot, outcome.Entity.Revision, outcome.Logs)
		if err != nil {
			s.options.log.Warn().Err(err).Str("slot", outcome.Entity.Slot.String()).Msg("failed to publish call logs")
		}
	}
}
