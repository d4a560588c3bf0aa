package we

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Handlers[T any] map[MethodName]Handler[T]

type Dispatcher[T any] interface {
	Dispatch(ctx context.Context, state *T, call Call, log Logger) (Dispatched, error)
}

// Dispatched describes a call that ran to completion.
type Dispatched struct {
	Method  MethodName
	Result  any
	Mutates bool
}

// RoutedDispatcher routes calls by method name. Views never mutate state and
// are never persisted; changes are.
type RoutedDispatcher[T any] struct {
	Views   Handlers[T]
	Changes Handlers[T]
}

func (d *RoutedDispatcher[T]) Resolve(call Call) (MethodName, Handler[T], bool, error) {
	method := MethodNameOf(call)

	if handler := d.Changes[method]; handler != nil {
		return method, handler, true, nil
	}

	if handler := d.Views[method]; handler != nil {
		return method, handler, false, nil
	}

	return method, nil, false, MethodNotFound(method)
}

func (d *RoutedDispatcher[T]) Dispatch(ctx context.Context, state *T, call Call, log Logger) (Dispatched, error) {
	method, handler, mutates, err := d.Resolve(call)

	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("dispatch %s", method))
	defer span.End()

	if err != nil {
		span.RecordError(err)
		return Dispatched{Method: method}, err
	}

	span.SetAttributes(attribute.Bool("mutates", mutates))

	result, err := execute(ctx, method, handler, call, state, log)
	if err != nil {
		span.RecordError(err)
		return Dispatched{Method: method}, err
	}

	return Dispatched{Method: method, Result: result, Mutates: mutates}, nil
}

func execute[T any](ctx context.Context, method MethodName, handler Handler[T], call Call, state *T, log Logger) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = CallAborted(method, r)
		}
	}()

	switch c := call.(type) {
	case RemoteCall:
		return handler.HandleRemoteCall(ctx, c, state, log)
	case *RemoteCall:
		return handler.HandleRemoteCall(ctx, *c, state, log)
	default:
		return handler.HandleCall(ctx, c, state, log)
	}
}
