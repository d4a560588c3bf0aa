package counter

import (
	"context"

	"github.com/weegigs/wee-counter-go/we"
)

// views
func getNum() we.Handler[Counter] {
	var handler we.HandlerFunction[Counter, GetNum] = func(ctx context.Context, _ GetNum, state *Counter, _ we.Logger) (any, error) {
		return state.Value(), nil
	}

	return handler
}

// changes
func increment() we.Handler[Counter] {
	var handler we.HandlerFunction[Counter, Increment] = func(ctx context.Context, _ Increment, state *Counter, log we.Logger) (any, error) {
		state.Increment(log)
		return nil, nil
	}

	return handler
}

func decrement() we.Handler[Counter] {
	var handler we.HandlerFunction[Counter, Decrement] = func(ctx context.Context, _ Decrement, state *Counter, log we.Logger) (any, error) {
		state.Decrement(log)
		return nil, nil
	}

	return handler
}

func reset() we.Handler[Counter] {
	var handler we.HandlerFunction[Counter, Reset] = func(ctx context.Context, _ Reset, state *Counter, log we.Logger) (any, error) {
		state.Reset(log)
		return nil, nil
	}

	return handler
}

func updateTopThreshold() we.Handler[Counter] {
	var handler we.HandlerFunction[Counter, UpdateTopThreshold] = func(ctx context.Context, cmd UpdateTopThreshold, state *Counter, log we.Logger) (any, error) {
		state.SetUpperBound(cmd.Value, log)
		return nil, nil
	}

	return handler
}

func updateLowThreshold() we.Handler[Counter] {
	var handler we.HandlerFunction[Counter, UpdateLowThreshold] = func(ctx context.Context, cmd UpdateLowThreshold, state *Counter, log we.Logger) (any, error) {
		state.SetLowerBound(cmd.Value, log)
		return nil, nil
	}

	return handler
}
