package we_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weegigs/wee-counter-go/we"
)

type tally struct {
	Count uint16
}

type Bump struct {
	By uint16 `json:"by"`
}

type Peek struct{}

type Explode struct{}

var errBoom = errors.New("boom")

func bump() we.Handler[tally] {
	var handler we.HandlerFunction[tally, Bump] = func(ctx context.Context, call Bump, state *tally, log we.Logger) (any, error) {
		state.Count += call.By
		log.Log("bumped")
		return nil, nil
	}

	return handler
}

func peek() we.Handler[tally] {
	var handler we.HandlerFunction[tally, Peek] = func(ctx context.Context, _ Peek, state *tally, _ we.Logger) (any, error) {
		return state.Count, nil
	}

	return handler
}

func explode() we.Handler[tally] {
	var handler we.HandlerFunction[tally, Explode] = func(ctx context.Context, _ Explode, state *tally, log we.Logger) (any, error) {
		state.Count = 999
		log.Log("about to fail")
		panic(errBoom)
	}

	return handler
}

func tallyDescriptor() we.ServiceDescriptor[tally] {
	return we.ServiceDescriptor[tally]{
		Initial: func() *tally { return &tally{} },
		Views: map[we.MethodName]func() we.Handler[tally]{
			we.MethodNameOf(Peek{}): peek,
		},
		Changes: map[we.MethodName]func() we.Handler[tally]{
			we.MethodNameOf(Bump{}):    bump,
			we.MethodNameOf(Explode{}): explode,
		},
	}
}

func TestRoutedDispatcher(t *testing.T) {
	ctx := context.Background()
	dispatcher := tallyDescriptor().Dispatcher()

	t.Run("routes changes", func(t *testing.T) {
		state := &tally{}
		logs := &we.Logs{}

		dispatched, err := dispatcher.Dispatch(ctx, state, Bump{By: 2}, logs)
		require.NoError(t, err)

		assert.True(t, dispatched.Mutates)
		assert.Equal(t, we.MethodName("bump"), dispatched.Method)
		assert.Equal(t, uint16(2), state.Count)
		assert.Equal(t, []string{"bumped"}, logs.Messages())
	})

	t.Run("accepts pointers to calls", func(t *testing.T) {
		state := &tally{}

		_, err := dispatcher.Dispatch(ctx, state, &Bump{By: 4}, &we.Logs{})
		require.NoError(t, err)
		assert.Equal(t, uint16(4), state.Count)
	})

	t.Run("routes views", func(t *testing.T) {
		dispatched, err := dispatcher.Dispatch(ctx, &tally{Count: 7}, Peek{}, &we.Logs{})
		require.NoError(t, err)

		assert.False(t, dispatched.Mutates)
		assert.Equal(t, uint16(7), dispatched.Result)
	})

	t.Run("decodes remote arguments", func(t *testing.T) {
		state := &tally{}
		call := we.RemoteCall{Method: "bump", Args: json.RawMessage(`{"by": 3}`)}

		dispatched, err := dispatcher.Dispatch(ctx, state, call, &we.Logs{})
		require.NoError(t, err)
		assert.True(t, dispatched.Mutates)
		assert.Equal(t, uint16(3), state.Count)
	})

	t.Run("rejects malformed remote arguments", func(t *testing.T) {
		call := we.RemoteCall{Method: "bump", Args: json.RawMessage(`{"by": "three"}`)}

		_, err := dispatcher.Dispatch(ctx, &tally{}, call, &we.Logs{})

		var invalid *we.InvalidArgumentsError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, we.MethodName("bump"), invalid.Method)
	})

	t.Run("reports unknown methods", func(t *testing.T) {
		_, err := dispatcher.Dispatch(ctx, &tally{}, we.RemoteCall{Method: "missing"}, &we.Logs{})

		var notFound we.MethodNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "unknown method: missing", err.Error())
	})

	t.Run("aborts panicking calls", func(t *testing.T) {
		_, err := dispatcher.Dispatch(ctx, &tally{}, Explode{}, &we.Logs{})

		var aborted *we.CallAbortedError
		require.True(t, errors.As(err, &aborted))
		assert.Equal(t, we.MethodName("explode"), aborted.Method)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("aborts calls panicking with non errors", func(t *testing.T) {
		d := &we.RoutedDispatcher[tally]{
			Changes: we.Handlers[tally]{
				"explode": we.HandlerFunction[tally, Explode](func(ctx context.Context, _ Explode, _ *tally, _ we.Logger) (any, error) {
					panic("lost")
				}),
			},
		}

		_, err := d.Dispatch(ctx, &tally{}, Explode{}, &we.Logs{})

		var aborted *we.CallAbortedError
		require.True(t, errors.As(err, &aborted))
		assert.Equal(t, "lost", aborted.Cause)
		assert.Nil(t, aborted.Unwrap())
	})
}
