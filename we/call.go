package we

import (
	"bytes"
	"context"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"
)

type MethodName string

func (name MethodName) String() string {
	return string(name)
}

type Call any

// RemoteCall is a call received over a transport, with JSON encoded
// arguments.
type RemoteCall struct {
	Method MethodName      `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// ArgsOf returns the JSON arguments of a remote call. Missing or null
// arguments decode as an empty object so calls with required arguments can
// reject them.
func ArgsOf(call RemoteCall) []byte {
	args := bytes.TrimSpace(call.Args)
	if len(args) == 0 || bytes.Equal(args, []byte("null")) {
		return []byte("{}")
	}

	return args
}

// NormalizeMethodName maps external spellings such as "updateTopThreshold" or
// "update-top-threshold" onto the canonical snake case method name.
func NormalizeMethodName(name string) MethodName {
	return MethodName(strcase.ToSnake(name))
}

func MethodNameOf(call Call) MethodName {
	var name MethodName
	switch c := call.(type) {
	case RemoteCall:
		name = NormalizeMethodName(c.Method.String())
	case *RemoteCall:
		name = NormalizeMethodName(c.Method.String())
	case Named:
		name = MethodName(c.TypeName())
	default:
		name = NormalizeMethodName(typeNameOf(call))
	}

	return name
}

type Handler[T any] interface {
	HandleCall(ctx context.Context, call Call, state *T, log Logger) (any, error)
	HandleRemoteCall(ctx context.Context, call RemoteCall, state *T, log Logger) (any, error)
}

type HandlerFunction[T any, C any] func(ctx context.Context, call C, state *T, log Logger) (any, error)

func (f HandlerFunction[T, C]) HandleCall(ctx context.Context, call Call, state *T, log Logger) (any, error) {
	c, ok := call.(C)
	if !ok {
		if p, ok := call.(*C); ok && p != nil {
			return f(ctx, *p, state, log)
		}
		return nil, UnexpectedCall(call)
	}

	return f(ctx, c, state, log)
}

func (f HandlerFunction[T, C]) HandleRemoteCall(ctx context.Context, call RemoteCall, state *T, log Logger) (any, error) {
	var c C

	if err := json.Unmarshal(ArgsOf(call), &c); err != nil {
		return nil, InvalidArguments(MethodNameOf(call), err)
	}

	return f(ctx, c, state, log)
}
