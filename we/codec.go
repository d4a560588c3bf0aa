package we

import (
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

// StateCodec converts slot state to and from the bytes held by a store.
type StateCodec[T any] interface {
	Encode(state *T) ([]byte, error)
	Decode(data []byte) (*T, error)
}

// BorshCodec stores state as a fixed, versionless borsh record. Fields are
// written in declaration order.
type BorshCodec[T any] struct{}

func NewBorshCodec[T any]() BorshCodec[T] {
	return BorshCodec[T]{}
}

func (BorshCodec[T]) Encode(state *T) ([]byte, error) {
	if state == nil {
		return nil, errors.New("cannot encode nil state")
	}

	data, err := borsh.Serialize(*state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize state")
	}

	return data, nil
}

func (BorshCodec[T]) Decode(data []byte) (*T, error) {
	state := new(T)
	if err := borsh.Deserialize(state, data); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize state")
	}

	return state, nil
}
