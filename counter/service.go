package counter

import (
	"github.com/weegigs/wee-counter-go/we"
)

const EntityType = we.EntityType("counter")

func (Counter) EntityType() we.EntityType {
	return EntityType
}

type CounterService = we.EntityService[Counter]

func CreateCounterDescriptor() we.ServiceDescriptor[Counter] {
	views := map[we.MethodName]func() we.Handler[Counter]{
		we.MethodNameOf(GetNum{}): getNum,
	}

	changes := map[we.MethodName]func() we.Handler[Counter]{
		we.MethodNameOf(Increment{}):          increment,
		we.MethodNameOf(Decrement{}):          decrement,
		we.MethodNameOf(Reset{}):              reset,
		we.MethodNameOf(UpdateTopThreshold{}): updateTopThreshold,
		we.MethodNameOf(UpdateLowThreshold{}): updateLowThreshold,
	}

	return we.ServiceDescriptor[Counter]{
		Initial: New,
		Codec:   we.NewBorshCodec[Counter](),
		Views:   views,
		Changes: changes,
	}
}

func Loader(store we.SlotStore) *we.EntityLoader[Counter] {
	return CreateCounterDescriptor().Loader(store.Load)
}

func CreateCounterService(store we.SlotStore, options ...we.ServiceOption) CounterService {
	return we.CreateService(store, CreateCounterDescriptor(), options...)
}
