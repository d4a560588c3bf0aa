package main

import (
	"github.com/google/wire"

	"github.com/weegigs/wee-counter-go/connectors/welambda"
	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/stores/ds"
	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

type GatewayHandler = *welambda.Handler[counter.Counter]

func createHandler(store we.SlotStore) GatewayHandler {
	service := counter.CreateCounterService(store, we.WithLogPublisher(we.NewZerologPublisher(nil)))
	return welambda.NewHandler(service)
}

var Live = wire.NewSet(createHandler, support.LoadConfig, ds.Live)
