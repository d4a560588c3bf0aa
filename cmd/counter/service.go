package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

// counterService opens the configured store and builds the counter service
// over it.
func counterService(ctx context.Context, cfg *support.Config, registerer prometheus.Registerer) (counter.CounterService, func(), error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	publishers, closePublishers, err := logPublishers(cfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	cleanup := func() {
		closePublishers()
		closeStore()
	}

	options := []we.ServiceOption{we.WithLogPublisher(publishers...)}
	if registerer != nil {
		metrics, err := we.NewMetrics(registerer)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		options = append(options, we.WithMetrics(metrics))
	}

	return counter.CreateCounterService(store, options...), cleanup, nil
}
