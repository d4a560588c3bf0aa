package main

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/weegigs/wee-counter-go/stores/bdb"
	esdbs "github.com/weegigs/wee-counter-go/stores/esbs"
	"github.com/weegigs/wee-counter-go/stores/jetstream"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/stores/sqlite"
	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

func noop() {}

// openStore opens the configured slot store. The returned function releases
// it.
func openStore(ctx context.Context, cfg *support.Config) (we.SlotStore, func(), error) {
	switch cfg.Store {
	case support.MemoryStore:
		return memory.NewSlotStore(), noop, nil

	case support.DynamoStore:
		store, err := liveDynamoStore(ctx, cfg)
		return store, noop, err

	case support.LocalDynamoStore:
		store, err := localDynamoStore(ctx, cfg)
		return store, noop, err

	case support.NatsStore:
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			return nil, nil, err
		}
		store, err := jetstream.NewSlotStore(cfg.Nats.Bucket, nc)
		if err != nil {
			nc.Close()
			return nil, nil, err
		}
		return store, nc.Close, nil

	case support.EventStoreDB:
		store, err := esdbs.NewConfiguredSlotStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case support.BadgerStore:
		store, err := bdb.Open(bdb.Options{Path: cfg.BadgerPath})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case support.SQLiteStore:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// logPublishers returns the publishers committed call logs are sent to. Logs
// always go to the process log and, when a subject is configured, to NATS.
func logPublishers(cfg *support.Config) ([]we.LogPublisher, func(), error) {
	publishers := []we.LogPublisher{we.NewZerologPublisher(nil)}
	if cfg.Nats.LogSubject == "" {
		return publishers, noop, nil
	}

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		return nil, nil, err
	}

	return append(publishers, jetstream.NewLogPublisher(nc, cfg.Nats.LogSubject)), nc.Close, nil
}
