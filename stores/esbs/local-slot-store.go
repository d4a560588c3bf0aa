package esdbs

import (
	"github.com/EventStore/EventStore-Client-Go/esdb"

	"github.com/weegigs/wee-counter-go/support"
)

// NewConfiguredSlotStore connects using the configured connection string,
// which defaults to a local, insecure instance.
func NewConfiguredSlotStore(cfg *support.Config, options ...SlotStoreOption) (*ESDBSlotStore, error) {
	settings, err := esdb.ParseConnectionString(cfg.EventStore.Connection)
	if err != nil {
		return nil, err
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, err
	}

	return NewSlotStore(client, options...), nil
}
