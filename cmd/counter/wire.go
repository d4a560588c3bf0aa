//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-counter-go/stores/ds"
	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

func liveDynamoStore(ctx context.Context, cfg *support.Config) (we.SlotStore, error) {
	panic(wire.Build(ds.Live))
}

func localDynamoStore(ctx context.Context, cfg *support.Config) (we.SlotStore, error) {
	panic(wire.Build(ds.Local))
}
