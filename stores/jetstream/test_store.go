package jetstream

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewTestConnection starts a JetStream enabled NATS server in a container.
func NewTestConnection(ctx context.Context) (*nats.Conn, func(), error) {
	db, err := testcontainers.GenericContainer(
		ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "nats:alpine",
				ExposedPorts: []string{"4222/tcp"},
				WaitingFor:   wait.ForListeningPort("4222"),
				Cmd:          []string{"--jetstream"},
			},
			Started: true,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	tearDown := func() {
		if err := db.Terminate(ctx); err != nil {
			panic(err)
		}
	}

	host, err := db.Host(ctx)
	if err != nil {
		tearDown()
		return nil, nil, err
	}

	port, err := db.MappedPort(ctx, "4222")
	if err != nil {
		tearDown()
		return nil, nil, err
	}

	nc, err := nats.Connect(fmt.Sprintf("nats://%s:%s", host, port.Port()))
	if err != nil {
		tearDown()
		return nil, nil, err
	}

	return nc, func() {
		nc.Close()
		tearDown()
	}, nil
}

func NewTestStore(ctx context.Context, options ...SlotStoreOption) (*SlotStore, func(), error) {
	nc, tearDown, err := NewTestConnection(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, err := NewSlotStore("test", nc, options...)
	if err != nil {
		tearDown()
		return nil, nil, err
	}

	return store, tearDown, nil
}
