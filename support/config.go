package support

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/caarlos0/env/v11"
)

type StoreKind string

const (
	MemoryStore      StoreKind = "memory"
	DynamoStore      StoreKind = "dynamodb"
	LocalDynamoStore StoreKind = "dynamodb-local"
	NatsStore        StoreKind = "nats"
	EventStoreDB     StoreKind = "esdb"
	BadgerStore      StoreKind = "badger"
	SQLiteStore      StoreKind = "sqlite"
)

type DynamoConfig struct {
	TableName string `env:"SLOTS_TABLE_NAME"`
	Endpoint  string `env:"ENDPOINT"`
}

type NatsConfig struct {
	URL        string `env:"URL" envDefault:"nats://localhost:4222"`
	Bucket     string `env:"BUCKET" envDefault:"counter-slots"`
	LogSubject string `env:"LOG_SUBJECT"`
}

type EventStoreConfig struct {
	Connection string `env:"CONNECTION" envDefault:"esdb://localhost:2113?tls=false"`
}

type TraceConfig struct {
	Exporter         string `env:"EXPORTER" envDefault:"none"`
	JaegerEndpoint   string `env:"JAEGER_ENDPOINT"`
	HoneycombTeam    string `env:"HONEYCOMB_TEAM"`
	HoneycombDataset string `env:"HONEYCOMB_DATASET" envDefault:"wee-counter"`
}

type Config struct {
	Store       StoreKind        `env:"WE_STORE" envDefault:"memory"`
	HTTPAddress string           `env:"WE_HTTP_ADDRESS" envDefault:":8080"`
	BadgerPath  string           `env:"WE_BADGER_PATH" envDefault:"./data/badger"`
	SQLitePath  string           `env:"WE_SQLITE_PATH" envDefault:"./data/counter.db"`
	Dynamo      DynamoConfig     `envPrefix:"DYNAMODB_"`
	Nats        NatsConfig       `envPrefix:"NATS_"`
	EventStore  EventStoreConfig `envPrefix:"EVENTSTORE_"`
	Trace       TraceConfig      `envPrefix:"WE_TRACE_"`
}

// LoadConfig reads the process configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func AWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}
