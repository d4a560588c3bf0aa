package ds

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	support.AWSConfig,
	Client,
	LiveSlotTableName,
	NewSlotStore,
	wire.Bind(new(we.SlotStore), new(*DynamoSlotStore)),
)

var Local = wire.NewSet(
	LocalStore,
	wire.Bind(new(we.SlotStore), new(*DynamoSlotStore)),
)

func LiveSlotTableName(cfg *support.Config) (SlotTableName, error) {
	if len(cfg.Dynamo.TableName) == 0 {
		return "", errors.New("DYNAMODB_SLOTS_TABLE_NAME is not set")
	}

	return SlotTableName(cfg.Dynamo.TableName), nil
}

func LocalSlotTableName() SlotTableName {
	return SlotTableName("wee-counter")
}

func Client(cfg aws.Config) *dynamodb.Client {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return dynamodb.NewFromConfig(cfg)
}
