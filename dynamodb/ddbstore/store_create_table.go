package ddbstore

import (
	"context"
	"fmt"
	"time"

	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// CreateTable validates params and registers the table. Local tables are
// ACTIVE as soon as CreateTable returns.
func (s *Store) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	def, err := tabledef.FromCreateTableInput(params)
	if err != nil {
		return nil, err
	}

	rec := &tableRecord{
		Definition:     def,
		BillingMode:    params.BillingMode,
		TableClass:     params.TableClass,
		Status:         types.TableStatusActive,
		CreatedAt:      time.Now().UTC(),
		Projections:    make(map[string]projectionRecord),
		StreamViewType: streamViewType(params.StreamSpecification),
	}
	if rec.BillingMode == "" {
		rec.BillingMode = types.BillingModeProvisioned
	}
	if rec.BillingMode == types.BillingModeProvisioned {
		if params.ProvisionedThroughput == nil {
			return nil, fmt.Errorf("%w: provisioned throughput is required for PROVISIONED billing", tabledef.ErrInvalidRequest)
		}
		rec.ReadCapacity = aws.ToInt64(params.ProvisionedThroughput.ReadCapacityUnits)
		rec.WriteCapacity = aws.ToInt64(params.ProvisionedThroughput.WriteCapacityUnits)
	}
	for _, gsi := range params.GlobalSecondaryIndexes {
		rec.Projections[aws.ToString(gsi.IndexName)] = newProjectionRecord(gsi.Projection)
	}
	for _, lsi := range params.LocalSecondaryIndexes {
		rec.Projections[aws.ToString(lsi.IndexName)] = newProjectionRecord(lsi.Projection)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(tableKey(def.Name))
		if err == nil {
			return &types.ResourceInUseException{
				Message: aws.String("Table already exists: " + def.Name),
			}
		}
		if err != badger.ErrKeyNotFound {
			return fmt.Errorf("get table %s: %w", def.Name, err)
		}
		return putRecord(txn, rec)
	})
	if err != nil {
		return nil, err
	}
	return &dynamodb.CreateTableOutput{TableDescription: rec.describe()}, nil
}

func streamViewType(spec *types.StreamSpecification) types.StreamViewType {
	if spec == nil || !aws.ToBool(spec.StreamEnabled) {
		return ""
	}
	return spec.StreamViewType
}
