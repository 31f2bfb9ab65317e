package ddbstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// DeleteTable removes the table from the catalog. The returned description
// reports DELETING, as DynamoDB does, although the table is already gone.
func (s *Store) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	name, err := tableNameOf(params.TableName)
	if err != nil {
		return nil, err
	}

	var rec *tableRecord
	err = s.db.Update(func(txn *badger.Txn) error {
		rec, err = getRecord(txn, name)
		if err != nil {
			return err
		}
		return txn.Delete(tableKey(name))
	})
	if err != nil {
		return nil, err
	}

	rec.Status = types.TableStatusDeleting
	return &dynamodb.DeleteTableOutput{TableDescription: rec.describe()}, nil
}
