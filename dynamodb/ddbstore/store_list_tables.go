package ddbstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dgraph-io/badger/v4"
)

const maxListTablesLimit = 100

// ListTables returns table names in lexical order, at most Limit (default and
// maximum 100) per page.
func (s *Store) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	if params == nil {
		params = &dynamodb.ListTablesInput{}
	}
	limit := int(aws.ToInt32(params.Limit))
	if limit < 0 || limit > maxListTablesLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d, got %d", maxListTablesLimit, limit)
	}
	if limit == 0 {
		limit = maxListTablesLimit
	}
	start := aws.ToString(params.ExclusiveStartTableName)

	out := &dynamodb.ListTablesOutput{TableNames: []string{}}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(tablePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		if start != "" {
			it.Seek(tableKey(start))
			if it.Valid() && tableNameFromKey(it.Item().Key()) == start {
				it.Next()
			}
		}
		for ; it.Valid(); it.Next() {
			if len(out.TableNames) == limit {
				out.LastEvaluatedTableName = aws.String(out.TableNames[limit-1])
				return nil
			}
			out.TableNames = append(out.TableNames, tableNameFromKey(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
