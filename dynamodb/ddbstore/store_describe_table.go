package ddbstore

import (
	"context"
	"fmt"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dgraph-io/badger/v4"
)

func (s *Store) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	rec, err := s.view(params.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{Table: rec.describe()}, nil
}

// Definition returns the stored definition of the named table, including its
// time to live attribute when TTL is enabled.
func (s *Store) Definition(ctx context.Context, name string) (table.TableDefinition, error) {
	rec, err := s.view(&name)
	if err != nil {
		return table.TableDefinition{}, err
	}
	def := rec.Definition
	if !rec.TTLEnabled {
		def.TimeToLiveKey = ""
	}
	return def, nil
}

func (s *Store) view(tableName *string) (*tableRecord, error) {
	name, err := tableNameOf(tableName)
	if err != nil {
		return nil, err
	}
	var rec *tableRecord
	err = s.db.View(func(txn *badger.Txn) error {
		rec, err = getRecord(txn, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
