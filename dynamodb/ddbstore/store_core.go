package ddbstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/acksell/ddbtable/dynamodb/ddbiface"
	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// Store is a local DynamoDB table catalog backed by BadgerDB.
// It accepts the same CreateTable requests DynamoDB does and keeps the
// resulting table descriptions across restarts when opened with a Path.
type Store struct {
	db *badger.DB
}

var _ ddbiface.TableAPI = (*Store)(nil)

// StoreOptions configures the BadgerDB store.
type StoreOptions struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
}

// New opens the catalog and creates any of defs that do not exist yet.
func New(opts StoreOptions, defs ...table.TableDefinition) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(opts.Logger)
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{db: db}
	for _, def := range defs {
		if err := s.seed(def); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table %s: %w", def.Name, err)
		}
	}
	return s, nil
}

func (s *Store) seed(def table.TableDefinition) error {
	ctx := context.Background()
	_, err := s.CreateTable(ctx, tabledef.Build(def))
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return nil
	}
	if err != nil {
		return err
	}
	if def.TimeToLiveKey == "" {
		return nil
	}
	_, err = s.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(def.Name),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(def.TimeToLiveKey),
			Enabled:       aws.Bool(true),
		},
	})
	return err
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

func tableNameOf(name *string) (string, error) {
	if name == nil || *name == "" {
		return "", fmt.Errorf("table name is required")
	}
	return *name, nil
}

func tableNotFound(name string) error {
	return &types.ResourceNotFoundException{
		Message: aws.String("Requested resource not found: Table: " + name + " not found"),
	}
}

// getRecord loads the record of the named table within txn.
func getRecord(txn *badger.Txn, name string) (*tableRecord, error) {
	item, err := txn.Get(tableKey(name))
	if err == badger.ErrKeyNotFound {
		return nil, tableNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", name, err)
	}
	var rec *tableRecord
	err = item.Value(func(val []byte) error {
		rec, err = decodeRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func putRecord(txn *badger.Txn, rec *tableRecord) error {
	val, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return txn.Set(tableKey(rec.Definition.Name), val)
}
