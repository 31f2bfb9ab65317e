package ddbstore

import (
	"context"
	"fmt"

	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// UpdateTimeToLive enables or disables TTL on a table. As in DynamoDB,
// enabling TTL while it is already enabled is rejected, even for the same
// attribute, and so is disabling it while it is disabled.
func (s *Store) UpdateTimeToLive(ctx context.Context, params *dynamodb.UpdateTimeToLiveInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	name, err := tableNameOf(params.TableName)
	if err != nil {
		return nil, err
	}
	spec := params.TimeToLiveSpecification
	if spec == nil || aws.ToString(spec.AttributeName) == "" {
		return nil, fmt.Errorf("%w: time to live attribute name is required", tabledef.ErrInvalidRequest)
	}
	attr := aws.ToString(spec.AttributeName)
	enable := aws.ToBool(spec.Enabled)

	err = s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, name)
		if err != nil {
			return err
		}
		if enable && rec.TTLEnabled {
			return fmt.Errorf("%w: TimeToLive is already enabled on attribute %q", tabledef.ErrInvalidRequest, rec.Definition.TimeToLiveKey)
		}
		if !enable && !rec.TTLEnabled {
			return fmt.Errorf("%w: TimeToLive is already disabled", tabledef.ErrInvalidRequest)
		}
		rec.TTLEnabled = enable
		rec.Definition.TimeToLiveKey = attr
		return putRecord(txn, rec)
	})
	if err != nil {
		return nil, err
	}
	return &dynamodb.UpdateTimeToLiveOutput{
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(attr),
			Enabled:       aws.Bool(enable),
		},
	}, nil
}

func (s *Store) DescribeTimeToLive(ctx context.Context, params *dynamodb.DescribeTimeToLiveInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTimeToLiveOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	rec, err := s.view(params.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTimeToLiveOutput{TimeToLiveDescription: rec.timeToLive()}, nil
}
