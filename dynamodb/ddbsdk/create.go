package ddbsdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CreateTable builds the request for def, submits it, waits until the table
// is ACTIVE and then enables TTL when def has a time to live attribute.
func (c *Client) CreateTable(ctx context.Context, def table.TableDefinition, opts ...tabledef.BuildOption) (*types.TableDescription, error) {
	input := tabledef.Build(def, opts...)
	if err := tabledef.Validate(input); err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Name, err)
	}

	c.logger.Printf("creating table %s (%s)", def.Name, input.BillingMode)
	if _, err := c.api.CreateTable(ctx, input); err != nil {
		return nil, fmt.Errorf("create table %s: %w", def.Name, err)
	}

	desc, err := c.waitActive(ctx, def.Name)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("table %s is %s", def.Name, desc.TableStatus)

	if def.TimeToLiveKey != "" {
		if err := c.enableTTL(ctx, def); err != nil {
			return nil, err
		}
	}
	return desc, nil
}

// EnsureTable creates def unless a table with its name already exists. An
// existing table is left untouched even if its schema differs from def.
func (c *Client) EnsureTable(ctx context.Context, def table.TableDefinition, opts ...tabledef.BuildOption) (created bool, err error) {
	_, err = c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(def.Name)})
	if err == nil {
		c.logger.Printf("table %s already exists", def.Name)
		return false, nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return false, fmt.Errorf("describe table %s: %w", def.Name, err)
	}
	if _, err := c.CreateTable(ctx, def, opts...); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteTable deletes the table and waits until it is gone.
func (c *Client) DeleteTable(ctx context.Context, name string) error {
	c.logger.Printf("deleting table %s", name)
	if _, err := c.api.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)}); err != nil {
		return fmt.Errorf("delete table %s: %w", name, err)
	}
	waiter := dynamodb.NewTableNotExistsWaiter(c.api, func(o *dynamodb.TableNotExistsWaiterOptions) {
		if c.minDelay > 0 {
			o.MinDelay = c.minDelay
		}
		if c.maxDelay > 0 {
			o.MaxDelay = c.maxDelay
		}
	})
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, c.maxWait)
	if err != nil {
		return fmt.Errorf("wait for table %s deletion: %w", name, err)
	}
	return nil
}

func (c *Client) waitActive(ctx context.Context, name string) (*types.TableDescription, error) {
	waiter := dynamodb.NewTableExistsWaiter(c.api, func(o *dynamodb.TableExistsWaiterOptions) {
		if c.minDelay > 0 {
			o.MinDelay = c.minDelay
		}
		if c.maxDelay > 0 {
			o.MaxDelay = c.maxDelay
		}
	})
	out, err := waiter.WaitForOutput(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, c.maxWait)
	if err != nil {
		return nil, fmt.Errorf("wait for table %s: %w", name, err)
	}
	return out.Table, nil
}

func (c *Client) enableTTL(ctx context.Context, def table.TableDefinition) error {
	_, err := c.api.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(def.Name),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(def.TimeToLiveKey),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("enable ttl on %s: %w", def.Name, err)
	}
	c.logger.Printf("table %s: ttl enabled on %s", def.Name, def.TimeToLiveKey)
	return nil
}
