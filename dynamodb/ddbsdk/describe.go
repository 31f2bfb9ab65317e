package ddbsdk

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableInfo is a table description together with its TTL status.
type TableInfo struct {
	Table      *types.TableDescription      `json:"table"`
	TimeToLive *types.TimeToLiveDescription `json:"timeToLive,omitempty"`
}

func (c *Client) DescribeTable(ctx context.Context, name string) (*TableInfo, error) {
	out, err := c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("describe table %s: %w", name, err)
	}
	ttl, err := c.api.DescribeTimeToLive(ctx, &dynamodb.DescribeTimeToLiveInput{TableName: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("describe ttl of %s: %w", name, err)
	}
	return &TableInfo{Table: out.Table, TimeToLive: ttl.TimeToLiveDescription}, nil
}

// ListTables returns every table name, following pagination.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	paginator := dynamodb.NewListTablesPaginator(c.api, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, page.TableNames...)
	}
	return names, nil
}
