package tabledef

import (
	"sort"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type buildOptions struct {
	billingMode      types.BillingMode
	throughput       *types.ProvisionedThroughput
	projection       types.ProjectionType
	nonKeyAttributes []string
	tableClass       types.TableClass
	tags             map[string]string
	streamViewType   types.StreamViewType
}

type BuildOption func(*buildOptions)

// WithBillingMode sets the billing mode. The default is PAY_PER_REQUEST.
func WithBillingMode(mode types.BillingMode) BuildOption {
	return func(o *buildOptions) {
		o.billingMode = mode
	}
}

// WithProvisionedThroughput switches to PROVISIONED billing and applies the
// capacity to the table and every GSI.
func WithProvisionedThroughput(read, write int64) BuildOption {
	return func(o *buildOptions) {
		o.billingMode = types.BillingModeProvisioned
		o.throughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(read),
			WriteCapacityUnits: aws.Int64(write),
		}
	}
}

// WithProjection sets the projection of every secondary index. The default
// is ALL. nonKeyAttributes is only used with INCLUDE.
func WithProjection(projection types.ProjectionType, nonKeyAttributes ...string) BuildOption {
	return func(o *buildOptions) {
		o.projection = projection
		o.nonKeyAttributes = nonKeyAttributes
	}
}

func WithTableClass(class types.TableClass) BuildOption {
	return func(o *buildOptions) {
		o.tableClass = class
	}
}

func WithTags(tags map[string]string) BuildOption {
	return func(o *buildOptions) {
		o.tags = tags
	}
}

// WithStream enables DynamoDB Streams with the given view type.
func WithStream(viewType types.StreamViewType) BuildOption {
	return func(o *buildOptions) {
		o.streamViewType = viewType
	}
}

// Build assembles a CreateTable request from def. It never contacts DynamoDB.
func Build(def table.TableDefinition, opts ...BuildOption) *dynamodb.CreateTableInput {
	o := buildOptions{
		billingMode: types.BillingModePayPerRequest,
		projection:  types.ProjectionTypeAll,
	}
	for _, opt := range opts {
		opt(&o)
	}

	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(def.Name),
		KeySchema:            KeySchema(def.KeyDefinitions),
		AttributeDefinitions: AttributeDefinitions(def.Attributes),
		BillingMode:          o.billingMode,
		TableClass:           o.tableClass,
	}
	if o.billingMode == types.BillingModeProvisioned {
		input.ProvisionedThroughput = o.provisionedThroughput()
	}

	for _, gsi := range def.GSIs {
		idx := types.GlobalSecondaryIndex{
			IndexName:  aws.String(gsi.Name),
			KeySchema:  KeySchema(gsi.KeyDefinitions),
			Projection: o.indexProjection(),
		}
		if o.billingMode == types.BillingModeProvisioned {
			idx.ProvisionedThroughput = o.provisionedThroughput()
		}
		input.GlobalSecondaryIndexes = append(input.GlobalSecondaryIndexes, idx)
	}
	for _, lsi := range def.LSIs {
		input.LocalSecondaryIndexes = append(input.LocalSecondaryIndexes, types.LocalSecondaryIndex{
			IndexName:  aws.String(lsi.Name),
			KeySchema:  KeySchema(lsi.KeyDefinitions(def.KeyDefinitions)),
			Projection: o.indexProjection(),
		})
	}

	if len(o.tags) > 0 {
		keys := make([]string, 0, len(o.tags))
		for k := range o.tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			input.Tags = append(input.Tags, types.Tag{Key: aws.String(k), Value: aws.String(o.tags[k])})
		}
	}
	if o.streamViewType != "" {
		input.StreamSpecification = &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: o.streamViewType,
		}
	}
	return input
}

// KeySchema lists the partition key first and the optional sort key second,
// the order DynamoDB requires.
func KeySchema(keys table.PrimaryKeyDefinition) []types.KeySchemaElement {
	schema := []types.KeySchemaElement{{
		AttributeName: aws.String(keys.PartitionKey.Name),
		KeyType:       types.KeyTypeHash,
	}}
	if keys.HasSortKey() {
		schema = append(schema, types.KeySchemaElement{
			AttributeName: aws.String(keys.SortKey.Name),
			KeyType:       types.KeyTypeRange,
		})
	}
	return schema
}

func AttributeDefinitions(attrs []table.AttributeDefinition) []types.AttributeDefinition {
	if len(attrs) == 0 {
		return nil
	}
	defs := make([]types.AttributeDefinition, len(attrs))
	for i, a := range attrs {
		defs[i] = types.AttributeDefinition{
			AttributeName: aws.String(a.Name),
			AttributeType: a.Kind.ScalarAttributeType(),
		}
	}
	return defs
}

func (o buildOptions) indexProjection() *types.Projection {
	p := &types.Projection{ProjectionType: o.projection}
	if o.projection == types.ProjectionTypeInclude && len(o.nonKeyAttributes) > 0 {
		p.NonKeyAttributes = append([]string(nil), o.nonKeyAttributes...)
	}
	return p
}

// provisionedThroughput returns a fresh copy so the table and its indexes do
// not share a pointer.
func (o buildOptions) provisionedThroughput() *types.ProvisionedThroughput {
	if o.throughput == nil {
		return &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		}
	}
	return &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(aws.ToInt64(o.throughput.ReadCapacityUnits)),
		WriteCapacityUnits: aws.Int64(aws.ToInt64(o.throughput.WriteCapacityUnits)),
	}
}
