package tabledef

import (
	"testing"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogTable = table.TableDefinition{
	Name: "Catalog",
	KeyDefinitions: table.PrimaryKeyDefinition{
		PartitionKey: table.KeyDef{Name: "pk", Kind: table.KeyKindS},
		SortKey:      &table.KeyDef{Name: "sk", Kind: table.KeyKindS},
	},
	Attributes: []table.AttributeDefinition{
		{Name: "pk", Kind: table.KeyKindS},
		{Name: "sk", Kind: table.KeyKindS},
		{Name: "status", Kind: table.KeyKindS},
		{Name: "created", Kind: table.KeyKindN},
	},
	GSIs: []table.GSIDefinition{
		{
			Name: "ByStatus",
			KeyDefinitions: table.PrimaryKeyDefinition{
				PartitionKey: table.KeyDef{Name: "status", Kind: table.KeyKindS},
				SortKey:      &table.KeyDef{Name: "created", Kind: table.KeyKindN},
			},
		},
	},
	LSIs: []table.LSIDefinition{
		{Name: "ByCreated", SortKey: table.KeyDef{Name: "created", Kind: table.KeyKindN}},
	},
}

func TestBuild(t *testing.T) {
	t.Run("orders", func(t *testing.T) {
		def, err := Extract(ordersDescriptor)
		require.NoError(t, err)

		input := Build(def)
		require.Equal(t, "Orders", aws.ToString(input.TableName))
		require.Equal(t, []types.KeySchemaElement{
			{AttributeName: aws.String("CustomerId"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("OrderId"), KeyType: types.KeyTypeRange},
		}, input.KeySchema)
		require.Contains(t, input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String("Total"),
			AttributeType: types.ScalarAttributeTypeN,
		})
		require.Equal(t, types.BillingModePayPerRequest, input.BillingMode)
		require.Nil(t, input.ProvisionedThroughput)
		require.Nil(t, input.GlobalSecondaryIndexes)
		require.Nil(t, input.LocalSecondaryIndexes)
	})

	t.Run("partition key always first", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("Second", SortKey()),
				String("First", PartitionKey()),
			},
		})
		require.NoError(t, err)
		input := Build(def)
		require.Len(t, input.KeySchema, 2)
		assert.Equal(t, "First", aws.ToString(input.KeySchema[0].AttributeName))
		assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)
		assert.Equal(t, "Second", aws.ToString(input.KeySchema[1].AttributeName))
		assert.Equal(t, types.KeyTypeRange, input.KeySchema[1].KeyType)
	})

	t.Run("partition key only", func(t *testing.T) {
		input := Build(table.TableDefinition{
			Name: "Sessions",
			KeyDefinitions: table.PrimaryKeyDefinition{
				PartitionKey: table.KeyDef{Name: "id", Kind: table.KeyKindS},
			},
		})
		require.Len(t, input.KeySchema, 1)
		require.Nil(t, input.AttributeDefinitions)
	})

	t.Run("secondary indexes", func(t *testing.T) {
		def, err := ExtractStruct(orderByStatus{})
		require.NoError(t, err)
		input := Build(def)
		require.Len(t, input.GlobalSecondaryIndexes, 1)
		gsi := input.GlobalSecondaryIndexes[0]
		require.Equal(t, "ByStatus", aws.ToString(gsi.IndexName))
		require.Equal(t, []types.KeySchemaElement{
			{AttributeName: aws.String("Status"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("CreatedAt"), KeyType: types.KeyTypeRange},
		}, gsi.KeySchema)
		require.Equal(t, types.ProjectionTypeAll, gsi.Projection.ProjectionType)
		require.Nil(t, gsi.ProvisionedThroughput)
	})

	t.Run("local index key schema", func(t *testing.T) {
		input := Build(catalogTable)
		require.Len(t, input.LocalSecondaryIndexes, 1)
		require.Equal(t, []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("created"), KeyType: types.KeyTypeRange},
		}, input.LocalSecondaryIndexes[0].KeySchema)
	})

	t.Run("provisioned throughput", func(t *testing.T) {
		input := Build(catalogTable, WithProvisionedThroughput(5, 10))
		require.Equal(t, types.BillingModeProvisioned, input.BillingMode)
		require.Equal(t, int64(5), aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))
		require.Equal(t, int64(10), aws.ToInt64(input.ProvisionedThroughput.WriteCapacityUnits))
		gsiThroughput := input.GlobalSecondaryIndexes[0].ProvisionedThroughput
		require.NotNil(t, gsiThroughput)
		require.NotSame(t, input.ProvisionedThroughput, gsiThroughput)
		require.Equal(t, int64(10), aws.ToInt64(gsiThroughput.WriteCapacityUnits))
	})

	t.Run("projection tags class and stream", func(t *testing.T) {
		input := Build(catalogTable,
			WithProjection(types.ProjectionTypeInclude, "title"),
			WithTags(map[string]string{"team": "orders", "env": "dev"}),
			WithTableClass(types.TableClassStandardInfrequentAccess),
			WithStream(types.StreamViewTypeNewAndOldImages),
		)
		for _, p := range []*types.Projection{
			input.GlobalSecondaryIndexes[0].Projection,
			input.LocalSecondaryIndexes[0].Projection,
		} {
			require.Equal(t, types.ProjectionTypeInclude, p.ProjectionType)
			require.Equal(t, []string{"title"}, p.NonKeyAttributes)
		}
		require.Equal(t, []types.Tag{
			{Key: aws.String("env"), Value: aws.String("dev")},
			{Key: aws.String("team"), Value: aws.String("orders")},
		}, input.Tags)
		require.Equal(t, types.TableClassStandardInfrequentAccess, input.TableClass)
		require.True(t, aws.ToBool(input.StreamSpecification.StreamEnabled))
	})

	t.Run("round trips through FromCreateTableInput", func(t *testing.T) {
		def, err := FromCreateTableInput(Build(catalogTable))
		require.NoError(t, err)
		require.Equal(t, catalogTable, def)
	})
}
