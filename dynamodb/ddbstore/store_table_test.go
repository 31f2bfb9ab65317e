package ddbstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTable(t *testing.T) {
	ctx := context.Background()

	t.Run("describes the created table", func(t *testing.T) {
		store := newTestStore(t)
		out, err := store.CreateTable(ctx, tabledef.Build(singleTableDesign))
		require.NoError(t, err)

		desc := out.TableDescription
		assert.Equal(t, "test-table", aws.ToString(desc.TableName))
		assert.Equal(t, types.TableStatusActive, desc.TableStatus)
		assert.Equal(t, types.BillingModePayPerRequest, desc.BillingModeSummary.BillingMode)
		assert.Equal(t, tabledef.KeySchema(singleTableDesign.KeyDefinitions), desc.KeySchema)
		require.Len(t, desc.GlobalSecondaryIndexes, 1)
		assert.Equal(t, "gsi1", aws.ToString(desc.GlobalSecondaryIndexes[0].IndexName))
		assert.Equal(t, types.ProjectionTypeAll, desc.GlobalSecondaryIndexes[0].Projection.ProjectionType)
		require.Len(t, desc.LocalSecondaryIndexes, 1)
		assert.Equal(t, []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("lsi1sk"), KeyType: types.KeyTypeRange},
		}, desc.LocalSecondaryIndexes[0].KeySchema)
		assert.Nil(t, desc.StreamSpecification)
		assert.Nil(t, desc.TableClassSummary)
	})

	t.Run("duplicate table", func(t *testing.T) {
		store := newTestStore(t, singleTableDesign)
		_, err := store.CreateTable(ctx, tabledef.Build(singleTableDesign))
		var inUse *types.ResourceInUseException
		require.ErrorAs(t, err, &inUse)
		assert.Contains(t, aws.ToString(inUse.Message), "test-table")
	})

	t.Run("invalid request", func(t *testing.T) {
		store := newTestStore(t)
		input := tabledef.Build(singleTableDesign)
		input.AttributeDefinitions = input.AttributeDefinitions[1:]
		_, err := store.CreateTable(ctx, input)
		require.ErrorIs(t, err, tabledef.ErrInvalidRequest)

		_, err = store.CreateTable(ctx, nil)
		require.Error(t, err)
	})

	t.Run("provisioned without throughput", func(t *testing.T) {
		store := newTestStore(t)
		input := tabledef.Build(noSortKeyTable)
		input.BillingMode = ""
		_, err := store.CreateTable(ctx, input)
		require.ErrorIs(t, err, tabledef.ErrInvalidRequest)
	})

	t.Run("table class", func(t *testing.T) {
		store := newTestStore(t)
		out, err := store.CreateTable(ctx, tabledef.Build(noSortKeyTable,
			tabledef.WithTableClass(types.TableClassStandardInfrequentAccess)))
		require.NoError(t, err)
		assert.Equal(t, types.TableClassStandardInfrequentAccess, out.TableDescription.TableClassSummary.TableClass)
	})

	t.Run("concurrent creates admit one", func(t *testing.T) {
		store := newTestStore(t)
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			created  int
			rejected int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.CreateTable(ctx, tabledef.Build(noSortKeyTable))
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					created++
				} else {
					rejected++
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, created)
		assert.Equal(t, 7, rejected)
	})
}

func TestDescribeTable(t *testing.T) {
	store := newTestStore(t, singleTableDesign)
	ctx := context.Background()

	out, err := store.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String("test-table")})
	require.NoError(t, err)
	assert.Equal(t, types.TableStatusActive, out.Table.TableStatus)
	assert.Equal(t, int64(0), aws.ToInt64(out.Table.ItemCount))

	_, err = store.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String("missing")})
	var notFound *types.ResourceNotFoundException
	require.ErrorAs(t, err, &notFound)

	_, err = store.DescribeTable(ctx, &dynamodb.DescribeTableInput{})
	require.ErrorContains(t, err, "table name is required")

	_, err = store.Definition(ctx, "missing")
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteTable(t *testing.T) {
	store := newTestStore(t, singleTableDesign)
	ctx := context.Background()

	out, err := store.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String("test-table")})
	require.NoError(t, err)
	assert.Equal(t, types.TableStatusDeleting, out.TableDescription.TableStatus)

	var notFound *types.ResourceNotFoundException
	_, err = store.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String("test-table")})
	require.ErrorAs(t, err, &notFound)

	_, err = store.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String("test-table")})
	require.ErrorAs(t, err, &notFound)

	// The name is free again.
	_, err = store.CreateTable(ctx, tabledef.Build(singleTableDesign))
	require.NoError(t, err)
}

func TestListTables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	names := []string{"delta", "alpha", "echo", "charlie", "bravo"}
	for _, name := range names {
		def := noSortKeyTable
		def.Name = name
		_, err := store.CreateTable(ctx, tabledef.Build(def))
		require.NoError(t, err)
	}

	t.Run("all", func(t *testing.T) {
		out, err := store.ListTables(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, out.TableNames)
		assert.Nil(t, out.LastEvaluatedTableName)
	})

	t.Run("paginated", func(t *testing.T) {
		var got []string
		var start *string
		pages := 0
		for {
			out, err := store.ListTables(ctx, &dynamodb.ListTablesInput{
				Limit:                   aws.Int32(2),
				ExclusiveStartTableName: start,
			})
			require.NoError(t, err)
			pages++
			got = append(got, out.TableNames...)
			if out.LastEvaluatedTableName == nil {
				break
			}
			start = out.LastEvaluatedTableName
		}
		assert.Equal(t, 3, pages)
		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, got)
	})

	t.Run("start name need not exist", func(t *testing.T) {
		out, err := store.ListTables(ctx, &dynamodb.ListTablesInput{ExclusiveStartTableName: aws.String("c")})
		require.NoError(t, err)
		assert.Equal(t, []string{"charlie", "delta", "echo"}, out.TableNames)
	})

	t.Run("exact last page has no continuation", func(t *testing.T) {
		out, err := store.ListTables(ctx, &dynamodb.ListTablesInput{
			Limit:                   aws.Int32(2),
			ExclusiveStartTableName: aws.String("charlie"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"delta", "echo"}, out.TableNames)
		assert.Nil(t, out.LastEvaluatedTableName)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := store.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(101)})
		require.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		out, err := newTestStore(t).ListTables(ctx, &dynamodb.ListTablesInput{})
		require.NoError(t, err)
		assert.Empty(t, out.TableNames)
	})
}

func TestTimeToLive(t *testing.T) {
	store := newTestStore(t, singleTableDesign)
	ctx := context.Background()
	name := aws.String("test-table")

	describe := func() *types.TimeToLiveDescription {
		out, err := store.DescribeTimeToLive(ctx, &dynamodb.DescribeTimeToLiveInput{TableName: name})
		require.NoError(t, err)
		return out.TimeToLiveDescription
	}
	update := func(attr string, enabled bool) error {
		_, err := store.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
			TableName: name,
			TimeToLiveSpecification: &types.TimeToLiveSpecification{
				AttributeName: aws.String(attr),
				Enabled:       aws.Bool(enabled),
			},
		})
		return err
	}

	assert.Equal(t, types.TimeToLiveStatusDisabled, describe().TimeToLiveStatus)
	require.ErrorIs(t, update("ttl", false), tabledef.ErrInvalidRequest)

	require.NoError(t, update("ttl", true))
	ttl := describe()
	assert.Equal(t, types.TimeToLiveStatusEnabled, ttl.TimeToLiveStatus)
	assert.Equal(t, "ttl", aws.ToString(ttl.AttributeName))

	err := update("ttl", true)
	require.ErrorIs(t, err, tabledef.ErrInvalidRequest, "enabling twice is rejected")
	assert.Contains(t, err.Error(), "TimeToLive is already enabled")
	require.ErrorIs(t, update("other", true), tabledef.ErrInvalidRequest)
	assert.Equal(t, "ttl", aws.ToString(describe().AttributeName))

	def, err := store.Definition(ctx, "test-table")
	require.NoError(t, err)
	assert.Equal(t, "ttl", def.TimeToLiveKey)

	require.NoError(t, update("ttl", false))
	assert.Equal(t, types.TimeToLiveStatusDisabled, describe().TimeToLiveStatus)
	def, err = store.Definition(ctx, "test-table")
	require.NoError(t, err)
	assert.Empty(t, def.TimeToLiveKey)

	var notFound *types.ResourceNotFoundException
	_, err = store.DescribeTimeToLive(ctx, &dynamodb.DescribeTimeToLiveInput{TableName: aws.String("missing")})
	require.ErrorAs(t, err, &notFound)
	_, err = store.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String("missing"),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("ttl"),
			Enabled:       aws.Bool(true),
		},
	})
	require.ErrorAs(t, err, &notFound)

	_, err = store.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{TableName: name})
	require.ErrorIs(t, err, tabledef.ErrInvalidRequest)
}

func ExampleStore_ListTables() {
	store, err := New(StoreOptions{InMemory: true}, table.TableDefinition{
		Name:           "Orders",
		KeyDefinitions: table.PrimaryKeyDefinition{PartitionKey: table.KeyDef{Name: "id", Kind: table.KeyKindS}},
		Attributes:     []table.AttributeDefinition{{Name: "id", Kind: table.KeyKindS}},
	})
	if err != nil {
		panic(err)
	}
	defer store.Close()

	out, err := store.ListTables(context.Background(), &dynamodb.ListTablesInput{})
	if err != nil {
		panic(err)
	}
	fmt.Println(out.TableNames)
	// Output: [Orders]
}
