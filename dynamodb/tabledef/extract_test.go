package tabledef

import (
	"reflect"
	"testing"
	"time"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	_          Table   `ddb:"Orders"`
	CustomerID string  `dynamodbav:"CustomerId" ddb:"pk"`
	OrderID    string  `dynamodbav:"OrderId" ddb:"sk"`
	Total      float64 `ddb:"attr"`
}

type orderByStatus struct {
	_         Table  `ddb:"Orders"`
	ID        string `ddb:"pk,attr"`
	CreatedAt int64  `ddb:"gsi.sk=ByStatus,attr"`
	Status    string `ddb:"gsi.pk=ByStatus,attr"`
}

type untagged struct {
	ID string `ddb:"pk"`
}

var ordersDescriptor = Descriptor{
	TypeName: "order",
	Table:    &TableMarker{Name: "Orders"},
	Fields: []Field{
		String("CustomerId", PartitionKey()),
		String("OrderId", SortKey()),
		Number[float64]("Total", Attribute()),
	},
}

func TestExtract(t *testing.T) {
	t.Run("orders round trip", func(t *testing.T) {
		def, err := Extract(ordersDescriptor)
		require.NoError(t, err)
		require.Equal(t, table.TableDefinition{
			Name: "Orders",
			KeyDefinitions: table.PrimaryKeyDefinition{
				PartitionKey: table.KeyDef{Name: "CustomerId", Kind: table.KeyKindS},
				SortKey:      &table.KeyDef{Name: "OrderId", Kind: table.KeyKindS},
			},
			Attributes: []table.AttributeDefinition{
				{Name: "Total", Kind: table.KeyKindN},
			},
		}, def)
	})

	t.Run("struct tags match descriptor", func(t *testing.T) {
		fromStruct, err := ExtractStruct(order{})
		require.NoError(t, err)
		fromDescriptor, err := Extract(ordersDescriptor)
		require.NoError(t, err)
		require.Equal(t, fromDescriptor, fromStruct)
	})

	t.Run("pointer to struct", func(t *testing.T) {
		def, err := ExtractStruct(&order{})
		require.NoError(t, err)
		require.Equal(t, "Orders", def.Name)
	})

	t.Run("missing table marker", func(t *testing.T) {
		_, err := ExtractStruct(untagged{})
		require.ErrorIs(t, err, ErrMissingTableMarker)
		require.Contains(t, err.Error(), "untagged")

		d := ordersDescriptor
		d.Table = nil
		_, err = Extract(d)
		require.ErrorIs(t, err, ErrMissingTableMarker)
	})

	t.Run("table name defaults to type name", func(t *testing.T) {
		type Invoice struct {
			_  Table  `ddb:""`
			ID string `ddb:"pk"`
		}
		def, err := ExtractStruct(Invoice{})
		require.NoError(t, err)
		require.Equal(t, "Invoice", def.Name)
	})

	t.Run("missing partition key", func(t *testing.T) {
		_, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields:   []Field{String("ID", Attribute())},
		})
		require.ErrorIs(t, err, ErrMissingPartitionKey)
	})

	t.Run("key name override", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("ID", PartitionKey().As("pk"), Attribute().As("pk")),
				Number[int64]("Version", SortKey().As("sk"), Attribute().As("sk")),
			},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"pk", "sk"}, def.KeyDefinitions.Names())
		require.Equal(t, []table.AttributeDefinition{
			{Name: "pk", Kind: table.KeyKindS},
			{Name: "sk", Kind: table.KeyKindN},
		}, def.Attributes)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := ExtractStruct(orderByStatus{})
		require.NoError(t, err)
		second, err := ExtractStruct(orderByStatus{})
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestExtractSecondaryIndexes(t *testing.T) {
	t.Run("sort key resolves against later partition key", func(t *testing.T) {
		def, err := ExtractStruct(orderByStatus{})
		require.NoError(t, err)
		require.Len(t, def.GSIs, 1)
		require.Equal(t, table.GSIDefinition{
			Name: "ByStatus",
			KeyDefinitions: table.PrimaryKeyDefinition{
				PartitionKey: table.KeyDef{Name: "Status", Kind: table.KeyKindS},
				SortKey:      &table.KeyDef{Name: "CreatedAt", Kind: table.KeyKindN},
			},
		}, def.GSIs[0])
	})

	t.Run("orphaned sort key", func(t *testing.T) {
		_, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("ID", PartitionKey()),
				String("Status", GSIPartitionKey("ByStatus")),
				Number[int64]("CreatedAt", GSISortKey("ByCreated")),
			},
		})
		var orphan *OrphanedIndexSortKeyError
		require.ErrorAs(t, err, &orphan)
		require.Equal(t, "ByCreated", orphan.Index)
		require.Equal(t, "CreatedAt", orphan.Field)
	})

	t.Run("index name defaults to field name", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("ID", PartitionKey()),
				String("Email", GSIPartitionKey("")),
			},
		})
		require.NoError(t, err)
		require.Equal(t, "Email", def.GSIs[0].Name)
		require.False(t, def.GSIs[0].KeyDefinitions.HasSortKey())
	})

	t.Run("gsis keep discovery order", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("ID", PartitionKey()),
				String("Zone", GSIPartitionKey("ByZone")),
				String("Author", GSIPartitionKey("ByAuthor")),
				String("Genre", GSIPartitionKey("ByGenre")),
			},
		})
		require.NoError(t, err)
		var names []string
		for _, gsi := range def.GSIs {
			names = append(names, gsi.Name)
		}
		require.Equal(t, []string{"ByZone", "ByAuthor", "ByGenre"}, names)
	})

	t.Run("local index uses table partition key", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("ID", PartitionKey()),
				String("Version", SortKey()),
				Number[int64]("UpdatedAt", LSISortKey("ByUpdated")),
			},
		})
		require.NoError(t, err)
		require.Len(t, def.LSIs, 1)
		keys := def.LSIs[0].KeyDefinitions(def.KeyDefinitions)
		require.Equal(t, []string{"ID", "UpdatedAt"}, keys.Names())
	})

	t.Run("duplicate local index name last writer wins", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				String("ID", PartitionKey()),
				Number[int64]("CreatedAt", LSISortKey("ByTime")),
				String("Title", LSISortKey("ByTitle")),
				Number[int64]("UpdatedAt", LSISortKey("ByTime")),
			},
		})
		require.NoError(t, err)
		require.Equal(t, []table.LSIDefinition{
			{Name: "ByTime", SortKey: table.KeyDef{Name: "UpdatedAt", Kind: table.KeyKindN}},
			{Name: "ByTitle", SortKey: table.KeyDef{Name: "Title", Kind: table.KeyKindS}},
		}, def.LSIs)
	})
}

type cents int64

func TestExtractAttributeTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want table.KeyKind
	}{
		{"int32", reflect.TypeFor[int32](), table.KeyKindN},
		{"int64", reflect.TypeFor[int64](), table.KeyKindN},
		{"float64", reflect.TypeFor[float64](), table.KeyKindN},
		{"uint16", reflect.TypeFor[uint16](), table.KeyKindN},
		{"named number", reflect.TypeFor[cents](), table.KeyKindN},
		{"string", reflect.TypeFor[string](), table.KeyKindS},
		{"string pointer", reflect.TypeFor[*string](), table.KeyKindS},
		{"byte slice", reflect.TypeFor[[]byte](), table.KeyKindB},
		{"byte array", reflect.TypeFor[[16]byte](), table.KeyKindB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Extract(Descriptor{
				TypeName: "Thing",
				Table:    &TableMarker{},
				Fields: []Field{
					String("ID", PartitionKey()),
					FieldOf("Value", tt.typ, Attribute()),
				},
			})
			require.NoError(t, err)
			require.Equal(t, []table.AttributeDefinition{{Name: "Value", Kind: tt.want}}, def.Attributes)
		})
	}

	unsupported := []reflect.Type{
		reflect.TypeFor[bool](),
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[map[string]string](),
		reflect.TypeFor[[]string](),
	}
	for _, typ := range unsupported {
		t.Run("unsupported "+typ.String(), func(t *testing.T) {
			_, err := Extract(Descriptor{
				TypeName: "Thing",
				Table:    &TableMarker{},
				Fields: []Field{
					String("ID", PartitionKey()),
					FieldOf("Value", typ, Attribute()),
				},
			})
			var unsupported *UnsupportedAttributeTypeError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, "Value", unsupported.Field)
			assert.Equal(t, typ.String(), unsupported.Type)
		})
	}

	t.Run("unsupported key without attribute marker is allowed", func(t *testing.T) {
		def, err := Extract(Descriptor{
			TypeName: "Thing",
			Table:    &TableMarker{},
			Fields: []Field{
				Typed[time.Time]("CreatedAt", PartitionKey()),
			},
		})
		require.NoError(t, err)
		require.Equal(t, table.KeyKind(""), def.KeyDefinitions.PartitionKey.Kind)
	})
}
