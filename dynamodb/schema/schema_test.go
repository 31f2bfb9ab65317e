package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/stretchr/testify/require"
)

const ordersYAML = `
types:
  - name: Order
    table: Orders
    fields:
      - {name: CustomerId, type: string, ddb: "pk,attr"}
      - {name: OrderId, type: string, ddb: "sk,attr"}
      - {name: Status, type: string, ddb: "gsi.pk=ByStatus,attr"}
      - {name: CreatedAt, type: int64, ddb: "gsi.sk=ByStatus,attr"}
      - {name: Total, type: float64, ddb: attr}
      - {name: Notes, type: "[]string"}
`

const sessionsYAML = `
types:
  - name: Session
    table: {}
    fields:
      - name: ID
        type: string
        ddb: pk
      - name: Expires
        type: int64
        ddb: ttl=expiresAt
`

var ordersDefinition = table.TableDefinition{
	Name: "Orders",
	KeyDefinitions: table.PrimaryKeyDefinition{
		PartitionKey: table.KeyDef{Name: "CustomerId", Kind: table.KeyKindS},
		SortKey:      &table.KeyDef{Name: "OrderId", Kind: table.KeyKindS},
	},
	Attributes: []table.AttributeDefinition{
		{Name: "CustomerId", Kind: table.KeyKindS},
		{Name: "OrderId", Kind: table.KeyKindS},
		{Name: "Status", Kind: table.KeyKindS},
		{Name: "CreatedAt", Kind: table.KeyKindN},
		{Name: "Total", Kind: table.KeyKindN},
	},
	GSIs: []table.GSIDefinition{
		{
			Name: "ByStatus",
			KeyDefinitions: table.PrimaryKeyDefinition{
				PartitionKey: table.KeyDef{Name: "Status", Kind: table.KeyKindS},
				SortKey:      &table.KeyDef{Name: "CreatedAt", Kind: table.KeyKindN},
			},
		},
	},
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	t.Run("orders", func(t *testing.T) {
		f, err := Parse([]byte(ordersYAML))
		require.NoError(t, err)
		defs, err := f.Definitions()
		require.NoError(t, err)
		require.Equal(t, []table.TableDefinition{ordersDefinition}, defs)
	})

	t.Run("empty table mapping uses type name", func(t *testing.T) {
		f, err := Parse([]byte(sessionsYAML))
		require.NoError(t, err)
		defs, err := f.Definitions()
		require.NoError(t, err)
		require.Equal(t, "Session", defs[0].Name)
		require.Equal(t, "expiresAt", defs[0].TimeToLiveKey)
	})

	t.Run("missing table marker", func(t *testing.T) {
		f, err := Parse([]byte(`
types:
  - name: Loose
    fields:
      - {name: ID, type: string, ddb: pk}
`))
		require.NoError(t, err)
		_, err = f.Definitions()
		require.ErrorIs(t, err, tabledef.ErrMissingTableMarker)
		require.Contains(t, err.Error(), `type "Loose"`)
	})

	t.Run("unsupported attribute type", func(t *testing.T) {
		f, err := Parse([]byte(`
types:
  - name: Flag
    table: Flags
    fields:
      - {name: ID, type: string, ddb: pk}
      - {name: Enabled, type: bool, ddb: attr}
`))
		require.NoError(t, err)
		_, err = f.Definitions()
		var unsupported *tabledef.UnsupportedAttributeTypeError
		require.ErrorAs(t, err, &unsupported)
		require.Equal(t, "Enabled", unsupported.Field)
		require.Equal(t, "bool", unsupported.Type)
	})

	t.Run("type name required", func(t *testing.T) {
		_, err := Parse([]byte("types:\n  - table: X\n"))
		require.ErrorContains(t, err, "name is required")
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ddb.yaml", ordersYAML)
	writeFile(t, dir, "b.ddb.yaml", sessionsYAML)

	f, err := Load(filepath.Join(dir, "*.ddb.yaml"))
	require.NoError(t, err)
	require.Len(t, f.Types, 2)
	require.Equal(t, "Order", f.Types[0].Name)
	require.Equal(t, "Session", f.Types[1].Name)

	_, err = Load(filepath.Join(dir, "*.missing"))
	require.ErrorContains(t, err, "no schema files found")

	bad := writeFile(t, dir, "bad.yaml", "types: [")
	_, err = LoadFiles(bad)
	require.ErrorContains(t, err, "loading")
}

func TestWriteDefinitions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeDefinitions(&buf, []table.TableDefinition{ordersDefinition}))
	require.True(t, strings.HasPrefix(buf.String(), generatedHeader))
	require.Contains(t, buf.String(), "name: ByStatus")

	path := filepath.Join(t.TempDir(), "schema_dynamodb.yaml")
	require.NoError(t, WriteDefinitions(path, []table.TableDefinition{ordersDefinition}))
	defs, err := ReadDefinitions(path)
	require.NoError(t, err)
	require.Equal(t, []table.TableDefinition{ordersDefinition}, defs)
}
