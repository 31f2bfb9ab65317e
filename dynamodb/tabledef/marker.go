package tabledef

import "fmt"

// MarkerKind is the role a marker assigns to a field.
type MarkerKind int

const (
	MarkPartitionKey MarkerKind = iota + 1
	MarkSortKey
	MarkGSIPartitionKey
	MarkGSISortKey
	MarkLSISortKey
	MarkAttribute
	MarkTimeToLive
)

var markerTokens = map[MarkerKind]string{
	MarkPartitionKey:    "pk",
	MarkSortKey:         "sk",
	MarkGSIPartitionKey: "gsi.pk",
	MarkGSISortKey:      "gsi.sk",
	MarkLSISortKey:      "lsi.sk",
	MarkAttribute:       "attr",
	MarkTimeToLive:      "ttl",
}

func (k MarkerKind) String() string {
	if tok, ok := markerTokens[k]; ok {
		return tok
	}
	return fmt.Sprintf("MarkerKind(%d)", int(k))
}

// Marker attaches a role to a field. Name is optional: for key, attribute and
// TTL markers it overrides the attribute name, for index markers it is the
// index name. An empty Name resolves to the field name.
type Marker struct {
	Kind MarkerKind
	Name string
}

func PartitionKey() Marker { return Marker{Kind: MarkPartitionKey} }

func SortKey() Marker { return Marker{Kind: MarkSortKey} }

func GSIPartitionKey(index string) Marker { return Marker{Kind: MarkGSIPartitionKey, Name: index} }

func GSISortKey(index string) Marker { return Marker{Kind: MarkGSISortKey, Name: index} }

func LSISortKey(index string) Marker { return Marker{Kind: MarkLSISortKey, Name: index} }

func Attribute() Marker { return Marker{Kind: MarkAttribute} }

func TimeToLive() Marker { return Marker{Kind: MarkTimeToLive} }

// As returns a copy of m with its name override set.
func (m Marker) As(name string) Marker {
	m.Name = name
	return m
}

func (m Marker) resolve(fieldName string) string {
	if m.Name != "" {
		return m.Name
	}
	return fieldName
}

func (m Marker) String() string {
	if m.Name == "" {
		return m.Kind.String()
	}
	return m.Kind.String() + "=" + m.Name
}

// Table marks a struct as a table. Declare it as a blank field; the ddb tag
// holds the table name, and an empty tag falls back to the struct's type name.
//
//	_ tabledef.Table `ddb:"Orders"`
type Table struct{}

// TableMarker is the descriptor form of the table marker.
type TableMarker struct {
	Name string
}
