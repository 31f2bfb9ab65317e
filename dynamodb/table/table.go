// Package table describes DynamoDB table definitions: the primary key, the
// scalar attribute definitions, and the global and local secondary indexes.
// Definitions are plain values; they are produced by tabledef and consumed by
// the request builder, the local catalog, and the schema exporter.
package table

// TableDefinition is the resolved shape of a table.
type TableDefinition struct {
	Name           string                `yaml:"name" json:"name"`
	KeyDefinitions PrimaryKeyDefinition  `yaml:"keys" json:"keys"`
	Attributes     []AttributeDefinition `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	GSIs           []GSIDefinition       `yaml:"gsis,omitempty" json:"gsis,omitempty"`
	LSIs           []LSIDefinition       `yaml:"lsis,omitempty" json:"lsis,omitempty"`
	TimeToLiveKey  string                `yaml:"timeToLive,omitempty" json:"timeToLive,omitempty"`
}

// AttributeDefinition is a named attribute with its scalar kind.
type AttributeDefinition struct {
	Name string  `yaml:"name" json:"name"`
	Kind KeyKind `yaml:"kind" json:"kind"`
}

// GSIDefinition represents a Global Secondary Index definition.
type GSIDefinition struct {
	Name           string               `yaml:"name" json:"name"`
	KeyDefinitions PrimaryKeyDefinition `yaml:"keys" json:"keys"`
}

// LSIDefinition represents a Local Secondary Index. It shares the table's
// partition key, so only the sort key is stored.
type LSIDefinition struct {
	Name    string `yaml:"name" json:"name"`
	SortKey KeyDef `yaml:"sortKey" json:"sortKey"`
}

// Attribute returns the attribute definition with the given name.
func (t TableDefinition) Attribute(name string) (AttributeDefinition, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return AttributeDefinition{}, false
}

// GSI returns the global secondary index with the given name.
func (t TableDefinition) GSI(name string) (GSIDefinition, bool) {
	for _, g := range t.GSIs {
		if g.Name == name {
			return g, true
		}
	}
	return GSIDefinition{}, false
}

// LSI returns the local secondary index with the given name.
func (t TableDefinition) LSI(name string) (LSIDefinition, bool) {
	for _, l := range t.LSIs {
		if l.Name == name {
			return l, true
		}
	}
	return LSIDefinition{}, false
}

// KeyDefinitions returns the key schema of the LSI, which is the table's
// partition key combined with the index sort key.
func (l LSIDefinition) KeyDefinitions(tableKeys PrimaryKeyDefinition) PrimaryKeyDefinition {
	sk := l.SortKey
	return PrimaryKeyDefinition{
		PartitionKey: tableKeys.PartitionKey,
		SortKey:      &sk,
	}
}
