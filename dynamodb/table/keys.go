package table

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type PrimaryKeyDefinition struct {
	PartitionKey KeyDef  `yaml:"partitionKey" json:"partitionKey"`
	SortKey      *KeyDef `yaml:"sortKey,omitempty" json:"sortKey,omitempty"`
}

// KeyDef names a key attribute. Kind is empty when the key's value type has
// no scalar representation; such a definition can still be emitted, but
// DynamoDB will reject it without a matching attribute definition.
type KeyDef struct {
	Name string  `yaml:"name" json:"name"`
	Kind KeyKind `yaml:"kind,omitempty" json:"kind,omitempty"`
}

type KeyKind string

const (
	KeyKindS KeyKind = "S"
	KeyKindN KeyKind = "N"
	KeyKindB KeyKind = "B"
)

// Valid reports whether k is one of the three scalar kinds.
func (k KeyKind) Valid() bool {
	switch k {
	case KeyKindS, KeyKindN, KeyKindB:
		return true
	}
	return false
}

// ScalarAttributeType converts the kind to the SDK enum.
func (k KeyKind) ScalarAttributeType() types.ScalarAttributeType {
	return types.ScalarAttributeType(k)
}

// HasSortKey reports whether the key definition includes a sort key.
func (k PrimaryKeyDefinition) HasSortKey() bool {
	return k.SortKey != nil && k.SortKey.Name != ""
}

// Names returns the key attribute names, partition key first.
func (k PrimaryKeyDefinition) Names() []string {
	if k.HasSortKey() {
		return []string{k.PartitionKey.Name, k.SortKey.Name}
	}
	return []string{k.PartitionKey.Name}
}

// KeyOf marshals item with attributevalue and returns only its key
// attributes. item may be a struct, a map, or a pointer to either.
func (k PrimaryKeyDefinition) KeyOf(item any) (map[string]types.AttributeValue, error) {
	doc, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal item %T: %w", item, err)
	}
	return k.ExtractPrimaryKey(doc)
}

// ExtractPrimaryKey picks the key attributes out of an already marshaled document.
func (k PrimaryKeyDefinition) ExtractPrimaryKey(doc map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	part, ok := doc[k.PartitionKey.Name]
	if !ok {
		return nil, fmt.Errorf("partition key %q not found", k.PartitionKey.Name)
	}
	if err := attributeMatchesDefinition(k.PartitionKey.Kind, part); err != nil {
		return nil, fmt.Errorf("document key %q kind does not match definition: %w", k.PartitionKey.Name, err)
	}
	key := map[string]types.AttributeValue{
		k.PartitionKey.Name: part,
	}
	if !k.HasSortKey() {
		return key, nil
	}
	sort, ok := doc[k.SortKey.Name]
	if !ok {
		return nil, fmt.Errorf("sort key %q not found on document", k.SortKey.Name)
	}
	if err := attributeMatchesDefinition(k.SortKey.Kind, sort); err != nil {
		return nil, fmt.Errorf("sort key %q kind does not match definition: %w", k.SortKey.Name, err)
	}
	key[k.SortKey.Name] = sort
	return key, nil
}

// attributeMatchesDefinition checks v against want. An empty want accepts
// any scalar value.
func attributeMatchesDefinition(want KeyKind, v types.AttributeValue) error {
	var got KeyKind
	switch v.(type) {
	case *types.AttributeValueMemberS:
		got = KeyKindS
	case *types.AttributeValueMemberN:
		got = KeyKindN
	case *types.AttributeValueMemberB:
		got = KeyKindB
	default:
		return fmt.Errorf("unexpected key attribute type %T", v)
	}
	if want != "" && got != want {
		return fmt.Errorf("got KeyKind %q want %q", got, want)
	}
	return nil
}
