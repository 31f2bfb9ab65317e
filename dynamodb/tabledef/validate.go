package tabledef

import (
	"fmt"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Validate checks a CreateTable request the way DynamoDB does. Table and
// index names are 3 to 255 characters from [a-zA-Z0-9_.-]. Every key schema
// has a HASH element first and at most one RANGE element, and every key
// attribute has a scalar attribute definition. Attribute definitions that no
// key uses are accepted. Errors wrap ErrInvalidRequest.
func Validate(input *dynamodb.CreateTableInput) error {
	if input == nil {
		return fmt.Errorf("%w: input is required", ErrInvalidRequest)
	}
	if aws.ToString(input.TableName) == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidRequest)
	}
	if err := validateName("table", aws.ToString(input.TableName)); err != nil {
		return err
	}

	attrs := make(map[string]types.ScalarAttributeType, len(input.AttributeDefinitions))
	for _, a := range input.AttributeDefinitions {
		name := aws.ToString(a.AttributeName)
		if _, dup := attrs[name]; dup {
			return fmt.Errorf("%w: duplicate attribute definition %q", ErrInvalidRequest, name)
		}
		if !table.KeyKind(a.AttributeType).Valid() {
			return fmt.Errorf("%w: attribute %q has invalid type %q", ErrInvalidRequest, name, a.AttributeType)
		}
		attrs[name] = a.AttributeType
	}

	tableKeys, err := validateKeySchema("table", input.KeySchema, attrs)
	if err != nil {
		return err
	}

	indexes := map[string]bool{}
	for _, gsi := range input.GlobalSecondaryIndexes {
		name := aws.ToString(gsi.IndexName)
		if err := validateIndexName(name, indexes); err != nil {
			return err
		}
		if _, err := validateKeySchema("index "+name, gsi.KeySchema, attrs); err != nil {
			return err
		}
	}
	for _, lsi := range input.LocalSecondaryIndexes {
		name := aws.ToString(lsi.IndexName)
		if err := validateIndexName(name, indexes); err != nil {
			return err
		}
		if !tableKeys.HasSortKey() {
			return fmt.Errorf("%w: local index %q requires a table with a sort key", ErrInvalidRequest, name)
		}
		keys, err := validateKeySchema("index "+name, lsi.KeySchema, attrs)
		if err != nil {
			return err
		}
		if !keys.HasSortKey() {
			return fmt.Errorf("%w: local index %q has no sort key", ErrInvalidRequest, name)
		}
		if keys.PartitionKey.Name != tableKeys.PartitionKey.Name {
			return fmt.Errorf("%w: local index %q partition key %q does not match table partition key %q",
				ErrInvalidRequest, name, keys.PartitionKey.Name, tableKeys.PartitionKey.Name)
		}
	}
	return nil
}

func validateIndexName(name string, seen map[string]bool) error {
	if name == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidRequest)
	}
	if err := validateName("index", name); err != nil {
		return err
	}
	if seen[name] {
		return fmt.Errorf("%w: duplicate index name %q", ErrInvalidRequest, name)
	}
	seen[name] = true
	return nil
}

const (
	minNameLength = 3
	maxNameLength = 255
)

// validateName applies DynamoDB's naming rules for tables and indexes.
func validateName(kind, name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return fmt.Errorf("%w: %s name %q must be between %d and %d characters",
			ErrInvalidRequest, kind, name, minNameLength, maxNameLength)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '-':
		default:
			return fmt.Errorf("%w: %s name %q contains invalid character %q",
				ErrInvalidRequest, kind, name, c)
		}
	}
	return nil
}

func validateKeySchema(owner string, schema []types.KeySchemaElement, attrs map[string]types.ScalarAttributeType) (table.PrimaryKeyDefinition, error) {
	var keys table.PrimaryKeyDefinition
	if len(schema) == 0 || len(schema) > 2 {
		return keys, fmt.Errorf("%w: %s key schema must have one or two elements, got %d", ErrInvalidRequest, owner, len(schema))
	}
	if schema[0].KeyType != types.KeyTypeHash {
		return keys, fmt.Errorf("%w: %s key schema must start with a HASH key", ErrInvalidRequest, owner)
	}
	if len(schema) == 2 && schema[1].KeyType != types.KeyTypeRange {
		return keys, fmt.Errorf("%w: %s second key must be a RANGE key", ErrInvalidRequest, owner)
	}
	for i, el := range schema {
		name := aws.ToString(el.AttributeName)
		kind, ok := attrs[name]
		if !ok {
			return keys, fmt.Errorf("%w: %s key attribute %q is not defined in AttributeDefinitions", ErrInvalidRequest, owner, name)
		}
		def := table.KeyDef{Name: name, Kind: table.KeyKind(kind)}
		if i == 0 {
			keys.PartitionKey = def
		} else {
			keys.SortKey = &def
		}
	}
	return keys, nil
}

// FromCreateTableInput validates input and converts it back into a table
// definition. Key kinds are taken from the attribute definitions.
func FromCreateTableInput(input *dynamodb.CreateTableInput) (table.TableDefinition, error) {
	if err := Validate(input); err != nil {
		return table.TableDefinition{}, err
	}
	attrs := make(map[string]types.ScalarAttributeType, len(input.AttributeDefinitions))
	def := table.TableDefinition{Name: aws.ToString(input.TableName)}
	for _, a := range input.AttributeDefinitions {
		attrs[aws.ToString(a.AttributeName)] = a.AttributeType
		def.Attributes = append(def.Attributes, table.AttributeDefinition{
			Name: aws.ToString(a.AttributeName),
			Kind: table.KeyKind(a.AttributeType),
		})
	}

	// Validate has already checked every key schema.
	def.KeyDefinitions, _ = validateKeySchema("table", input.KeySchema, attrs)
	for _, gsi := range input.GlobalSecondaryIndexes {
		keys, _ := validateKeySchema("index", gsi.KeySchema, attrs)
		def.GSIs = append(def.GSIs, table.GSIDefinition{
			Name:           aws.ToString(gsi.IndexName),
			KeyDefinitions: keys,
		})
	}
	for _, lsi := range input.LocalSecondaryIndexes {
		keys, _ := validateKeySchema("index", lsi.KeySchema, attrs)
		def.LSIs = append(def.LSIs, table.LSIDefinition{
			Name:    aws.ToString(lsi.IndexName),
			SortKey: *keys.SortKey,
		})
	}
	return def, nil
}
