package tabledef

import (
	"fmt"

	"github.com/acksell/ddbtable/dynamodb/table"
)

// ExtractStruct is DescribeStruct followed by Extract.
func ExtractStruct(v any) (table.TableDefinition, error) {
	d, err := DescribeStruct(v)
	if err != nil {
		return table.TableDefinition{}, err
	}
	return Extract(d)
}

// Extract resolves the markers of d into a table definition.
//
// GSI partition keys are registered before any GSI sort key is attached, so
// field order does not matter between the two. Duplicate markers for the same
// key or index overwrite earlier ones; the index keeps the position of its
// first registration. Extraction is all-or-nothing.
func Extract(d Descriptor) (table.TableDefinition, error) {
	if d.Table == nil {
		return table.TableDefinition{}, fmt.Errorf("%w on type %q", ErrMissingTableMarker, d.TypeName)
	}
	def := table.TableDefinition{Name: d.Table.Name}
	if def.Name == "" {
		def.Name = d.TypeName
	}

	var (
		pk, sk   *table.KeyDef
		gsis     = map[string]*table.GSIDefinition{}
		gsiOrder []string
		lsis     = map[string]table.LSIDefinition{}
		lsiOrder []string
		attrs    = map[string]int{}
	)

	for _, f := range d.Fields {
		for _, m := range f.Markers {
			switch m.Kind {
			case MarkPartitionKey:
				pk = &table.KeyDef{Name: m.resolve(f.Name), Kind: f.Kind}
			case MarkSortKey:
				sk = &table.KeyDef{Name: m.resolve(f.Name), Kind: f.Kind}
			case MarkGSIPartitionKey:
				name := m.resolve(f.Name)
				gsi, ok := gsis[name]
				if !ok {
					gsi = &table.GSIDefinition{Name: name}
					gsis[name] = gsi
					gsiOrder = append(gsiOrder, name)
				}
				gsi.KeyDefinitions.PartitionKey = table.KeyDef{Name: f.Name, Kind: f.Kind}
			case MarkGSISortKey:
				// Attached in the second pass.
			case MarkLSISortKey:
				name := m.resolve(f.Name)
				if _, ok := lsis[name]; !ok {
					lsiOrder = append(lsiOrder, name)
				}
				lsis[name] = table.LSIDefinition{
					Name:    name,
					SortKey: table.KeyDef{Name: f.Name, Kind: f.Kind},
				}
			case MarkAttribute:
				if !f.Kind.Valid() {
					return table.TableDefinition{}, &UnsupportedAttributeTypeError{Field: f.Name, Type: f.TypeName}
				}
				attr := table.AttributeDefinition{Name: m.resolve(f.Name), Kind: f.Kind}
				if i, ok := attrs[attr.Name]; ok {
					def.Attributes[i] = attr
					continue
				}
				attrs[attr.Name] = len(def.Attributes)
				def.Attributes = append(def.Attributes, attr)
			case MarkTimeToLive:
				def.TimeToLiveKey = m.resolve(f.Name)
			default:
				return table.TableDefinition{}, fmt.Errorf("field %q has unknown marker %s", f.Name, m.Kind)
			}
		}
	}

	for _, f := range d.Fields {
		for _, m := range f.Markers {
			if m.Kind != MarkGSISortKey {
				continue
			}
			name := m.resolve(f.Name)
			gsi, ok := gsis[name]
			if !ok {
				return table.TableDefinition{}, &OrphanedIndexSortKeyError{Field: f.Name, Index: name}
			}
			gsi.KeyDefinitions.SortKey = &table.KeyDef{Name: f.Name, Kind: f.Kind}
		}
	}

	if pk == nil {
		return table.TableDefinition{}, fmt.Errorf("%w on table %q", ErrMissingPartitionKey, def.Name)
	}
	def.KeyDefinitions = table.PrimaryKeyDefinition{PartitionKey: *pk, SortKey: sk}

	for _, name := range gsiOrder {
		def.GSIs = append(def.GSIs, *gsis[name])
	}
	for _, name := range lsiOrder {
		def.LSIs = append(def.LSIs, lsis[name])
	}
	return def, nil
}
