// Package schema reads type descriptors from YAML files and writes resolved
// table definitions back out. It is the file-based counterpart of the struct
// tags understood by tabledef: each field carries the same ddb marker string.
//
//	types:
//	  - name: Order
//	    table: Orders
//	    fields:
//	      - {name: CustomerId, type: string, ddb: "pk,attr"}
//	      - {name: OrderId, type: string, ddb: "sk,attr"}
//	      - {name: Total, type: float64, ddb: attr}
package schema

import (
	"fmt"
	"strings"

	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"gopkg.in/yaml.v3"
)

// File is the root of a type descriptor file.
type File struct {
	Types []Type `yaml:"types" json:"types"`
}

// Type describes one data type. A nil Table means the type has no table marker.
type Type struct {
	Name   string       `yaml:"name" json:"name"`
	Table  *TableMarker `yaml:"table,omitempty" json:"table,omitempty"`
	Fields []Field      `yaml:"fields" json:"fields"`
}

// TableMarker accepts either a mapping ({name: Orders}, {} for the type
// name) or a plain scalar (table: Orders).
type TableMarker struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

func (m *TableMarker) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Name = node.Value
		return nil
	}
	type plain TableMarker
	return node.Decode((*plain)(m))
}

// Field describes a type's field. Type is a Go-style type name such as
// string, int64, float64 or []byte.
type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	Tag  string `yaml:"ddb,omitempty" json:"ddb,omitempty"`
}

// Descriptor converts t into a tabledef descriptor.
func (t Type) Descriptor() (tabledef.Descriptor, error) {
	d := tabledef.Descriptor{TypeName: t.Name}
	if t.Table != nil {
		d.Table = &tabledef.TableMarker{Name: t.Table.Name}
	}
	for _, f := range t.Fields {
		markers, err := tabledef.ParseTag(f.Name, f.Tag)
		if err != nil {
			return tabledef.Descriptor{}, err
		}
		d.Fields = append(d.Fields, tabledef.Field{
			Name:     f.Name,
			TypeName: f.Type,
			Kind:     kindOf(f.Type),
			Markers:  markers,
		})
	}
	return d, nil
}

// Definitions extracts a table definition for every type in the file.
func (f *File) Definitions() ([]table.TableDefinition, error) {
	defs := make([]table.TableDefinition, 0, len(f.Types))
	for _, t := range f.Types {
		d, err := t.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", t.Name, err)
		}
		def, err := tabledef.Extract(d)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", t.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func kindOf(typeName string) table.KeyKind {
	name := strings.TrimPrefix(strings.TrimSpace(typeName), "*")
	switch name {
	case "string":
		return table.KeyKindS
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "byte", "rune",
		"float32", "float64", "number":
		return table.KeyKindN
	case "[]byte", "[]uint8", "bytes", "binary":
		return table.KeyKindB
	}
	if strings.HasPrefix(name, "[") && (strings.HasSuffix(name, "]byte") || strings.HasSuffix(name, "]uint8")) {
		return table.KeyKindB
	}
	return ""
}
