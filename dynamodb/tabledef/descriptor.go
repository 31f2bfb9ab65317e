package tabledef

import (
	"reflect"

	"github.com/acksell/ddbtable/dynamodb/table"
	"golang.org/x/exp/constraints"
)

// Descriptor describes a data type's fields and the markers attached to them.
type Descriptor struct {
	TypeName string
	// Table is nil when the type carries no table marker.
	Table  *TableMarker
	Fields []Field
}

// Field is a named field with its value type. Kind is empty when the value
// type cannot be represented as a DynamoDB scalar.
type Field struct {
	Name     string
	TypeName string
	Kind     table.KeyKind
	Markers  []Marker
}

func String(name string, markers ...Marker) Field {
	return Field{Name: name, TypeName: "string", Kind: table.KeyKindS, Markers: markers}
}

func Number[T constraints.Integer | constraints.Float](name string, markers ...Marker) Field {
	return Field{Name: name, TypeName: reflect.TypeFor[T]().String(), Kind: table.KeyKindN, Markers: markers}
}

func Binary(name string, markers ...Marker) Field {
	return Field{Name: name, TypeName: "[]byte", Kind: table.KeyKindB, Markers: markers}
}

// Typed derives the field's kind from T.
func Typed[T any](name string, markers ...Marker) Field {
	return FieldOf(name, reflect.TypeFor[T](), markers...)
}

// FieldOf derives the field's kind from t.
func FieldOf(name string, t reflect.Type, markers ...Marker) Field {
	return Field{Name: name, TypeName: t.String(), Kind: ScalarKind(t), Markers: markers}
}

// ScalarKind maps a Go type to its DynamoDB scalar kind: numbers to N,
// strings to S and byte sequences to B. Pointers are dereferenced. Any other
// type yields the empty kind.
func ScalarKind(t reflect.Type) table.KeyKind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return table.KeyKindS
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return table.KeyKindN
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return table.KeyKindB
		}
	}
	return ""
}
