package tabledef

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	tagMarkers = "ddb"
	tagName    = "dynamodbav"
)

var tableType = reflect.TypeFor[Table]()

var markerKinds = map[string]MarkerKind{
	"pk":     MarkPartitionKey,
	"hash":   MarkPartitionKey,
	"sk":     MarkSortKey,
	"range":  MarkSortKey,
	"gsi.pk": MarkGSIPartitionKey,
	"gsi.sk": MarkGSISortKey,
	"lsi.sk": MarkLSISortKey,
	"attr":   MarkAttribute,
	"ttl":    MarkTimeToLive,
}

// ParseTag parses a comma separated marker list such as "pk,attr=total".
// fieldName is only used in errors.
func ParseTag(fieldName, tag string) ([]Marker, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, nil
	}
	parts := strings.Split(tag, ",")
	markers := make([]Marker, 0, len(parts))
	for _, part := range parts {
		token, name, _ := strings.Cut(strings.TrimSpace(part), "=")
		kind, ok := markerKinds[strings.ToLower(strings.TrimSpace(token))]
		if !ok {
			return nil, &InvalidTagError{Field: fieldName, Tag: tag, Reason: fmt.Sprintf("unknown marker %q", token)}
		}
		markers = append(markers, Marker{Kind: kind, Name: strings.TrimSpace(name)})
	}
	return markers, nil
}

// DescribeStruct builds a Descriptor from the struct tags of v, which may be
// a struct, a pointer to one, or a reflect.Type.
func DescribeStruct(v any) (Descriptor, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t == nil {
		return Descriptor{}, fmt.Errorf("%w: <nil>", ErrNotStruct)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	d := Descriptor{TypeName: t.Name()}
	if err := describeFields(&d, t, map[reflect.Type]bool{t: true}); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// describeFields appends the fields of t to d. seen holds the embedded
// structs being flattened on the current path, so a type that embeds itself
// is skipped instead of recursing forever.
func describeFields(d *Descriptor, t reflect.Type, seen map[reflect.Type]bool) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		// Blank marker fields are unexported, so check them first.
		if f.Type == tableType {
			d.Table = &TableMarker{Name: strings.TrimSpace(f.Tag.Get(tagMarkers))}
			continue
		}

		nameTag := f.Tag.Get(tagName)
		if nameTag == "-" {
			continue
		}
		name, _, _ := strings.Cut(nameTag, ",")

		// Embedded structs without an explicit name are flattened, as
		// attributevalue does when marshaling.
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if seen[ft] {
					continue
				}
				seen[ft] = true
				err := describeFields(d, ft, seen)
				delete(seen, ft)
				if err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		markers, err := ParseTag(name, f.Tag.Get(tagMarkers))
		if err != nil {
			return err
		}
		d.Fields = append(d.Fields, FieldOf(name, f.Type, markers...))
	}
	return nil
}
