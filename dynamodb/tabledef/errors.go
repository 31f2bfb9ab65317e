package tabledef

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTableMarker  = errors.New("tabledef: missing table marker")
	ErrMissingPartitionKey = errors.New("tabledef: missing partition key marker")
	ErrNotStruct           = errors.New("tabledef: not a struct type")
	ErrInvalidRequest      = errors.New("tabledef: invalid create table request")
)

// OrphanedIndexSortKeyError is returned when a GSI sort key marker names an
// index that no field registered a partition key for.
type OrphanedIndexSortKeyError struct {
	Field string
	Index string
}

func (e *OrphanedIndexSortKeyError) Error() string {
	return fmt.Sprintf("sort key field %q references index %q which has no partition key", e.Field, e.Index)
}

// UnsupportedAttributeTypeError is returned when an attribute field's value
// type has no DynamoDB scalar representation.
type UnsupportedAttributeTypeError struct {
	Field string
	Type  string
}

func (e *UnsupportedAttributeTypeError) Error() string {
	return fmt.Sprintf("attribute field %q has type %s, must be a number, string, or byte slice", e.Field, e.Type)
}

type InvalidTagError struct {
	Field  string
	Tag    string
	Reason string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("field %q has invalid ddb tag %q: %s", e.Field, e.Tag, e.Reason)
}
