// Package reflection supplies the field access capability the find evaluator
// depends on: field metadata, field reads and positional collection access.
package reflection

import "reflect"

type CollectionKind int

const (
	None CollectionKind = iota
	Array
	Set
	Map
)

func (k CollectionKind) String() string {
	switch k {
	case Array:
		return "array"
	case Set:
		return "set"
	case Map:
		return "map"
	default:
		return "none"
	}
}

// Scalar marks composite Go types that must be read as a single value,
// never expanded as a collection or a nested object.
type Scalar interface {
	IsScalar()
}

var scalarType = reflect.TypeOf((*Scalar)(nil)).Elem()

// FieldInfo describes a field as currently held by an instance.
type FieldInfo struct {
	Name       string
	Type       reflect.Type
	Collection CollectionKind
	// KeyType is the key type of maps and sets.
	KeyType reflect.Type
	// ElemType is the element type of arrays and sets, the value type of maps.
	ElemType reflect.Type
}

// ItemType returns the type read when visiting the collection positionally:
// map keys unless values is set.
func (i FieldInfo) ItemType(values bool) reflect.Type {
	switch i.Collection {
	case Map:
		if values {
			return i.ElemType
		}
		return i.KeyType
	case Set:
		return i.KeyType
	default:
		return i.ElemType
	}
}

// FieldReader reads fields and collection items of reflectable instances.
// Implementations must be safe for concurrent readers.
type FieldReader interface {
	FieldInfo(instance any, name string) (FieldInfo, error)
	ReadField(instance any, name string) (any, error)
	Count(collection any) (int, error)
	// Get returns the n-th item of an array, or the n-th member of a set.
	Get(collection any, index int) (any, error)
	// GetKey returns the n-th key of a map.
	GetKey(collection any, index int) (any, error)
	// GetElement returns the value stored under the n-th key of a map.
	GetElement(collection any, index int) (any, error)
}

// ItemLister is an optional FieldReader capability: every positional item of
// a collection read in one pass, in the order Get, GetKey and GetElement use.
// Items holds array elements, set members, map keys, or map values when
// values is set.
type ItemLister interface {
	Items(collection any, values bool) ([]any, error)
}

// TypeResolver resolves declared type names and answers subtype queries.
type TypeResolver interface {
	ResolveTypeByName(name string) (reflect.Type, bool)
	IsSubtypeOf(a, b reflect.Type) bool
}
