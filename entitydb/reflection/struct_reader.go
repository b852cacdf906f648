package reflection

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// StructReader is the default FieldReader over plain Go values.
//
// Fields resolve by json tag first, then by Go field name, including fields
// promoted from embedded structs. Instances of map[string]any resolve by key.
// Slices and arrays are arrays, maps with struct{} values are sets, other maps
// are maps. Map and set positions follow a deterministic key order.
type StructReader struct{}

func NewStructReader() StructReader {
	return StructReader{}
}

func (r StructReader) FieldInfo(instance any, name string) (FieldInfo, error) {
	v, err := r.lookup(instance, name)
	if err != nil {
		return FieldInfo{}, err
	}
	return describe(name, v), nil
}

func (r StructReader) ReadField(instance any, name string) (any, error) {
	v, err := r.lookup(instance, name)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

func (r StructReader) Count(collection any) (int, error) {
	v := indirect(reflect.ValueOf(collection))
	if !v.IsValid() {
		return 0, nil
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len(), nil
	}
	return 0, errors.Wrapf(ErrNotACollection, "%T", collection)
}

func (r StructReader) Get(collection any, index int) (any, error) {
	v := indirect(reflect.ValueOf(collection))
	if !v.IsValid() {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "index %d of nil collection", index)
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if index < 0 || index >= v.Len() {
			return nil, errors.Wrapf(ErrIndexOutOfBounds, "index %d, length %d", index, v.Len())
		}
		return v.Index(index).Interface(), nil
	case reflect.Map:
		key, err := nthKey(v, index)
		if err != nil {
			return nil, err
		}
		return key.Interface(), nil
	}
	return nil, errors.Wrapf(ErrNotACollection, "%T", collection)
}

func (r StructReader) GetKey(collection any, index int) (any, error) {
	v := indirect(reflect.ValueOf(collection))
	if !v.IsValid() || v.Kind() != reflect.Map {
		return nil, errors.Wrapf(ErrNotACollection, "%T is not a map", collection)
	}
	key, err := nthKey(v, index)
	if err != nil {
		return nil, err
	}
	return key.Interface(), nil
}

func (r StructReader) GetElement(collection any, index int) (any, error) {
	v := indirect(reflect.ValueOf(collection))
	if !v.IsValid() || v.Kind() != reflect.Map {
		return nil, errors.Wrapf(ErrNotACollection, "%T is not a map", collection)
	}
	key, err := nthKey(v, index)
	if err != nil {
		return nil, err
	}
	return v.MapIndex(key).Interface(), nil
}

func (r StructReader) Items(collection any, values bool) ([]any, error) {
	v := indirect(reflect.ValueOf(collection))
	if !v.IsValid() {
		return nil, nil
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]any, v.Len())
		for i := range result {
			result[i] = v.Index(i).Interface()
		}
		return result, nil
	case reflect.Map:
		kind, _, _ := Classify(v.Type())
		keys := sortedKeys(v)
		result := make([]any, len(keys))
		for i, key := range keys {
			if values && kind == Map {
				result[i] = v.MapIndex(key).Interface()
			} else {
				result[i] = key.Interface()
			}
		}
		return result, nil
	}
	return nil, errors.Wrapf(ErrNotACollection, "%T", collection)
}

func (r StructReader) lookup(instance any, name string) (reflect.Value, error) {
	v := indirect(reflect.ValueOf(instance))
	if !v.IsValid() {
		return reflect.Value{}, errors.Wrapf(ErrNilInstance, "reading %q", name)
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, errors.Wrapf(ErrNotAnObject, "%s", v.Type())
		}
		item := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !item.IsValid() {
			return reflect.Value{}, errors.Wrapf(ErrFieldNotFound, "%q on %s", name, v.Type())
		}
		return item, nil
	case reflect.Struct:
		idx, ok := fieldIndex(v.Type(), name)
		if !ok {
			return reflect.Value{}, errors.Wrapf(ErrFieldNotFound, "%q on %s", name, v.Type())
		}
		field, err := v.FieldByIndexErr(idx)
		if err != nil {
			// Promoted through a nil embedded pointer.
			return reflect.Value{}, errors.Wrapf(ErrNilInstance, "reading %q: %v", name, err)
		}
		if !field.CanInterface() {
			return reflect.Value{}, errors.Wrapf(ErrFieldNotFound, "%q on %s is not accessible", name, v.Type())
		}
		return field, nil
	}
	return reflect.Value{}, errors.Wrapf(ErrNotAnObject, "%s", v.Type())
}

func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	fields := reflect.VisibleFields(t)
	for _, sf := range fields {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "" {
			continue
		}
		tagName, _, _ := strings.Cut(tag, ",")
		if tagName == name {
			return sf.Index, true
		}
	}
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return sf.Index, true
	}
	return nil, false
}

func describe(name string, v reflect.Value) FieldInfo {
	info := FieldInfo{Name: name}
	if !v.IsValid() {
		info.Type = reflect.TypeOf((*any)(nil)).Elem()
		return info
	}
	t := v.Type()
	if t.Kind() == reflect.Interface && !v.IsNil() {
		t = v.Elem().Type()
	}
	info.Type = t
	info.Collection, info.KeyType, info.ElemType = Classify(t)
	return info
}

// Classify reports the collection kind of t with its key and element types.
// Pointers are looked through; Scalar types are never collections.
func Classify(t reflect.Type) (kind CollectionKind, key, elem reflect.Type) {
	if t == nil || t.Implements(scalarType) {
		return None, nil, nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		if t.Implements(scalarType) {
			return None, nil, nil
		}
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return Array, nil, t.Elem()
	case reflect.Map:
		if e := t.Elem(); e.Kind() == reflect.Struct && e.NumField() == 0 {
			return Set, t.Key(), t.Key()
		}
		return Map, t.Key(), t.Elem()
	}
	return None, nil, nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func nthKey(m reflect.Value, index int) (reflect.Value, error) {
	if index < 0 || index >= m.Len() {
		return reflect.Value{}, errors.Wrapf(ErrIndexOutOfBounds, "index %d, length %d", index, m.Len())
	}
	return sortedKeys(m)[index], nil
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b reflect.Value) int {
	a, b = indirect(a), indirect(b)
	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.String:
			return cmp.Compare(a.String(), b.String())
		case reflect.Bool:
			return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
		}
	}
	return cmp.Compare(formatKey(a), formatKey(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatKey(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	return fmt.Sprintf("%T:%v", v.Interface(), v.Interface())
}
