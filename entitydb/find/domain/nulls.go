package find

import (
	"reflect"
	"strings"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

// isNullOrDefault reports whether value is the zero value of its kind.
// Strings made of spaces only count as empty, collections count as empty
// when they hold no items, other objects only when nil.
func (ev evaluation) isNullOrDefault(value any, info reflection.FieldInfo) bool {
	if isNil(value) {
		return true
	}
	if info.Collection != reflection.None {
		count, err := ev.reader.Count(value)
		if err != nil {
			return false
		}
		return count == 0
	}
	if vec, ok := (VectorComparator{}).Convert(value); ok {
		return vec.Equal(vector.Zero, ev.tolerance)
	}

	v := reflect.ValueOf(value)
	switch {
	case v.CanInt():
		return v.Int() == 0
	case v.CanUint():
		return v.Uint() == 0
	case v.CanFloat():
		return vector.AlmostEqual(v.Float(), 0, ev.tolerance)
	}
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.String:
		return strings.ReplaceAll(v.String(), " ", "") == ""
	}
	return false
}
