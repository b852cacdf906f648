package find

import (
	"reflect"
	"slices"
	"strings"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/operators"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

type Kind string

const (
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindString   Kind = "string"
	KindVector   Kind = "vector"
	KindTypename Kind = "typename"
)

// Match is the outcome of comparing one field value. Index is the position of
// the comparison value that decided the outcome, or -1.
type Match struct {
	Matched bool
	Index   int
}

var noMatch = Match{Index: -1}

// Mode carries the string comparison modifiers of a condition.
type Mode struct {
	Invariant bool
	Partial   bool
}

// Comparator implements the operators of one value kind.
type Comparator[T any] interface {
	Kind() Kind
	Supports(op operators.Operator) bool
	// Convert reads a field value as T.
	Convert(value any) (T, bool)
	// Normalize prepares comparison values once per evaluation.
	Normalize(values []T, mode Mode) []T
	Compare(field T, op operators.Operator, values []T, mode Mode) Match
}

func membership[T any](field T, op operators.Operator, values []T, eq func(a, b T) bool) Match {
	idx := slices.IndexFunc(values, func(v T) bool { return eq(field, v) })
	switch {
	case op.IsPositive():
		return Match{Matched: idx != -1, Index: idx}
	case op.IsNegative():
		return Match{Matched: idx == -1, Index: idx}
	}
	return noMatch
}

// firstOf returns the first value satisfying pred, in list order.
func firstOf[T any](field T, values []T, pred func(field, value T) bool) Match {
	for i, v := range values {
		if pred(field, v) {
			return Match{Matched: true, Index: i}
		}
	}
	return noMatch
}

func membershipOnly(op operators.Operator) bool {
	return op.IsPositive() || op.IsNegative()
}

func identity[T any](values []T, _ Mode) []T {
	return values
}

// Int

type IntComparator struct{}

func (IntComparator) Kind() Kind                          { return KindInt }
func (IntComparator) Supports(op operators.Operator) bool { return op.Valid() }

func (IntComparator) Convert(value any) (int64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanInt():
		return v.Int(), true
	case v.CanUint():
		return int64(v.Uint()), true
	}
	return 0, false
}

func (IntComparator) Normalize(values []int64, mode Mode) []int64 {
	return identity(values, mode)
}

func (IntComparator) Compare(field int64, op operators.Operator, values []int64, _ Mode) Match {
	switch op {
	case operators.OperatorLessThan:
		return firstOf(field, values, func(f, v int64) bool { return f < v })
	case operators.OperatorLessThanOrEqual:
		return firstOf(field, values, func(f, v int64) bool { return f <= v })
	case operators.OperatorGreaterThan:
		return firstOf(field, values, func(f, v int64) bool { return f > v })
	case operators.OperatorGreaterThanOrEqual:
		return firstOf(field, values, func(f, v int64) bool { return f >= v })
	}
	return membership(field, op, values, func(a, b int64) bool { return a == b })
}

// Float

// FloatComparator treats values within Tolerance as equal.
type FloatComparator struct {
	Tolerance float64
}

func (FloatComparator) Kind() Kind                          { return KindFloat }
func (FloatComparator) Supports(op operators.Operator) bool { return op.Valid() }

func (FloatComparator) Convert(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}

func (FloatComparator) Normalize(values []float64, mode Mode) []float64 {
	return identity(values, mode)
}

func (c FloatComparator) Compare(field float64, op operators.Operator, values []float64, _ Mode) Match {
	near := func(a, b float64) bool { return vector.AlmostEqual(a, b, c.Tolerance) }
	switch op {
	case operators.OperatorLessThan:
		return firstOf(field, values, func(f, v float64) bool { return f < v })
	case operators.OperatorLessThanOrEqual:
		return firstOf(field, values, func(f, v float64) bool { return f < v || near(f, v) })
	case operators.OperatorGreaterThan:
		return firstOf(field, values, func(f, v float64) bool { return f > v })
	case operators.OperatorGreaterThanOrEqual:
		return firstOf(field, values, func(f, v float64) bool { return f > v || near(f, v) })
	}
	return membership(field, op, values, near)
}

// Bool

type BoolComparator struct{}

func (BoolComparator) Kind() Kind                          { return KindBool }
func (BoolComparator) Supports(op operators.Operator) bool { return membershipOnly(op) }

func (BoolComparator) Convert(value any) (bool, bool) {
	v := reflect.ValueOf(value)
	if v.IsValid() && v.Kind() == reflect.Bool {
		return v.Bool(), true
	}
	return false, false
}

func (BoolComparator) Normalize(values []bool, mode Mode) []bool {
	return identity(values, mode)
}

func (BoolComparator) Compare(field bool, op operators.Operator, values []bool, _ Mode) Match {
	return membership(field, op, values, func(a, b bool) bool { return a == b })
}

// String

// StringComparator compares exactly for EQUAL and NOT_EQUAL unless the mode
// is partial. The containment operators always test for substrings; a
// collection compared without partial matches degrades them to EQUAL and
// NOT_EQUAL before reaching the comparator.
type StringComparator struct{}

func (StringComparator) Kind() Kind                          { return KindString }
func (StringComparator) Supports(op operators.Operator) bool { return membershipOnly(op) }

func (StringComparator) Convert(value any) (string, bool) {
	v := reflect.ValueOf(value)
	if v.IsValid() && v.Kind() == reflect.String {
		return v.String(), true
	}
	return "", false
}

func (StringComparator) Normalize(values []string, mode Mode) []string {
	if !mode.Invariant {
		return values
	}
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return lowered
}

func (StringComparator) Compare(field string, op operators.Operator, values []string, mode Mode) Match {
	if mode.Invariant {
		field = strings.ToLower(field)
	}
	exact := !mode.Partial && (op == operators.OperatorEqual || op == operators.OperatorNotEqual)
	if exact {
		return membership(field, op, values, func(a, b string) bool { return a == b })
	}
	return membership(field, op, values, strings.Contains)
}

// Vector

// VectorComparator treats vectors within Tolerance of each other as equal.
// Ordering operators must hold on all three axes.
type VectorComparator struct {
	Tolerance float64
}

func (VectorComparator) Kind() Kind                          { return KindVector }
func (VectorComparator) Supports(op operators.Operator) bool { return op.Valid() }

func (VectorComparator) Convert(value any) (vector.Vector, bool) {
	switch v := value.(type) {
	case vector.Vector:
		return v, true
	case *vector.Vector:
		if v != nil {
			return *v, true
		}
	case [3]float64:
		return vector.Vector(v), true
	}
	return vector.Vector{}, false
}

func (VectorComparator) Normalize(values []vector.Vector, mode Mode) []vector.Vector {
	return identity(values, mode)
}

func (c VectorComparator) Compare(field vector.Vector, op operators.Operator, values []vector.Vector, _ Mode) Match {
	near := func(a, b float64) bool { return vector.AlmostEqual(a, b, c.Tolerance) }
	axes := func(pred func(a, b float64) bool) func(f, v vector.Vector) bool {
		return func(f, v vector.Vector) bool {
			return pred(f[0], v[0]) && pred(f[1], v[1]) && pred(f[2], v[2])
		}
	}
	switch op {
	case operators.OperatorLessThan:
		return firstOf(field, values, axes(func(a, b float64) bool { return a < b }))
	case operators.OperatorLessThanOrEqual:
		return firstOf(field, values, axes(func(a, b float64) bool { return a < b || near(a, b) }))
	case operators.OperatorGreaterThan:
		return firstOf(field, values, axes(func(a, b float64) bool { return a > b }))
	case operators.OperatorGreaterThanOrEqual:
		return firstOf(field, values, axes(func(a, b float64) bool { return a > b || near(a, b) }))
	}
	return membership(field, op, values, func(a, b vector.Vector) bool { return a.Equal(b, c.Tolerance) })
}

// Typename

// TypenameComparator matches a type against every type it descends from.
// Values that are not reflect.Type are compared by their runtime type.
type TypenameComparator struct {
	Types reflection.TypeResolver
}

func (TypenameComparator) Kind() Kind                          { return KindTypename }
func (TypenameComparator) Supports(op operators.Operator) bool { return membershipOnly(op) }

func (TypenameComparator) Convert(value any) (reflect.Type, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case reflect.Type:
		return v, v != nil
	}
	return reflect.TypeOf(value), true
}

func (TypenameComparator) Normalize(values []reflect.Type, mode Mode) []reflect.Type {
	return identity(values, mode)
}

func (c TypenameComparator) Compare(field reflect.Type, op operators.Operator, values []reflect.Type, _ Mode) Match {
	isSubtype := reflection.IsSubtypeOf
	if c.Types != nil {
		isSubtype = c.Types.IsSubtypeOf
	}
	return membership(field, op, values, isSubtype)
}
