package find

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/operators"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

// FieldID is the identifier field every entity exposes.
const FieldID = "id"

// Condition is a node of a condition tree. The set of implementations is
// closed: every variant has a method on Visitor.
type Condition interface {
	Accept(Visitor) error
	String() string
}

type Visitor interface {
	VisitAnd(AndCondition) error
	VisitOr(OrCondition) error
	VisitNullOrDefault(NullOrDefaultCondition) error
	VisitInt(IntCondition) error
	VisitIntArray(IntArrayCondition) error
	VisitFloat(FloatCondition) error
	VisitFloatArray(FloatArrayCondition) error
	VisitBool(BoolCondition) error
	VisitBoolArray(BoolArrayCondition) error
	VisitString(StringCondition) error
	VisitStringArray(StringArrayCondition) error
	VisitVector(VectorCondition) error
	VisitVectorArray(VectorArrayCondition) error
	VisitTypename(TypenameCondition) error
	VisitTypenameArray(TypenameArrayCondition) error
}

// Composition

func And(conditions ...Condition) AndCondition {
	return AndCondition{conditions: conditions}
}

type AndCondition struct {
	conditions []Condition
}

func (c AndCondition) Conditions() []Condition {
	return c.conditions
}

func (c AndCondition) Accept(v Visitor) error {
	return v.VisitAnd(c)
}

func (c AndCondition) String() string {
	return "And(" + joinConditions(c.conditions) + ")"
}

func Or(conditions ...Condition) OrCondition {
	return OrCondition{conditions: conditions}
}

type OrCondition struct {
	conditions []Condition
}

func (c OrCondition) Conditions() []Condition {
	return c.conditions
}

func (c OrCondition) Accept(v Visitor) error {
	return v.VisitOr(c)
}

func (c OrCondition) String() string {
	return "Or(" + joinConditions(c.conditions) + ")"
}

func joinConditions(conditions []Condition) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Null or default

// NullOrDefault matches when the field holds its zero value (or nil, or an
// empty collection) and expected is true, or the opposite when expected is false.
func NullOrDefault(path string, expected bool) NullOrDefaultCondition {
	return NullOrDefaultCondition{Path: path, Expected: expected}
}

type NullOrDefaultCondition struct {
	Path     string
	Expected bool
}

func (c NullOrDefaultCondition) Accept(v Visitor) error {
	return v.VisitNullOrDefault(c)
}

func (c NullOrDefaultCondition) String() string {
	return fmt.Sprintf("NullOrDefault(%s %t)", c.Path, c.Expected)
}

// Field conditions

// FieldCondition compares the field at Path with Values.
type FieldCondition[T any] struct {
	Path                  string
	Operator              operators.Operator
	Values                []T
	StringsInvariant      bool
	StringsPartialMatches bool
}

func (c FieldCondition[T]) format(kind string) string {
	return fmt.Sprintf("%s(%s %s %v%s)", kind, c.Path, c.Operator, c.Values, modifiers(c.StringsInvariant, c.StringsPartialMatches))
}

// FieldArrayCondition compares a collection field position by position with
// each sequence of Values. The field matches if any sequence matches.
type FieldArrayCondition[T any] struct {
	Path                  string
	Operator              operators.Operator
	Values                [][]T
	StringsInvariant      bool
	StringsPartialMatches bool
}

func (c FieldArrayCondition[T]) format(kind string) string {
	return fmt.Sprintf("%s(%s %s %v%s)", kind, c.Path, c.Operator, c.Values, modifiers(c.StringsInvariant, c.StringsPartialMatches))
}

func modifiers(invariant, partial bool) string {
	var s string
	if invariant {
		s += " invariant"
	}
	if partial {
		s += " partial"
	}
	return s
}

func Int(path string, op operators.Operator, values ...int64) IntCondition {
	return IntCondition{FieldCondition[int64]{Path: path, Operator: op, Values: values}}
}

type IntCondition struct {
	FieldCondition[int64]
}

func (c IntCondition) Accept(v Visitor) error { return v.VisitInt(c) }
func (c IntCondition) String() string         { return c.format("Int") }

func IntArray(path string, op operators.Operator, values ...[]int64) IntArrayCondition {
	return IntArrayCondition{FieldArrayCondition[int64]{Path: path, Operator: op, Values: values}}
}

type IntArrayCondition struct {
	FieldArrayCondition[int64]
}

func (c IntArrayCondition) Accept(v Visitor) error { return v.VisitIntArray(c) }
func (c IntArrayCondition) String() string         { return c.format("IntArray") }

func Float(path string, op operators.Operator, values ...float64) FloatCondition {
	return FloatCondition{FieldCondition[float64]{Path: path, Operator: op, Values: values}}
}

type FloatCondition struct {
	FieldCondition[float64]
}

func (c FloatCondition) Accept(v Visitor) error { return v.VisitFloat(c) }
func (c FloatCondition) String() string         { return c.format("Float") }

func FloatArray(path string, op operators.Operator, values ...[]float64) FloatArrayCondition {
	return FloatArrayCondition{FieldArrayCondition[float64]{Path: path, Operator: op, Values: values}}
}

type FloatArrayCondition struct {
	FieldArrayCondition[float64]
}

func (c FloatArrayCondition) Accept(v Visitor) error { return v.VisitFloatArray(c) }
func (c FloatArrayCondition) String() string         { return c.format("FloatArray") }

func Bool(path string, op operators.Operator, values ...bool) BoolCondition {
	return BoolCondition{FieldCondition[bool]{Path: path, Operator: op, Values: values}}
}

type BoolCondition struct {
	FieldCondition[bool]
}

func (c BoolCondition) Accept(v Visitor) error { return v.VisitBool(c) }
func (c BoolCondition) String() string         { return c.format("Bool") }

func BoolArray(path string, op operators.Operator, values ...[]bool) BoolArrayCondition {
	return BoolArrayCondition{FieldArrayCondition[bool]{Path: path, Operator: op, Values: values}}
}

type BoolArrayCondition struct {
	FieldArrayCondition[bool]
}

func (c BoolArrayCondition) Accept(v Visitor) error { return v.VisitBoolArray(c) }
func (c BoolArrayCondition) String() string         { return c.format("BoolArray") }

func String(path string, op operators.Operator, values ...string) StringCondition {
	return StringCondition{FieldCondition[string]{Path: path, Operator: op, Values: values}}
}

type StringCondition struct {
	FieldCondition[string]
}

// Invariant compares case-insensitively.
func (c StringCondition) Invariant() StringCondition {
	c.StringsInvariant = true
	return c
}

// PartialMatches compares by substring containment.
func (c StringCondition) PartialMatches() StringCondition {
	c.StringsPartialMatches = true
	return c
}

func (c StringCondition) Accept(v Visitor) error { return v.VisitString(c) }
func (c StringCondition) String() string         { return c.format("String") }

func StringArray(path string, op operators.Operator, values ...[]string) StringArrayCondition {
	return StringArrayCondition{FieldArrayCondition[string]{Path: path, Operator: op, Values: values}}
}

type StringArrayCondition struct {
	FieldArrayCondition[string]
}

func (c StringArrayCondition) Invariant() StringArrayCondition {
	c.StringsInvariant = true
	return c
}

func (c StringArrayCondition) PartialMatches() StringArrayCondition {
	c.StringsPartialMatches = true
	return c
}

func (c StringArrayCondition) Accept(v Visitor) error { return v.VisitStringArray(c) }
func (c StringArrayCondition) String() string         { return c.format("StringArray") }

func Vector(path string, op operators.Operator, values ...vector.Vector) VectorCondition {
	return VectorCondition{FieldCondition[vector.Vector]{Path: path, Operator: op, Values: values}}
}

type VectorCondition struct {
	FieldCondition[vector.Vector]
}

func (c VectorCondition) Accept(v Visitor) error { return v.VisitVector(c) }
func (c VectorCondition) String() string         { return c.format("Vector") }

func VectorArray(path string, op operators.Operator, values ...[]vector.Vector) VectorArrayCondition {
	return VectorArrayCondition{FieldArrayCondition[vector.Vector]{Path: path, Operator: op, Values: values}}
}

type VectorArrayCondition struct {
	FieldArrayCondition[vector.Vector]
}

func (c VectorArrayCondition) Accept(v Visitor) error { return v.VisitVectorArray(c) }
func (c VectorArrayCondition) String() string         { return c.format("VectorArray") }

// Typename matches fields whose type descends from one of types.
//
//	find.Typename("weapon", operators.OperatorEqual, reflect.TypeOf((*Rifle)(nil)).Elem())
func Typename(path string, op operators.Operator, types ...reflect.Type) TypenameCondition {
	return TypenameCondition{FieldCondition[reflect.Type]{Path: path, Operator: op, Values: types}}
}

type TypenameCondition struct {
	FieldCondition[reflect.Type]
}

func (c TypenameCondition) Accept(v Visitor) error { return v.VisitTypename(c) }
func (c TypenameCondition) String() string         { return c.format("Typename") }

func TypenameArray(path string, op operators.Operator, types ...[]reflect.Type) TypenameArrayCondition {
	return TypenameArrayCondition{FieldArrayCondition[reflect.Type]{Path: path, Operator: op, Values: types}}
}

type TypenameArrayCondition struct {
	FieldArrayCondition[reflect.Type]
}

func (c TypenameArrayCondition) Accept(v Visitor) error { return v.VisitTypenameArray(c) }
func (c TypenameArrayCondition) String() string         { return c.format("TypenameArray") }
