package find

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

func (ev evaluation) evaluateTerminal(t fieldTarget) bool {
	v := &terminalVisitor{target: t}
	if err := t.condition.Accept(v); err != nil {
		t.report(err)
		return false
	}
	return v.result
}

// terminalVisitor applies a leaf condition to the field at the end of its path.
type terminalVisitor struct {
	target fieldTarget
	result bool
}

func (v *terminalVisitor) VisitAnd(c AndCondition) error {
	return errors.Wrapf(ErrUnknownCondition, "%s at field %q", c, v.target.segment.Name)
}

func (v *terminalVisitor) VisitOr(c OrCondition) error {
	return errors.Wrapf(ErrUnknownCondition, "%s at field %q", c, v.target.segment.Name)
}

func (v *terminalVisitor) VisitNullOrDefault(c NullOrDefaultCondition) error {
	value, ok := v.target.read()
	if !ok {
		v.result = false
		return nil
	}
	v.result = v.target.ev.isNullOrDefault(value, v.target.info) == c.Expected
	return nil
}

func (v *terminalVisitor) tolerance() float64 {
	return v.target.ev.tolerance
}

func modeOf[T any](c FieldCondition[T]) Mode {
	return Mode{Invariant: c.StringsInvariant, Partial: c.StringsPartialMatches}
}

func arrayModeOf[T any](c FieldArrayCondition[T]) Mode {
	return Mode{Invariant: c.StringsInvariant, Partial: c.StringsPartialMatches}
}

func scalar[T any](t fieldTarget, cmp Comparator[T], c FieldCondition[T]) bool {
	return evaluateKind(t, cmp, [][]T{c.Values}, c.Operator, modeOf(c), false)
}

func sequences[T any](t fieldTarget, cmp Comparator[T], c FieldArrayCondition[T]) bool {
	return evaluateKind(t, cmp, c.Values, c.Operator, arrayModeOf(c), true)
}

func (v *terminalVisitor) VisitInt(c IntCondition) error {
	v.result = scalar[int64](v.target, IntComparator{}, c.FieldCondition)
	return nil
}

func (v *terminalVisitor) VisitIntArray(c IntArrayCondition) error {
	v.result = sequences[int64](v.target, IntComparator{}, c.FieldArrayCondition)
	return nil
}

func (v *terminalVisitor) VisitFloat(c FloatCondition) error {
	v.result = scalar[float64](v.target, FloatComparator{Tolerance: v.tolerance()}, c.FieldCondition)
	return nil
}

func (v *terminalVisitor) VisitFloatArray(c FloatArrayCondition) error {
	v.result = sequences[float64](v.target, FloatComparator{Tolerance: v.tolerance()}, c.FieldArrayCondition)
	return nil
}

func (v *terminalVisitor) VisitBool(c BoolCondition) error {
	v.result = scalar[bool](v.target, BoolComparator{}, c.FieldCondition)
	return nil
}

func (v *terminalVisitor) VisitBoolArray(c BoolArrayCondition) error {
	v.result = sequences[bool](v.target, BoolComparator{}, c.FieldArrayCondition)
	return nil
}

func (v *terminalVisitor) VisitString(c StringCondition) error {
	v.result = scalar[string](v.target, StringComparator{}, c.FieldCondition)
	return nil
}

func (v *terminalVisitor) VisitStringArray(c StringArrayCondition) error {
	v.result = sequences[string](v.target, StringComparator{}, c.FieldArrayCondition)
	return nil
}

func (v *terminalVisitor) VisitVector(c VectorCondition) error {
	v.result = scalar[vector.Vector](v.target, VectorComparator{Tolerance: v.tolerance()}, c.FieldCondition)
	return nil
}

func (v *terminalVisitor) VisitVectorArray(c VectorArrayCondition) error {
	v.result = sequences[vector.Vector](v.target, VectorComparator{Tolerance: v.tolerance()}, c.FieldArrayCondition)
	return nil
}

func (v *terminalVisitor) VisitTypename(c TypenameCondition) error {
	v.result = scalar[reflect.Type](v.target, TypenameComparator{Types: v.target.ev.types}, c.FieldCondition)
	return nil
}

func (v *terminalVisitor) VisitTypenameArray(c TypenameArrayCondition) error {
	v.result = sequences[reflect.Type](v.target, TypenameComparator{Types: v.target.ev.types}, c.FieldArrayCondition)
	return nil
}
