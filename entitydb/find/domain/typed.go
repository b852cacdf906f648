package find

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/fieldpath"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/operators"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
)

// fieldTarget is the field a leaf condition is applied to.
type fieldTarget struct {
	ev        evaluation
	condition Condition
	path      string
	instance  any
	segment   fieldpath.Segment
	info      reflection.FieldInfo
}

func (t fieldTarget) report(err error) {
	t.ev.report(t.path, t.instance, err)
}

func (t fieldTarget) read() (any, bool) {
	value, err := t.ev.reader.ReadField(t.instance, t.segment.Name)
	if err != nil {
		t.report(errors.Wrapf(ErrUnreadableField, "%q: %v", t.segment.Name, err))
		return nil, false
	}
	return value, true
}

// compareInt compares n, a collection count or a string length, with the
// values of an int condition.
func (t fieldTarget) compareInt(n int64) bool {
	var (
		sets [][]int64
		op   operators.Operator
	)
	switch c := t.condition.(type) {
	case IntCondition:
		sets, op = [][]int64{c.Values}, c.Operator
	case IntArrayCondition:
		sets, op = c.Values, c.Operator
	default:
		t.report(errors.Wrapf(ErrConditionKindMismatch, "%s on %q needs an int condition", t.segment.Flags, t.segment.Name))
		return false
	}
	if len(sets) == 0 {
		t.report(errors.Wrapf(ErrEmptyComparison, "%q", t.segment.Name))
		return false
	}
	for _, values := range sets {
		if len(values) == 0 {
			t.report(errors.Wrapf(ErrEmptyComparison, "%q", t.segment.Name))
			continue
		}
		if (IntComparator{}).Compare(n, op, values, Mode{}).Matched {
			return true
		}
	}
	return false
}

// aggregate handles COUNT on collections and LENGTH on scalars.
func (t fieldTarget) aggregate() (result, handled bool) {
	switch {
	case t.info.Collection != reflection.None && t.segment.Has(fieldpath.Count):
		value, ok := t.read()
		if !ok {
			return false, true
		}
		count, err := t.ev.reader.Count(value)
		if err != nil {
			t.report(errors.Wrapf(ErrCollectionAccess, "count of %q: %v", t.segment.Name, err))
			return false, true
		}
		return t.compareInt(int64(count)), true

	case t.info.Collection == reflection.None && t.segment.Has(fieldpath.Length):
		value, ok := t.read()
		if !ok {
			return false, true
		}
		s, ok := StringComparator{}.Convert(value)
		if !ok {
			t.report(errors.Wrapf(ErrConditionKindMismatch, "length of %q which holds %T", t.segment.Name, value))
			return false, true
		}
		return t.compareInt(int64(utf8Length(s))), true
	}
	return false, false
}

// utf8Length counts every byte that does not continue a multi-byte sequence.
func utf8Length(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i]&0xC0 != 0x80 {
			n++
		}
	}
	return n
}

func evaluateKind[T any](t fieldTarget, c Comparator[T], sets [][]T, op operators.Operator, mode Mode, strict bool) bool {
	if result, handled := t.aggregate(); handled {
		return result
	}
	if !c.Supports(op) {
		t.report(errors.Wrapf(ErrUnsupportedOperator, "%s on %s", op, c.Kind()))
		return false
	}
	if len(sets) == 0 {
		t.report(errors.Wrapf(ErrEmptyComparison, "%q", t.segment.Name))
		return false
	}
	for _, values := range sets {
		if evaluateTyped(t, c, values, op, mode, strict) {
			return true
		}
	}
	return false
}

// evaluateTyped compares the target field with one set of values.
// With strict set, a collection field is compared position by position.
func evaluateTyped[T any](t fieldTarget, c Comparator[T], values []T, op operators.Operator, mode Mode, strict bool) bool {
	if len(values) == 0 {
		t.report(errors.Wrapf(ErrEmptyComparison, "%q", t.segment.Name))
		return false
	}
	values = c.Normalize(values, mode)

	raw, ok := t.read()
	if !ok {
		return false
	}
	if t.info.Collection == reflection.None {
		field, ok := c.Convert(raw)
		if !ok {
			t.report(errors.Wrapf(ErrConditionKindMismatch, "%s condition on %q which holds %T", c.Kind(), t.segment.Name, raw))
			return false
		}
		return c.Compare(field, op, values, mode).Matched
	}
	return compareCollection(t, c, raw, values, op, mode, strict)
}

func compareCollection[T any](t fieldTarget, c Comparator[T], collection any, values []T, op operators.Operator, mode Mode, strict bool) bool {
	count, err := t.ev.reader.Count(collection)
	if err != nil {
		t.report(errors.Wrapf(ErrCollectionAccess, "count of %q: %v", t.segment.Name, err))
		return false
	}

	containsAll := op == operators.OperatorContainsAll
	containsAllOp := op.IsContainsAll()
	// A sequence of another length never matches positionally, so only the
	// negated operators hold.
	if strict && count != len(values) {
		return op.IsNegative()
	}
	if containsAllOp && count < len(values) {
		return op == operators.OperatorNotContainsAll
	}

	if c.Kind() == KindString && !mode.Partial {
		switch op {
		case operators.OperatorContains, operators.OperatorContainsAll:
			op = operators.OperatorEqual
		case operators.OperatorNotContains, operators.OperatorNotContainsAll:
			op = operators.OperatorNotEqual
		}
	}

	// Contains-all consumes one value per matching item. The negated form is
	// the complement of the positive one.
	var remaining []T
	if containsAllOp {
		remaining = slices.Clone(values)
		if op.IsNegative() {
			op = op.Complement()
		}
	}

	// Positional negation is the complement of positional equality.
	negate := strict && !containsAllOp && op.IsNegative()
	if negate {
		op = op.Complement()
	}
	all := strict || t.segment.Has(fieldpath.All)
	readValues := t.segment.Has(fieldpath.Values)

	items, err := t.ev.items(collection, t.info.Collection, readValues, count)
	if err != nil {
		t.report(errors.Wrapf(ErrCollectionAccess, "items of %q: %v", t.segment.Name, err))
		return false
	}
	for n, item := range items {
		field, ok := c.Convert(item)
		if !ok {
			t.report(errors.Wrapf(ErrConditionKindMismatch, "%s condition on item %d of %q which holds %T", c.Kind(), n, t.segment.Name, item))
			return false
		}

		if containsAllOp {
			m := c.Compare(field, op, remaining, mode)
			if m.Matched {
				remaining = slices.Delete(remaining, m.Index, m.Index+1)
				if len(remaining) == 0 {
					return containsAll
				}
			}
			continue
		}

		compareTo := values
		if strict {
			compareTo = values[n : n+1]
		}
		matched := c.Compare(field, op, compareTo, mode).Matched
		if all {
			if !matched {
				return negate
			}
			continue
		}
		if matched {
			return true
		}
	}

	if containsAllOp {
		return !containsAll
	}
	if all && len(items) > 0 {
		return !negate
	}
	return false
}
