package find

import (
	"slices"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/operators"
)

// IDSet is an insertion-ordered set of identifiers.
type IDSet struct {
	ids   []string
	index map[string]struct{}
}

func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add reports whether id was not present yet.
func (s *IDSet) Add(id string) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *IDSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *IDSet) Len() int {
	return len(s.ids)
}

func (s *IDSet) Values() []string {
	return slices.Clone(s.ids)
}

// CollectConditionIds gathers the identifiers compared by EQUAL (findIds) and
// NOT_EQUAL (skipIds) string conditions on FieldID. pure reports whether the
// whole tree consists of such conditions only, so that matching entities can
// be looked up by identifier instead of scanned.
//
// Case-invariant or partial identifier comparisons are not pure, neither are
// empty And/Or nodes.
func CollectConditionIds(condition Condition) (findIds, skipIds *IDSet, pure bool) {
	c := &idCollector{find: NewIDSet(), skip: NewIDSet()}
	if condition != nil {
		pure = c.collect(condition)
	}
	return c.find, c.skip, pure
}

type idCollector struct {
	find *IDSet
	skip *IDSet
	pure bool
}

func (c *idCollector) collect(condition Condition) bool {
	c.pure = false
	if err := condition.Accept(c); err != nil {
		return false
	}
	return c.pure
}

func (c *idCollector) children(conditions []Condition) bool {
	if len(conditions) == 0 {
		return false
	}
	pure := true
	for _, child := range conditions {
		if !c.collect(child) {
			pure = false
		}
	}
	return pure
}

func (c *idCollector) VisitAnd(n AndCondition) error {
	c.pure = c.children(n.Conditions())
	return nil
}

func (c *idCollector) VisitOr(n OrCondition) error {
	c.pure = c.children(n.Conditions())
	return nil
}

func (c *idCollector) VisitString(n StringCondition) error {
	if n.Path != FieldID || n.StringsInvariant || n.StringsPartialMatches {
		return nil
	}
	var target *IDSet
	switch n.Operator {
	case operators.OperatorEqual:
		target = c.find
	case operators.OperatorNotEqual:
		target = c.skip
	default:
		return nil
	}
	for _, id := range n.Values {
		target.Add(id)
	}
	c.pure = true
	return nil
}

func (c *idCollector) VisitNullOrDefault(NullOrDefaultCondition) error { return nil }
func (c *idCollector) VisitInt(IntCondition) error                     { return nil }
func (c *idCollector) VisitIntArray(IntArrayCondition) error           { return nil }
func (c *idCollector) VisitFloat(FloatCondition) error                 { return nil }
func (c *idCollector) VisitFloatArray(FloatArrayCondition) error       { return nil }
func (c *idCollector) VisitBool(BoolCondition) error                   { return nil }
func (c *idCollector) VisitBoolArray(BoolArrayCondition) error         { return nil }
func (c *idCollector) VisitStringArray(StringArrayCondition) error     { return nil }
func (c *idCollector) VisitVector(VectorCondition) error               { return nil }
func (c *idCollector) VisitVectorArray(VectorArrayCondition) error     { return nil }
func (c *idCollector) VisitTypename(TypenameCondition) error           { return nil }
func (c *idCollector) VisitTypenameArray(TypenameArrayCondition) error { return nil }
