package operators

type Operator string

const (
	// Membership

	OperatorEqual       Operator = "EQUAL"
	OperatorNotEqual    Operator = "NOT_EQUAL"
	OperatorContains    Operator = "CONTAINS"
	OperatorNotContains Operator = "NOT_CONTAINS"

	// Multiset

	OperatorContainsAll    Operator = "CONTAINS_ALL"
	OperatorNotContainsAll Operator = "NOT_CONTAINS_ALL"

	// Ordering

	OperatorLessThan           Operator = "LESS_THAN"
	OperatorLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OperatorGreaterThan        Operator = "GREATER_THAN"
	OperatorGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
)

// All lists every operator in declaration order.
var All = []Operator{
	OperatorEqual,
	OperatorNotEqual,
	OperatorContains,
	OperatorNotContains,
	OperatorContainsAll,
	OperatorNotContainsAll,
	OperatorLessThan,
	OperatorLessThanOrEqual,
	OperatorGreaterThan,
	OperatorGreaterThanOrEqual,
}

func (o Operator) String() string {
	return string(o)
}

func (o Operator) Valid() bool {
	switch o {
	case OperatorEqual, OperatorNotEqual,
		OperatorContains, OperatorNotContains,
		OperatorContainsAll, OperatorNotContainsAll,
		OperatorLessThan, OperatorLessThanOrEqual,
		OperatorGreaterThan, OperatorGreaterThanOrEqual:
		return true
	}
	return false
}

// IsPositive reports EQUAL, CONTAINS and CONTAINS_ALL, which all test membership.
func (o Operator) IsPositive() bool {
	return o == OperatorEqual || o == OperatorContains || o == OperatorContainsAll
}

// IsNegative reports the complements of the positive operators.
func (o Operator) IsNegative() bool {
	return o == OperatorNotEqual || o == OperatorNotContains || o == OperatorNotContainsAll
}

func (o Operator) IsOrdering() bool {
	switch o {
	case OperatorLessThan, OperatorLessThanOrEqual, OperatorGreaterThan, OperatorGreaterThanOrEqual:
		return true
	}
	return false
}

func (o Operator) IsContainsAll() bool {
	return o == OperatorContainsAll || o == OperatorNotContainsAll
}

// Complement maps each membership operator to its negation and back.
// Ordering operators have no complement here and are returned unchanged.
func (o Operator) Complement() Operator {
	switch o {
	case OperatorEqual:
		return OperatorNotEqual
	case OperatorNotEqual:
		return OperatorEqual
	case OperatorContains:
		return OperatorNotContains
	case OperatorNotContains:
		return OperatorContains
	case OperatorContainsAll:
		return OperatorNotContainsAll
	case OperatorNotContainsAll:
		return OperatorContainsAll
	}
	return o
}
