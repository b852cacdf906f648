package find

import "github.com/pkg/errors"

// Malformed path.
var (
	ErrEmptyPath         = errors.New("find: empty field path")
	ErrSegmentOutOfRange = errors.New("find: path segment out of range")
)

// Reflection failures.
var (
	ErrFieldNotFound    = errors.New("find: field not found")
	ErrUnreadableField  = errors.New("find: field not readable")
	ErrCollectionAccess = errors.New("find: collection access failed")
)

// Type mismatches.
var (
	ErrPrimitiveExpansion    = errors.New("find: primitive field cannot be expanded")
	ErrIndexOutOfRange       = errors.New("find: collection index out of range")
	ErrUnknownCondition      = errors.New("find: unknown condition")
	ErrConditionKindMismatch = errors.New("find: condition kind does not fit field")
	ErrUnsupportedOperator   = errors.New("find: operator not supported for kind")
)

var ErrEmptyComparison = errors.New("find: empty comparison values")
