package reflection

import "github.com/pkg/errors"

var (
	ErrNilInstance      = errors.New("reflection: nil instance")
	ErrNotAnObject      = errors.New("reflection: instance has no fields")
	ErrFieldNotFound    = errors.New("reflection: field not found")
	ErrNotACollection   = errors.New("reflection: value is not a collection")
	ErrIndexOutOfBounds = errors.New("reflection: collection index out of bounds")
)
