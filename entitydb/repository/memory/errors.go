package memory

import "github.com/pkg/errors"

var (
	ErrEntityNotFound = errors.New("memory: entity not found")
	ErrDuplicateID    = errors.New("memory: duplicate entity id")
	ErrInvalidEntity  = errors.New("memory: invalid entity")
)
