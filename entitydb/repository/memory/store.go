// Package memory is an in-memory entity store queried with find conditions.
package memory

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/entity"
	find "github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/logging"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/signals"
)

type config struct {
	evaluator *find.Evaluator
	generate  entity.IDGenerator
	logger    *slog.Logger
}

type Option func(*config)

func WithEvaluator(evaluator *find.Evaluator) Option {
	return func(c *config) {
		c.evaluator = evaluator
	}
}

// WithIDGenerator sets the generator for entities added without an id.
// Defaults to entity.UUIDGenerator.
func WithIDGenerator(generate entity.IDGenerator) Option {
	return func(c *config) {
		c.generate = generate
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Change is published after an entity is added or removed.
type Change[T entity.Entity] struct {
	Kind   ChangeKind
	Entity T
}

// FindOptions pages through matches. A zero Limit means no limit.
type FindOptions struct {
	Offset int
	Limit  int
}

// Store keeps entities by identifier in insertion order.
// It is safe for concurrent use.
type Store[T entity.Entity] struct {
	mu        sync.RWMutex
	entities  map[string]T
	order     []string
	evaluator *find.Evaluator
	generate  entity.IDGenerator
	logger    *slog.Logger
	changes   *signals.SignalImp[Change[T]]
}

func New[T entity.Entity](opts ...Option) *Store[T] {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	logger := logging.Default(c.logger).With("component", "memory.store")
	if c.evaluator == nil {
		c.evaluator = find.NewEvaluator(find.WithLogger(logger))
	}
	if c.generate == nil {
		c.generate = entity.UUIDGenerator
	}
	return &Store[T]{
		entities:  make(map[string]T),
		evaluator: c.evaluator,
		generate:  c.generate,
		logger:    logger,
		changes:   signals.NewSignal[Change[T]](),
	}
}

// Changes publishes adds and removals. Observers run synchronously after
// the store lock is released.
func (s *Store[T]) Changes() signals.Signal[Change[T]] {
	return s.changes
}

// Add stores e, assigning an identifier first if it has none.
func (s *Store[T]) Add(e T) error {
	if isNil(e) {
		return errors.Wrap(ErrInvalidEntity, "nil entity")
	}
	if err := s.insert(e); err != nil {
		return err
	}
	s.changes.Notify(Change[T]{Kind: Added, Entity: e})
	return nil
}

func (s *Store[T]) insert(e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !entity.HasID(e) {
		e.SetID(s.generate())
	}
	id := e.GetID()
	if _, ok := s.entities[id]; ok {
		return errors.Wrapf(ErrDuplicateID, "%q", id)
	}
	s.entities[id] = e
	s.order = append(s.order, id)
	return nil
}

// AddAll adds every entity it can and returns the failures combined.
func (s *Store[T]) AddAll(entities ...T) error {
	var result *multierror.Error
	for _, e := range entities {
		if err := s.Add(e); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrEntityNotFound, "%q", id)
	}
	return e, nil
}

func (s *Store[T]) Remove(id string) error {
	e, err := s.evict(id)
	if err != nil {
		return err
	}
	s.changes.Notify(Change[T]{Kind: Removed, Entity: e})
	return nil
}

func (s *Store[T]) evict(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok {
		return e, errors.Wrapf(ErrEntityNotFound, "%q", id)
	}
	delete(s.entities, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return e, nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// All returns every entity in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordered()
}

func (s *Store[T]) ordered() []T {
	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.entities[id])
	}
	return result
}

// Find returns the entities matching condition. A nil condition matches all.
//
// A condition made only of identifier equalities is answered by direct
// lookup, in the order the identifiers appear in the condition; the
// condition is still evaluated on each looked up entity. Any other condition
// scans in insertion order. Cancellation is checked between entities.
func (s *Store[T]) Find(ctx context.Context, condition find.Condition, opts FindOptions) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates, lookup := s.candidates(condition)
	var result []T
	skipped := 0
	for _, e := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if condition != nil && !s.evaluator.Evaluate(e, condition) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, e)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	s.logger.Debug("find",
		"lookup", lookup,
		"candidates", len(candidates),
		"matched", len(result),
	)
	return result, nil
}

func (s *Store[T]) candidates(condition find.Condition) ([]T, bool) {
	if condition != nil {
		findIds, skipIds, pure := find.CollectConditionIds(condition)
		if pure && skipIds.Len() == 0 && findIds.Len() > 0 {
			result := make([]T, 0, findIds.Len())
			for _, id := range findIds.Values() {
				if e, ok := s.entities[id]; ok {
					result = append(result, e)
				}
			}
			return result, true
		}
	}
	return s.ordered(), false
}

func isNil(e any) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
