package find

import (
	"log/slog"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/fieldpath"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/logging"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

type Option func(*Evaluator)

// WithReader sets the field reader. Defaults to reflection.StructReader.
func WithReader(reader reflection.FieldReader) Option {
	return func(e *Evaluator) {
		e.reader = reader
	}
}

// WithTypes sets the resolver for type name segments and subtype checks.
func WithTypes(types reflection.TypeResolver) Option {
	return func(e *Evaluator) {
		e.types = types
	}
}

// WithParser overrides the path parser built from the type resolver.
func WithParser(parser *fieldpath.Parser) Option {
	return func(e *Evaluator) {
		e.parser = parser
	}
}

func WithDiagnostics(diagnostics Diagnostics) Option {
	return func(e *Evaluator) {
		e.diagnostics = diagnostics
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithTolerance sets the absolute tolerance of float and vector equality.
func WithTolerance(tolerance float64) Option {
	return func(e *Evaluator) {
		e.tolerance = tolerance
	}
}

// Evaluator matches entities against condition trees.
//
// Evaluation never fails: structural problems (unknown fields, bad indexes,
// kind mismatches, empty comparison sets) make the affected branch a
// non-match and are reported to the configured Diagnostics.
// An Evaluator is safe for concurrent use if its reader is.
type Evaluator struct {
	reader      reflection.FieldReader
	types       reflection.TypeResolver
	parser      *fieldpath.Parser
	diagnostics Diagnostics
	logger      *slog.Logger
	tolerance   float64
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{tolerance: vector.DefaultTolerance}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.Default(e.logger).With("component", "find")
	if e.reader == nil {
		e.reader = reflection.NewStructReader()
	}
	if e.types == nil {
		e.types = reflection.NewTypeRegistry()
	}
	if e.parser == nil {
		e.parser = fieldpath.NewParser(e.types)
	}
	if e.diagnostics == nil {
		e.diagnostics = NewLogDiagnostics(e.logger)
	}
	return e
}

// Evaluate reports whether entity matches condition.
func (e *Evaluator) Evaluate(entity any, condition Condition) bool {
	return e.with(e.diagnostics).evaluate(entity, condition)
}

// Match is Evaluate returning the diagnostics raised along the way.
// A non-nil error does not imply a non-match: an Or may still succeed
// through another branch.
func (e *Evaluator) Match(entity any, condition Condition) (bool, error) {
	collector := NewDiagnosticCollector()
	matched := e.with(Tee(e.diagnostics, collector)).evaluate(entity, condition)
	return matched, collector.Err()
}

// GetFiltered returns the entities matching condition, in input order.
func (e *Evaluator) GetFiltered(entities []any, condition Condition) []any {
	return Filter(e, entities, condition)
}

// Filter returns the entities matching condition, in input order.
func Filter[T any](e *Evaluator, entities []T, condition Condition) []T {
	var result []T
	for _, entity := range entities {
		if e.Evaluate(entity, condition) {
			result = append(result, entity)
		}
	}
	e.logger.Debug("filtered entities",
		"condition", conditionString(condition),
		"candidates", len(entities),
		"matched", len(result),
	)
	return result
}

func conditionString(condition Condition) string {
	if condition == nil {
		return "<nil>"
	}
	return condition.String()
}

func (e *Evaluator) with(diagnostics Diagnostics) evaluation {
	return evaluation{Evaluator: e, diagnostics: diagnostics}
}

// evaluation is one Evaluate call with its diagnostic sink.
type evaluation struct {
	*Evaluator
	diagnostics Diagnostics
}

func (ev evaluation) report(path string, instance any, err error) {
	ev.diagnostics.Report(Diagnostic{Path: path, Instance: instance, Err: err})
}

func (ev evaluation) evaluate(entity any, condition Condition) bool {
	if condition == nil {
		ev.report("", entity, errors.Wrap(ErrUnknownCondition, "nil condition"))
		return false
	}
	w := &treeWalker{ev: ev, entity: entity}
	if err := condition.Accept(w); err != nil {
		ev.report("", entity, err)
		return false
	}
	return w.result
}

// fieldQuery is a leaf condition with its parsed path.
type fieldQuery struct {
	condition Condition
	path      string
	segments  []fieldpath.Segment
}

func (ev evaluation) evaluateLeaf(entity any, condition Condition, path string) bool {
	segments := ev.parser.Parse(path)
	if len(segments) == 0 {
		ev.report(path, entity, errors.Wrapf(ErrEmptyPath, "%s", condition))
		return false
	}
	q := &fieldQuery{condition: condition, path: path, segments: segments}
	return ev.evaluateField(entity, q, 0)
}

func (ev evaluation) evaluateField(instance any, q *fieldQuery, index int) bool {
	if index < 0 || index >= len(q.segments) {
		ev.report(q.path, instance, errors.Wrapf(ErrSegmentOutOfRange, "segment %d of %d", index, len(q.segments)))
		return false
	}
	segment := q.segments[index]
	info, err := ev.reader.FieldInfo(instance, segment.Name)
	if err != nil {
		ev.report(q.path, instance, errors.Wrapf(ErrFieldNotFound, "%q: %v", segment.Name, err))
		return false
	}

	if index == len(q.segments)-1 {
		return ev.evaluateTerminal(fieldTarget{
			ev:        ev,
			condition: q.condition,
			path:      q.path,
			instance:  instance,
			segment:   segment,
			info:      info,
		})
	}

	if !expandable(info) {
		ev.report(q.path, instance, errors.Wrapf(ErrPrimitiveExpansion, "%q of type %s", segment.Name, info.Type))
		return false
	}
	value, err := ev.reader.ReadField(instance, segment.Name)
	if err != nil {
		ev.report(q.path, instance, errors.Wrapf(ErrUnreadableField, "%q: %v", segment.Name, err))
		return false
	}
	if info.Collection == reflection.None {
		if isNil(value) {
			ev.report(q.path, instance, errors.Wrapf(ErrUnreadableField, "%q is nil", segment.Name))
			return false
		}
		return ev.evaluateField(value, q, index+1)
	}
	return ev.expand(instance, value, info, q, index)
}

// expand evaluates the rest of the path on the items of a collection.
func (ev evaluation) expand(instance, collection any, info reflection.FieldInfo, q *fieldQuery, index int) bool {
	segment := q.segments[index]
	count, err := ev.reader.Count(collection)
	if err != nil {
		ev.report(q.path, instance, errors.Wrapf(ErrCollectionAccess, "count of %q: %v", segment.Name, err))
		return false
	}

	target := fieldTarget{ev: ev, condition: q.condition, path: q.path, instance: instance, segment: segment, info: info}
	if segment.Has(fieldpath.Count) {
		return target.compareInt(int64(count))
	}

	quantifier := segment.Flags
	values := segment.Has(fieldpath.Values)
	next := index + 1

	var filter reflect.Type
	if q.segments[next].Has(fieldpath.Typename) {
		name := q.segments[next].Name
		t, ok := ev.types.ResolveTypeByName(name)
		if !ok {
			ev.report(q.path, instance, errors.Wrapf(ErrFieldNotFound, "type %q is not registered", name))
			return false
		}
		filter = t
		quantifier = q.segments[next].Flags
		values = values || quantifier.Has(fieldpath.Values)
		next++
	}

	items, err := ev.items(collection, info.Collection, values, count)
	if err != nil {
		ev.report(q.path, instance, errors.Wrapf(ErrCollectionAccess, "items of %q: %v", segment.Name, err))
		return false
	}

	if next < len(q.segments) && q.segments[next].Has(fieldpath.Number) {
		n, _ := strconv.Atoi(q.segments[next].Name)
		if n < 0 || n >= len(items) {
			ev.report(q.path, instance, errors.Wrapf(ErrIndexOutOfRange, "index %d of %q with %d items", n, segment.Name, len(items)))
			return false
		}
		item, found := ev.nth(items, filter, n)
		if !found {
			ev.report(q.path, instance, errors.Wrapf(ErrIndexOutOfRange, "index %d of %q items of type %s", n, segment.Name, filter))
			return false
		}
		return ev.evaluateField(item, q, next+1)
	}

	all := quantifier.Has(fieldpath.All)
	visited := 0
	for _, item := range items {
		if filter != nil && !ev.isA(item, filter) {
			continue
		}
		visited++
		matched := ev.evaluateField(item, q, next)
		if all && !matched {
			return false
		}
		if !all && matched {
			return true
		}
	}
	// An ALL over no items is false.
	return all && visited > 0
}

// items reads the positional items of a collection once per visit: map keys,
// or map values when values is set. Readers without ItemLister are read one
// position at a time.
func (ev evaluation) items(collection any, kind reflection.CollectionKind, values bool, count int) ([]any, error) {
	if lister, ok := ev.reader.(reflection.ItemLister); ok {
		return lister.Items(collection, values)
	}
	result := make([]any, 0, count)
	for n := 0; n < count; n++ {
		item, err := ev.item(collection, kind, values, n)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", n)
		}
		result = append(result, item)
	}
	return result, nil
}

func (ev evaluation) item(collection any, kind reflection.CollectionKind, values bool, n int) (any, error) {
	if kind == reflection.Map {
		if values {
			return ev.reader.GetElement(collection, n)
		}
		return ev.reader.GetKey(collection, n)
	}
	return ev.reader.Get(collection, n)
}

// nth returns the n-th item passing filter. Without a filter it is the n-th item.
func (ev evaluation) nth(items []any, filter reflect.Type, n int) (any, bool) {
	if filter == nil {
		return items[n], true
	}
	seen := 0
	for _, item := range items {
		if !ev.isA(item, filter) {
			continue
		}
		if seen == n {
			return item, true
		}
		seen++
	}
	return nil, false
}

func (ev evaluation) isA(item any, t reflect.Type) bool {
	itemType := reflect.TypeOf(item)
	if itemType == nil {
		return false
	}
	return ev.types.IsSubtypeOf(itemType, t)
}

// expandable reports whether a field can hold nested fields or items.
func expandable(info reflection.FieldInfo) bool {
	if info.Collection != reflection.None {
		return true
	}
	if info.Type == nil {
		return false
	}
	t := info.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Interface:
		return true
	}
	return false
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// treeWalker evaluates And/Or nodes and hands leaves to the field evaluator.
type treeWalker struct {
	ev     evaluation
	entity any
	result bool
}

func (w *treeWalker) VisitAnd(c AndCondition) error {
	for _, child := range c.Conditions() {
		if !w.ev.evaluate(w.entity, child) {
			w.result = false
			return nil
		}
	}
	w.result = true
	return nil
}

func (w *treeWalker) VisitOr(c OrCondition) error {
	for _, child := range c.Conditions() {
		if w.ev.evaluate(w.entity, child) {
			w.result = true
			return nil
		}
	}
	w.result = false
	return nil
}

func (w *treeWalker) leaf(c Condition, path string) error {
	w.result = w.ev.evaluateLeaf(w.entity, c, path)
	return nil
}

func (w *treeWalker) VisitNullOrDefault(c NullOrDefaultCondition) error { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitInt(c IntCondition) error                     { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitIntArray(c IntArrayCondition) error           { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitFloat(c FloatCondition) error                 { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitFloatArray(c FloatArrayCondition) error       { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitBool(c BoolCondition) error                   { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitBoolArray(c BoolArrayCondition) error         { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitString(c StringCondition) error               { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitStringArray(c StringArrayCondition) error     { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitVector(c VectorCondition) error               { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitVectorArray(c VectorArrayCondition) error     { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitTypename(c TypenameCondition) error           { return w.leaf(c, c.Path) }
func (w *treeWalker) VisitTypenameArray(c TypenameArrayCondition) error { return w.leaf(c, c.Path) }
