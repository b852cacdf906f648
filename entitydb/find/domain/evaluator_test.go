package find

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/find/domain/operators"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

const (
	eq     = operators.OperatorEqual
	neq    = operators.OperatorNotEqual
	has    = operators.OperatorContains
	hasNo  = operators.OperatorNotContains
	all    = operators.OperatorContainsAll
	notAll = operators.OperatorNotContainsAll
	lt     = operators.OperatorLessThan
	lte    = operators.OperatorLessThanOrEqual
	gt     = operators.OperatorGreaterThan
	gte    = operators.OperatorGreaterThanOrEqual
)

func TestEvaluateVacuousComposition(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	for _, entity := range []any{newCharacter(), &Character{}, map[string]any{}} {
		assert.True(t, e.Evaluate(entity, And()))
		assert.False(t, e.Evaluate(entity, Or()))
	}
	assert.Zero(t, diagnostics.Len())
}

func TestEvaluateComposition(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()

	yes := Int("level", eq, 7)
	no := Int("level", eq, 8)
	broken := Int("missing", eq, 1)

	assert.True(t, e.Evaluate(c, And(yes, yes)))
	assert.False(t, e.Evaluate(c, And(yes, no)))
	assert.True(t, e.Evaluate(c, Or(no, yes)))
	assert.False(t, e.Evaluate(c, Or(no, no)))
	assert.True(t, e.Evaluate(c, Or(And(no, yes), And(yes, Or(no, yes)))))
	assert.Zero(t, diagnostics.Len())

	// Short-circuit: the broken leaf is never reached.
	assert.False(t, e.Evaluate(c, And(no, broken)))
	assert.True(t, e.Evaluate(c, Or(yes, broken)))
	assert.Zero(t, diagnostics.Len())

	assert.True(t, e.Evaluate(c, Or(broken, yes)))
	assert.Equal(t, 1, diagnostics.Len())
	assert.ErrorIs(t, diagnostics.Err(), ErrFieldNotFound)
}

func TestGetFiltered(t *testing.T) {
	e, _ := newTestEvaluator(t)
	a := &Character{ID: "a", Tags: []string{"x", "y"}}
	b := &Character{ID: "b", Tags: []string{"y"}}
	c := &Character{ID: "c", Tags: []string{"x"}}

	got := e.GetFiltered([]any{a, b, c}, String("tags", has, "x"))
	assert.Equal(t, []any{a, c}, got)

	typed := Filter(e, []*Character{c, b, a}, String("tags", has, "y"))
	assert.Equal(t, []*Character{b, a}, typed)

	assert.Empty(t, Filter(e, []*Character{a, b}, String("tags", has, "z")))
}

func TestEvaluateScalars(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{"int equal", Int("level", eq, 1, 7), true},
		{"int not equal", Int("level", neq, 1, 7), false},
		{"int less", Int("level", lt, 3, 8), true},
		{"int less or equal", Int("level", lte, 7), true},
		{"int greater", Int("level", gt, 7), false},
		{"int greater or equal", Int("level", gte, 7), true},
		{"float within tolerance", Float("health", eq, 50), true},
		{"float less or equal within tolerance", Float("health", lte, 50), true},
		{"float strictly less", Float("health", lt, 50), false},
		{"float greater", Float("health", gt, 49.5), true},
		{"float not equal", Float("health", neq, 49, 51), true},
		{"bool", Bool("alive", eq, true), true},
		{"bool not equal", Bool("alive", neq, true), false},
		{"string exact", String("name", eq, "Sir Galahad"), true},
		{"string exact mismatch", String("name", eq, "Galahad"), false},
		{"string invariant", String("name", eq, "sir galahad").Invariant(), true},
		{"string partial", String("name", eq, "Gala").PartialMatches(), true},
		{"string contains", String("name", has, "Gala"), true},
		{"string not contains", String("name", hasNo, "Lance"), true},
		{"string not equal", String("name", neq, "Lancelot"), true},
		{"vector equal", Vector("position", eq, vector.New(1, 2, 3.00001)), true},
		{"vector not equal", Vector("position", neq, vector.New(1, 2, 3)), false},
		{"vector less", Vector("position", lt, vector.New(2, 3, 4)), true},
		{"vector less on two axes only", Vector("position", lt, vector.New(2, 3, 3)), false},
		{"vector less or equal", Vector("position", lte, vector.New(1, 2, 3)), true},
		{"vector greater or equal", Vector("position", gte, vector.New(0, 0, 3)), true},
		{"vector greater", Vector("position", gt, vector.New(0, 0, 3)), false},
		{"typename of type field", Typename("class", eq, reflect.TypeOf((*Weapon)(nil)).Elem()), true},
		{"typename of type field mismatch", Typename("class", eq, reflect.TypeOf((*Food)(nil)).Elem()), false},
		{"typename of object field", Typename("stats", eq, reflect.TypeOf((*Stats)(nil)).Elem()), true},
		{"typename not equal", Typename("stats", neq, reflect.TypeOf((*Stats)(nil)).Elem()), false},
		{"nested", Int("stats.strength", gt, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(c, tt.condition), tt.condition.String())
		})
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateMapEntity(t *testing.T) {
	e, _ := newTestEvaluator(t)
	doc := map[string]any{"id": "m1", "level": 3, "tags": []string{"a"}}

	assert.True(t, e.Evaluate(doc, Int("level", eq, 3)))
	assert.True(t, e.Evaluate(doc, String("tags", eq, "a")))
	assert.False(t, e.Evaluate(doc, String("id", eq, "m2")))
}

func TestEvaluateStringLength(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := &Character{Name: "€ab"}
	require.Len(t, c.Name, 5)

	assert.True(t, e.Evaluate(c, Int("name:length", eq, 3)))
	assert.False(t, e.Evaluate(c, Int("name:length", eq, 5)))
	assert.True(t, e.Evaluate(c, IntArray("name:length", eq, []int64{1}, []int64{3})))
	assert.True(t, e.Evaluate(c, Int("name:length", lt, 4)))
	assert.Zero(t, diagnostics.Len())

	assert.False(t, e.Evaluate(c, String("name:length", eq, "3")))
	assert.ErrorIs(t, diagnostics.Err(), ErrConditionKindMismatch)
}

func TestEvaluateCollections(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{"any element", String("tags", eq, "knight"), true},
		{"contains degrades to equal", String("tags", has, "sword"), false},
		{"partial contains", String("tags", has, "sword").PartialMatches(), true},
		{"invariant element", String("tags", eq, "KNIGHT").Invariant(), true},
		{"not contains", String("tags", hasNo, "mage"), true},
		{"all elements", Int("levels:all", gt, 0), true},
		{"not all elements", Int("levels:all", gt, 1), false},
		{"any element ordering", Int("levels", gt, 2), true},
		{"map keys by default", String("scores", eq, "dex"), true},
		{"map keys explicitly", String("scores:keys", eq, "str"), true},
		{"map values", Int("scores:values", eq, 5), true},
		{"map values all", Int("scores:values:all", gte, 3), true},
		{"set members", String("labels", eq, "hero"), true},
		{"set members all", String("labels:all", eq, "hero"), false},
		{"count", Int("tags:count", eq, 2), true},
		{"count mismatch", Int("tags:count", gt, 2), false},
		{"count of map", Int("scores:count", eq, 2), true},
		{"count as array condition", IntArray("levels:count", eq, []int64{2}, []int64{3}), true},
		{"count before expansion", Int("items:count.name", eq, 5), true},
		{"nested collection", String("stats.titles", eq, "Sir"), true},
		{"typename items", Typename("items", has, reflect.TypeOf((*Rifle)(nil)).Elem()), true},
		{"typename all items", Typename("items:all", eq, reflect.TypeOf((*Weapon)(nil)).Elem()), false},
		{"typename no items", Typename("items", has, reflect.TypeOf((*Stats)(nil)).Elem()), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(c, tt.condition), tt.condition.String())
		})
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateMapExpansion(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{"any value", Int("bags:values.strength", eq, 8), true},
		{"no value", Int("bags:values.strength", gt, 10), false},
		{"all values", Int("bags:values:all.strength", gte, 3), true},
		{"not all values", Int("bags:values:all.strength", gt, 3), false},
		{"nested collection of a value", String("bags:values.titles", eq, "Squire"), true},
		{"value by index", Int("bags:values.1.strength", eq, 8), true},
		{"value by index mismatch", Int("bags:values.0.strength", eq, 8), false},
		{"keys terminal", String("bags", eq, "saddle"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(c, tt.condition), tt.condition.String())
		})
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

// countingReader records positional reads so tests can tell whether items
// were listed once or fetched index by index.
type countingReader struct {
	reflection.StructReader
	lists      int
	positional int
}

func (r *countingReader) Items(collection any, values bool) ([]any, error) {
	r.lists++
	return r.StructReader.Items(collection, values)
}

func (r *countingReader) Get(collection any, index int) (any, error) {
	r.positional++
	return r.StructReader.Get(collection, index)
}

func (r *countingReader) GetKey(collection any, index int) (any, error) {
	r.positional++
	return r.StructReader.GetKey(collection, index)
}

func (r *countingReader) GetElement(collection any, index int) (any, error) {
	r.positional++
	return r.StructReader.GetElement(collection, index)
}

// positionalReader hides the ItemLister capability of its reader.
type positionalReader struct {
	reflection.FieldReader
}

func TestEvaluateListsMapItemsOnce(t *testing.T) {
	c := newCharacter()
	c.Scores = make(map[string]int, 1000)
	for i := 0; i < 1000; i++ {
		c.Scores[strconv.Itoa(i)] = i
	}

	reader := &countingReader{}
	e, diagnostics := newTestEvaluator(t, WithReader(reader))
	assert.False(t, e.Evaluate(c, Int("scores:values", eq, -1)))
	assert.True(t, e.Evaluate(c, Int("scores:values:all", gte, 0)))
	assert.True(t, e.Evaluate(c, String("scores", eq, "999")))
	assert.True(t, e.Evaluate(c, Int("bags:values.strength", eq, 8)))
	assert.Equal(t, 4, reader.lists)
	assert.Zero(t, reader.positional)
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())

	fallback, diagnostics := newTestEvaluator(t, WithReader(positionalReader{reflection.NewStructReader()}))
	assert.False(t, fallback.Evaluate(c, Int("scores:values", eq, -1)))
	assert.True(t, fallback.Evaluate(c, String("scores", eq, "999")))
	assert.True(t, fallback.Evaluate(c, Int("bags:values.1.strength", eq, 8)))
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateContainsAllIsMultisetSubset(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := &Character{Tags: []string{"a", "a", "b"}, Levels: []int{1, 1, 2}}

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{"same multiset", String("tags", all, "a", "a", "b"), true},
		{"same multiset reordered", String("tags", all, "b", "a", "a"), true},
		{"insufficient multiplicity", String("tags", all, "a", "a", "a"), false},
		{"subset", String("tags", all, "a", "b"), true},
		{"superset", String("tags", all, "a", "b", "c", "d"), false},
		{"negated insufficient multiplicity", String("tags", notAll, "a", "a", "a"), true},
		{"negated same multiset", String("tags", notAll, "a", "b", "a"), false},
		{"negated superset", String("tags", notAll, "a", "b", "c", "d"), true},
		{"ints", Int("levels", all, 2, 1, 1), true},
		{"ints insufficient multiplicity", Int("levels", all, 2, 2, 1), false},
		{"partial strings", String("tags", all, "a").PartialMatches(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(c, tt.condition), tt.condition.String())
		})
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateArrayConditions(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{"positional equal", IntArray("levels", eq, []int64{1, 2, 3}), true},
		{"order matters", IntArray("levels", eq, []int64{3, 2, 1}), false},
		{"length differs", IntArray("levels", eq, []int64{1, 2}), false},
		{"sequences are alternatives", IntArray("levels", eq, []int64{9}, []int64{1, 2, 3}), true},
		{"positional not equal", IntArray("levels", neq, []int64{1, 2, 4}), true},
		{"positional not equal on equal", IntArray("levels", neq, []int64{1, 2, 3}), false},
		{"not equal length differs", IntArray("levels", neq, []int64{1}), true},
		{"positional ordering", IntArray("levels", lt, []int64{2, 3, 4}), true},
		{"positional ordering fails", IntArray("levels", lt, []int64{2, 2, 4}), false},
		{"strings", StringArray("tags", eq, []string{"knight", "sword-master"}), true},
		{"strings invariant", StringArray("tags", eq, []string{"KNIGHT", "Sword-Master"}).Invariant(), true},
		{"floats", FloatArray("levels", eq, []float64{1, 2, 3.00001}), true},
		{"bools", BoolArray("alive", eq, []bool{true}), true},
		{"vectors", VectorArray("position", eq, []vector.Vector{vector.New(1, 2, 3)}), true},
		{"typenames", TypenameArray("items", eq, []reflect.Type{
			reflect.TypeOf((*Weapon)(nil)).Elem(),
			reflect.TypeOf((*Food)(nil)).Elem(),
			reflect.TypeOf((*Weapon)(nil)).Elem(),
			reflect.TypeOf((*Weapon)(nil)).Elem(),
			reflect.TypeOf((*Food)(nil)).Elem(),
		}), true},
		{"multiset equality", IntArray("levels", all, []int64{3, 1, 2}), true},
		{"multiset longer", IntArray("levels", all, []int64{3, 1}), false},
		{"not multiset longer", IntArray("levels", notAll, []int64{3, 1}), true},
		{"not multiset shorter", IntArray("levels", notAll, []int64{3, 1, 2, 2}), true},
		{"not multiset equal", IntArray("levels", notAll, []int64{2, 3, 1}), false},
		{"contains positional", IntArray("levels", has, []int64{1, 2, 3}), true},
		{"contains length differs", IntArray("levels", has, []int64{1, 2}), false},
		{"not contains positional", IntArray("levels", hasNo, []int64{1, 2, 3}), false},
		{"not contains length differs", IntArray("levels", hasNo, []int64{1, 2}), true},
		{"ordering length differs", IntArray("levels", lt, []int64{9}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(c, tt.condition), tt.condition.String())
		})
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateIndexAccessor(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()
	third := c.Items[2]

	for _, name := range []string{"musket", "sword", "bread"} {
		direct := e.Evaluate(third, String("name", eq, name))
		assert.Equal(t, direct, e.Evaluate(c, String("items.2.name", eq, name)), name)
		assert.Equal(t, direct, e.Evaluate(c, String("items:all.2.name", eq, name)), name)
		assert.Equal(t, direct, e.Evaluate(c, String("items:any.2.name", eq, name)), name)
	}
	assert.True(t, e.Evaluate(c, String("items.0.name", eq, "dagger")))

	// Behind a type filter the index counts items of that type only.
	assert.True(t, e.Evaluate(c, Int("items.Rifle.0.damage", eq, 9)))
	assert.True(t, e.Evaluate(c, String("items.Weapon.2.name", eq, "sword")))
	assert.True(t, e.Evaluate(c, String("items.Food.1.name", eq, "apple")))
	assert.False(t, e.Evaluate(c, String("items.Food.0.name", eq, "apple")))
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())

	assert.False(t, e.Evaluate(c, String("items.Food.2.name", eq, "apple")))
	assert.ErrorIs(t, diagnostics.Err(), ErrIndexOutOfRange)

	diagnostics.Reset()

	assert.False(t, e.Evaluate(c, String("items.5.name", eq, "dagger")))
	assert.ErrorIs(t, diagnostics.Err(), ErrIndexOutOfRange)

	diagnostics.Reset()
	assert.False(t, e.Evaluate(c, String("items.-1.name", eq, "dagger")))
	assert.ErrorIs(t, diagnostics.Err(), ErrIndexOutOfRange)
}

func TestEvaluateTypeFilter(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	c := newCharacter()

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{"any of type", Int("items.Rifle.damage", eq, 9), true},
		{"subtypes pass the filter", Int("items.Weapon.damage", eq, 9), true},
		{"all of type", Int("items.Weapon:all.damage", gt, 1), true},
		{"all of type fails", Int("items.Weapon:all.damage", gt, 2), false},
		{"quantifier on the filter wins", Int("items:all.Weapon:any.damage", eq, 5), true},
		{"other type skipped", Int("items.Food.calories", gte, 200), true},
		{"all food", Int("items.Food:all.calories", lt, 300), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(c, tt.condition), tt.condition.String())
		})
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())

	// No item of the filtered type: neither ANY nor ALL match.
	pantry := &Character{Items: []any{Food{Name: "bread"}}}
	assert.False(t, e.Evaluate(pantry, Int("items.Weapon.damage", gte, 0)))
	assert.False(t, e.Evaluate(pantry, Int("items.Weapon:all.damage", gte, 0)))

	empty := &Character{}
	assert.False(t, e.Evaluate(empty, Int("items:all.damage", gte, 0)))
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateQuantifierDuality(t *testing.T) {
	e, _ := newTestEvaluator(t)

	for i := 0; i < 20; i++ {
		word := randomWord()
		other := word + "-other"

		every := &Character{Tags: []string{word, word, word}}
		assert.True(t, e.Evaluate(every, String("tags:all", eq, word)))
		assert.True(t, e.Evaluate(every, String("tags:any", eq, word)))

		one := &Character{Tags: []string{other, word, other}}
		assert.True(t, e.Evaluate(one, String("tags:any", eq, word)))
		assert.False(t, e.Evaluate(one, String("tags:all", eq, word)))

		items := &Character{Items: []any{Weapon{Name: word, Damage: 1}, Weapon{Name: other, Damage: 1}}}
		assert.True(t, e.Evaluate(items, String("items.name", eq, word)))
		assert.False(t, e.Evaluate(items, String("items:all.name", eq, word)))
		assert.True(t, e.Evaluate(items, Int("items:all.damage", eq, 1)))
	}
}

func TestEvaluateOperatorComplements(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)

	for i := 0; i < 50; i++ {
		c := &Character{
			Name:     randomWord(),
			Level:    randomInt(),
			Health:   float64(randomInt()) / 4,
			Alive:    randomInt()%2 == 0,
			Position: vector.New(float64(randomInt()), 0, 1),
			Tags:     []string{randomWord(), randomWord()},
			Levels:   []int{randomInt(), randomInt()},
		}
		values := []int64{int64(randomInt()), int64(randomInt()), int64(c.Level)}[:1+randomInt()%3]
		words := []string{randomWord(), c.Name}[:1+randomInt()%2]

		pairs := []struct{ positive, negative Condition }{
			{Int("level", eq, values...), Int("level", neq, values...)},
			{Int("level", has, values...), Int("level", hasNo, values...)},
			{Float("health", eq, float64(values[0])/4), Float("health", neq, float64(values[0])/4)},
			{Bool("alive", eq, true), Bool("alive", neq, true)},
			{String("name", eq, words...), String("name", neq, words...)},
			{String("name", eq, words...).Invariant(), String("name", neq, words...).Invariant()},
			{String("name", has, words...), String("name", hasNo, words...)},
			{Vector("position", eq, vector.New(float64(values[0]), 0, 1)), Vector("position", neq, vector.New(float64(values[0]), 0, 1))},
			{String("tags", all, words...), String("tags", notAll, words...)},
			{Int("levels", all, values...), Int("levels", notAll, values...)},
			{IntArray("levels", eq, values), IntArray("levels", neq, values)},
			{IntArray("levels", has, values), IntArray("levels", hasNo, values)},
			{IntArray("levels", all, values), IntArray("levels", notAll, values)},
		}
		for _, p := range pairs {
			assert.NotEqual(t, e.Evaluate(c, p.positive), e.Evaluate(c, p.negative), "%s vs %s on %+v", p.positive, p.negative, c)
		}
	}
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateNullOrDefault(t *testing.T) {
	e, diagnostics := newTestEvaluator(t)
	blank := &Character{Name: "   ", Scores: map[string]int{}}
	full := newCharacter()

	for _, path := range []string{"level", "health", "alive", "name", "position", "tags", "scores", "labels", "items", "stats", "class", "id"} {
		t.Run(path, func(t *testing.T) {
			assert.True(t, e.Evaluate(blank, NullOrDefault(path, true)))
			assert.False(t, e.Evaluate(blank, NullOrDefault(path, false)))
			assert.False(t, e.Evaluate(full, NullOrDefault(path, true)))
			assert.True(t, e.Evaluate(full, NullOrDefault(path, false)))
		})
	}

	assert.True(t, e.Evaluate(&Character{Health: 0.00001}, NullOrDefault("health", true)))
	assert.True(t, e.Evaluate(&Character{Position: vector.New(0, 0.00001, 0)}, NullOrDefault("position", true)))
	assert.True(t, e.Evaluate(full, NullOrDefault("stats.strength", false)))
	assert.False(t, e.Evaluate(&Character{Stats: &Stats{}}, NullOrDefault("stats", true)))
	assert.True(t, e.Evaluate(&Character{Stats: &Stats{}}, NullOrDefault("stats.titles", true)))
	assert.Zero(t, diagnostics.Len(), diagnostics.Err())
}

func TestEvaluateFailuresAreNonMatches(t *testing.T) {
	c := newCharacter()

	tests := []struct {
		name      string
		entity    any
		condition Condition
		err       error
	}{
		{"empty path", c, String("", eq, "x"), ErrEmptyPath},
		{"separators only", c, String("..", eq, "x"), ErrEmptyPath},
		{"unknown field", c, Int("mana", eq, 1), ErrFieldNotFound},
		{"unknown nested field", c, Int("stats.mana", eq, 1), ErrFieldNotFound},
		{"primitive expansion", c, Int("level.value", eq, 1), ErrPrimitiveExpansion},
		{"vector expansion", c, Float("position.x", eq, 1), ErrPrimitiveExpansion},
		{"nil nested object", &Character{}, Int("stats.strength", eq, 0), ErrUnreadableField},
		{"empty comparison", c, Int("level", eq), ErrEmptyComparison},
		{"empty array comparison", c, IntArray("levels", eq), ErrEmptyComparison},
		{"empty sequence", c, IntArray("levels", eq, []int64{}), ErrEmptyComparison},
		{"ordering on bool", c, Bool("alive", lt, true), ErrUnsupportedOperator},
		{"ordering on string", c, String("name", gt, "A"), ErrUnsupportedOperator},
		{"ordering on typename", c, Typename("class", lte, reflect.TypeOf((*Weapon)(nil)).Elem()), ErrUnsupportedOperator},
		{"kind mismatch", c, Int("name", eq, 1), ErrConditionKindMismatch},
		{"kind mismatch on items", c, Int("tags", eq, 1), ErrConditionKindMismatch},
		{"map keys are not ints", c, Int("scores", eq, 5), ErrConditionKindMismatch},
		{"count needs ints", c, String("tags:count", eq, "2"), ErrConditionKindMismatch},
		{"path ends at type filter", c, Int("items.Weapon", eq, 1), ErrSegmentOutOfRange},
		{"path ends at index", c, Int("items.0", eq, 1), ErrSegmentOutOfRange},
		{"map keys have no fields", c, Int("bags.strength", eq, 3), ErrFieldNotFound},
		{"not an object", 42, Int("level", eq, 1), ErrFieldNotFound},
		{"nil condition", c, nil, ErrUnknownCondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, diagnostics := newTestEvaluator(t)
			assert.False(t, e.Evaluate(tt.entity, tt.condition))
			require.Error(t, diagnostics.Err())
			assert.ErrorIs(t, diagnostics.Err(), tt.err)
		})
	}
}

func TestMatch(t *testing.T) {
	e, _ := newTestEvaluator(t)
	c := newCharacter()

	matched, err := e.Match(c, Or(Int("mana", eq, 1), Int("level", eq, 7)))
	assert.True(t, matched)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.Contains(t, err.Error(), "mana")

	matched, err = e.Match(c, Int("level", eq, 7))
	assert.True(t, matched)
	assert.NoError(t, err)

	matched, err = e.Match(c, Int("level", eq, 8))
	assert.False(t, matched)
	assert.NoError(t, err)
}

func TestTolerance(t *testing.T) {
	c := &Character{Health: 10.05, Position: vector.New(0, 0, 0.05)}

	e, _ := newTestEvaluator(t)
	assert.False(t, e.Evaluate(c, Float("health", eq, 10)))
	assert.False(t, e.Evaluate(c, NullOrDefault("position", true)))

	loose, _ := newTestEvaluator(t, WithTolerance(0.1))
	assert.True(t, loose.Evaluate(c, Float("health", eq, 10)))
	assert.True(t, loose.Evaluate(c, NullOrDefault("position", true)))
}

func TestUtf8Length(t *testing.T) {
	assert.Equal(t, 0, utf8Length(""))
	assert.Equal(t, 3, utf8Length("abc"))
	assert.Equal(t, 3, utf8Length("€ab"))
	assert.Equal(t, 2, utf8Length("日本"))
}
