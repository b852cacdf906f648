package find

import (
	"reflect"
	"testing"

	"syreclabs.com/go/faker"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/vector"
)

type Weapon struct {
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

func (w Weapon) GetID() string { return w.Name }

type Rifle struct {
	Weapon
	Caliber float64 `json:"caliber"`
}

type Food struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

type Stats struct {
	Strength int      `json:"strength"`
	Titles   []string `json:"titles"`
}

type Character struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Level    int                 `json:"level"`
	Health   float64             `json:"health"`
	Alive    bool                `json:"alive"`
	Position vector.Vector       `json:"position"`
	Tags     []string            `json:"tags"`
	Levels   []int               `json:"levels"`
	Scores   map[string]int      `json:"scores"`
	Labels   map[string]struct{} `json:"labels"`
	Items    []any               `json:"items"`
	Stats    *Stats              `json:"stats"`
	Bags     map[string]Stats    `json:"bags"`
	Class    reflect.Type        `json:"class"`
}

func (c *Character) GetID() string { return c.ID }

func newTypes() *reflection.TypeRegistry {
	types := reflection.NewTypeRegistry()
	reflection.RegisterType[Weapon](types, "Weapon")
	reflection.RegisterType[Rifle](types, "Rifle")
	reflection.RegisterType[Food](types, "Food")
	return types
}

func newTestEvaluator(t *testing.T, opts ...Option) (*Evaluator, *DiagnosticCollector) {
	t.Helper()
	diagnostics := NewDiagnosticCollector()
	opts = append([]Option{WithTypes(newTypes()), WithDiagnostics(diagnostics)}, opts...)
	return NewEvaluator(opts...), diagnostics
}

func newCharacter() *Character {
	return &Character{
		ID:       "c1",
		Name:     "Sir Galahad",
		Level:    7,
		Health:   50.00001,
		Alive:    true,
		Position: vector.New(1, 2, 3),
		Tags:     []string{"knight", "sword-master"},
		Levels:   []int{1, 2, 3},
		Scores:   map[string]int{"str": 5, "dex": 3},
		Labels:   map[string]struct{}{"hero": {}, "brave": {}},
		Items: []any{
			Weapon{Name: "dagger", Damage: 2},
			Food{Name: "bread", Calories: 200},
			Rifle{Weapon: Weapon{Name: "musket", Damage: 9}, Caliber: 0.69},
			Weapon{Name: "sword", Damage: 5},
			Food{Name: "apple", Calories: 50},
		},
		Stats: &Stats{Strength: 12, Titles: []string{"Sir"}},
		Bags: map[string]Stats{
			"pack":   {Strength: 3, Titles: []string{"Squire"}},
			"saddle": {Strength: 8},
		},
		Class: reflect.TypeOf((*Rifle)(nil)).Elem(),
	}
}

func randomWord() string {
	return faker.Lorem().Word()
}

func randomInt() int {
	return faker.RandomInt(0, 100)
}
