package reflection

import (
	"reflect"
	"sync"
)

// TypeRegistry maps declared type names to Go types.
type TypeRegistry struct {
	mu      sync.RWMutex
	byName  map[string]reflect.Type
	names   map[reflect.Type]string
	version uint64
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byName: make(map[string]reflect.Type),
		names:  make(map[reflect.Type]string),
	}
}

// RegisterType registers T under name.
//
//	RegisterType[Vehicle](types, "Vehicle")  // interface types work too
func RegisterType[T any](r *TypeRegistry, name string) reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.Register(name, t)
	return t
}

// Register binds name to t, replacing any previous binding of name.
func (r *TypeRegistry) Register(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byName[name]; ok {
		delete(r.names, prev)
	}
	r.byName[name] = t
	r.names[t] = name
	r.version++
}

func (r *TypeRegistry) ResolveTypeByName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Name returns the registered name of t, or the Go type string.
func (r *TypeRegistry) Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.names[t]; ok {
		return name
	}
	return t.String()
}

// Version changes whenever a type is registered.
func (r *TypeRegistry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *TypeRegistry) IsSubtypeOf(a, b reflect.Type) bool {
	return IsSubtypeOf(a, b)
}

// IsSubtypeOf reports whether a is b or descends from it. Pointers are
// stripped. A type descends from an interface it (or its pointer) implements,
// and from every struct type it embeds, transitively.
func IsSubtypeOf(a, b reflect.Type) bool {
	if a == nil || b == nil {
		return false
	}
	a = deref(a)
	if b.Kind() == reflect.Interface {
		return a.Implements(b) || reflect.PointerTo(a).Implements(b)
	}
	return embeds(a, deref(b), make(map[reflect.Type]struct{}))
}

func embeds(a, b reflect.Type, visited map[reflect.Type]struct{}) bool {
	if a == b {
		return true
	}
	if a.Kind() != reflect.Struct {
		return false
	}
	if _, ok := visited[a]; ok {
		return false
	}
	visited[a] = struct{}{}
	for i := 0; i < a.NumField(); i++ {
		f := a.Field(i)
		if f.Anonymous && embeds(deref(f.Type), b, visited) {
			return true
		}
	}
	return false
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
