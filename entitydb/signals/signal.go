package signals

import (
	"reflect"
	"slices"
	"sync"
)

type entry[E any] struct {
	id       any
	code     uintptr
	observer Observer[E]
}

// anonymousID identifies an observer attached without an id.
type anonymousID uint64

type disposeFunc func()

func (f disposeFunc) Dispose() { f() }

// SignalImp calls observers in attach order. Observers run outside the lock
// and may attach or detach during Notify; changes apply from the next Notify.
type SignalImp[E any] struct {
	mu        sync.Mutex
	observers []entry[E]
	next      anonymousID
}

func NewSignal[E any]() *SignalImp[E] {
	return &SignalImp[E]{}
}

// Attach registers observer under observerID. Attaching an id twice keeps the
// first observer. Without an id every call registers a new observer, even for
// closures of the same function literal; detach those through the returned
// Disposable.
func (s *SignalImp[E]) Attach(observer Observer[E], observerID ...any) Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id any
	if len(observerID) > 0 {
		id = observerID[0]
		if slices.ContainsFunc(s.observers, func(e entry[E]) bool { return e.id == id }) {
			return s.disposer(id)
		}
	} else {
		s.next++
		id = s.next
	}
	s.observers = append(s.observers, entry[E]{id: id, code: codeOf(observer), observer: observer})
	return s.disposer(id)
}

// Detach removes the observer attached under observerID. Without an id it
// removes the earliest anonymous observer sharing observer's code.
func (s *SignalImp[E]) Detach(observer Observer[E], observerID ...any) {
	if len(observerID) > 0 {
		s.remove(observerID[0])
		return
	}
	code := codeOf(observer)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.observers, func(e entry[E]) bool {
		_, anonymous := e.id.(anonymousID)
		return anonymous && e.code == code
	})
	if i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}

func (s *SignalImp[E]) Notify(event E) {
	s.mu.Lock()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, e := range observers {
		e.observer(event)
	}
}

func (s *SignalImp[E]) disposer(id any) Disposable {
	return disposeFunc(func() {
		s.remove(id)
	})
}

func (s *SignalImp[E]) remove(id any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = slices.DeleteFunc(s.observers, func(e entry[E]) bool { return e.id == id })
}

func codeOf[E any](observer Observer[E]) uintptr {
	return reflect.ValueOf(observer).Pointer()
}
