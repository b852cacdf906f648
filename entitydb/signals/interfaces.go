// Package signals is a synchronous observer list.
package signals

type Observer[E any] func(E)

// Disposable detaches the observer it was returned for.
type Disposable interface {
	Dispose()
}

type Signal[E any] interface {
	Attach(observer Observer[E], observerID ...any) Disposable
	Detach(observer Observer[E], observerID ...any)
	Notify(event E)
}
