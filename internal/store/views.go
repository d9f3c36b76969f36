package store

import (
	"log"
	"sync"

	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/live"
)

// View is a live query over the weather table. It loads when first observed,
// reloads after every write while it has observers, and stops tracking the
// table once the last observer cancels.
type View[T any] struct {
	store *Store
	name  string
	load  func() (T, error)
	value *live.Value[T]

	mu         sync.Mutex
	observers  int
	unregister func()
}

func newView[T any](s *Store, name string, load func() (T, error)) *View[T] {
	return &View[T]{
		store: s,
		name:  name,
		load:  load,
		value: live.NewValue[T](),
	}
}

// Observe runs fn on ex with every snapshot of the query. It returns at once;
// the first snapshot arrives after the initial load completes.
func (v *View[T]) Observe(ex executor.Executor, fn func(T)) *live.Subscription {
	sub := v.value.Observe(ex, fn)

	v.mu.Lock()
	v.observers++
	first := v.observers == 1
	if first {
		v.unregister = v.store.watch(v.refresh)
	}
	v.mu.Unlock()

	if first {
		v.store.exec.Execute(v.refresh)
	}

	return live.NewSubscription(func() {
		sub.Cancel()
		v.mu.Lock()
		v.observers--
		if v.observers == 0 && v.unregister != nil {
			v.unregister()
			v.unregister = nil
		}
		v.mu.Unlock()
	})
}

// Load runs the query once, bypassing the live value.
func (v *View[T]) Load() (T, error) {
	return v.load()
}

// Latest returns the last snapshot delivered to observers, if any.
func (v *View[T]) Latest() (T, bool) {
	return v.value.Get()
}

func (v *View[T]) refresh() {
	x, err := v.load()
	if err != nil {
		log.Printf("store: refresh %s: %v", v.name, err)
		return
	}
	v.value.Post(x)
}
