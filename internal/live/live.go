// Package live holds observable snapshots. Producers post immutable values;
// each observer receives the latest value on subscribe and every later post,
// delivered on the executor it chose.
package live

import (
	"sync"

	"github.com/lox/sunshine/internal/executor"
)

// Value is the latest snapshot of T plus its observers.
type Value[T any] struct {
	mu        sync.Mutex
	value     T
	has       bool
	version   uint64
	observers map[uint64]*observer[T]
	nextID    uint64
}

type observer[T any] struct {
	ex     executor.Executor
	fn     func(T)
	mu     sync.Mutex
	active bool
}

// deliver runs on the observer's executor. The active check covers deliveries
// already queued when Cancel was called.
func (o *observer[T]) deliver(v T) {
	o.mu.Lock()
	active := o.active
	o.mu.Unlock()
	if active {
		o.fn(v)
	}
}

// NewValue returns an empty Value.
func NewValue[T any]() *Value[T] {
	return &Value[T]{observers: make(map[uint64]*observer[T])}
}

// Post replaces the snapshot and queues it for every observer.
func (v *Value[T]) Post(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = x
	v.has = true
	v.version++
	for _, o := range v.observers {
		o := o
		o.ex.Execute(func() { o.deliver(x) })
	}
}

// Get returns the current snapshot, if one was ever posted.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.has
}

// Version counts posts. Zero means nothing was posted.
func (v *Value[T]) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

// Observe registers fn to run on ex for the current snapshot, if any, and for
// every later post. With an inline executor fn runs under the value's lock and
// must not call back into v.
func (v *Value[T]) Observe(ex executor.Executor, fn func(T)) *Subscription {
	o := &observer[T]{ex: ex, fn: fn, active: true}

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.observers[id] = o
	if v.has {
		x := v.value
		ex.Execute(func() { o.deliver(x) })
	}
	v.mu.Unlock()

	return NewSubscription(func() {
		v.mu.Lock()
		delete(v.observers, id)
		v.mu.Unlock()
		o.mu.Lock()
		o.active = false
		o.mu.Unlock()
	})
}

// Observers reports how many subscriptions are active.
func (v *Value[T]) Observers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}

// Subscription is the handle returned by Observe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription wraps a teardown func. Cancel runs it at most once.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel stops deliveries. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
