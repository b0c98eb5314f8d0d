// Package observable provides a replay-latest value holder: subscribers get the
// current value immediately and every later change, with no history beyond the
// latest value.
package observable

import "sync"

// Value holds a T and pushes every change to its subscribers.
//
// Published values are snapshots: callers must not mutate a slice or map after
// handing it to Set, nor mutate what Get returns.
//
// Notifications for successive Sets never interleave. A subscriber must not call
// Set, Update or Subscribe on the same Value from inside its callback.
type Value[T any] struct {
	pub sync.Mutex // serialises publish + notify

	mu     sync.Mutex
	value  T
	subs   []subscriber[T]
	nextID uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

func (v *Value[T]) Set(value T) {
	v.pub.Lock()
	defer v.pub.Unlock()
	v.publish(value)
}

// Update replaces the value with fn(current) atomically w.r.t. other writers.
func (v *Value[T]) Update(fn func(T) T) {
	v.pub.Lock()
	defer v.pub.Unlock()
	v.publish(fn(v.Get()))
}

// Subscribe registers fn, calls it with the current value before returning, and
// returns a function that removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	current := v.value
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

func (v *Value[T]) publish(value T) {
	v.mu.Lock()
	v.value = value
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

func (v *Value[T]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s.id == id {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}
