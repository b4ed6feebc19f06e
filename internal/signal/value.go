// Package signal holds a single owned value and notifies subscribers when it
// changes.
//
// Notifications are never re-entrant: a Set issued from inside a subscriber is
// recorded immediately (Get observes it) but its notification is queued and
// delivered after the current dispatch finishes, in the order the values were
// set.
package signal

// Value is an observable value. The zero Value is not usable; call New.
type Value[T any] struct {
	current     T
	subs        []subscription[T]
	nextID      int
	dispatching bool
	queue       []T
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// New returns a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the latest value.
func (v *Value[T]) Get() T {
	return v.current
}

// Set stores next and notifies subscribers.
func (v *Value[T]) Set(next T) {
	v.current = next
	if v.dispatching {
		v.queue = append(v.queue, next)
		return
	}
	v.dispatching = true
	defer func() { v.dispatching = false }()
	v.notify(next)
	for len(v.queue) > 0 {
		pending := v.queue[0]
		v.queue = v.queue[1:]
		v.notify(pending)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscription[T]{id: id, fn: fn})
	return func() {
		for i, sub := range v.subs {
			if sub.id == id {
				v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// Len reports the number of live subscriptions.
func (v *Value[T]) Len() int {
	return len(v.subs)
}

func (v *Value[T]) notify(value T) {
	// copy so unsubscribing during dispatch does not skip a neighbour
	subs := append([]subscription[T](nil), v.subs...)
	for _, sub := range subs {
		sub.fn(value)
	}
}
