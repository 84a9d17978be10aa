// Package live provides a single-slot broadcast value.
//
// A Value holds at most one current value. New subscribers receive it immediately,
// and every later Set is delivered to all current subscribers. Subscribers that fall
// behind only ever see the latest value; there is no queued history.
package live

import "sync"

// Value is a latest-value broadcast primitive. The zero value is not usable; use New.
type Value[T any] struct {
	// deliver serializes Set calls so observers see updates in order
	deliver sync.Mutex

	mu        sync.Mutex
	current   T
	hasValue  bool
	closed    bool
	subs      map[*Subscription[T]]struct{}
	observers map[int]func(T)
	nextID    int
}

// New returns an empty Value
func New[T any]() *Value[T] {
	return &Value[T]{
		subs:      make(map[*Subscription[T]]struct{}),
		observers: make(map[int]func(T)),
	}
}

// NewWith returns a Value holding v
func NewWith[T any](v T) *Value[T] {
	l := New[T]()
	l.current = v
	l.hasValue = true
	return l
}

// Set replaces the current value and delivers it to subscribers and observers.
// Observers run in the caller's goroutine and must not call Set on the same Value.
func (l *Value[T]) Set(v T) {
	l.deliver.Lock()
	defer l.deliver.Unlock()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.current = v
	l.hasValue = true
	for s := range l.subs {
		s.offer(v)
	}
	observers := make([]func(T), 0, len(l.observers))
	for _, fn := range l.observers {
		observers = append(observers, fn)
	}
	l.mu.Unlock()

	for _, fn := range observers {
		fn(v)
	}
}

// Get returns the current value, if one was ever set
func (l *Value[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.hasValue
}

// Subscribe registers a channel subscriber. The current value, if any, is
// available on the channel immediately.
func (l *Value[T]) Subscribe() *Subscription[T] {
	s := &Subscription[T]{c: make(chan T, 1), parent: l}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		close(s.c)
		return s
	}
	if l.hasValue {
		s.offer(l.current)
	}
	l.subs[s] = struct{}{}
	return s
}

// Observe registers fn to be called with the current value (if any) and with
// every later update, in order. The returned func unregisters fn.
func (l *Value[T]) Observe(fn func(T)) (cancel func()) {
	l.deliver.Lock()
	defer l.deliver.Unlock()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return func() {}
	}
	id := l.nextID
	l.nextID++
	l.observers[id] = fn
	current, ok := l.current, l.hasValue
	l.mu.Unlock()

	if ok {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.observers, id)
			l.mu.Unlock()
		})
	}
}

// Subscribers returns the number of registered subscribers and observers
func (l *Value[T]) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs) + len(l.observers)
}

// Close unregisters every subscriber and observer. Subscription channels are
// closed and later calls to Set are ignored.
func (l *Value[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for s := range l.subs {
		close(s.c)
		delete(l.subs, s)
	}
	clear(l.observers)
}

// Subscription is a channel view of a Value
type Subscription[T any] struct {
	c      chan T
	parent *Value[T]
}

// C returns the delivery channel. It is closed when the subscription or its
// Value is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.c
}

// Close unsubscribes and closes the channel
func (s *Subscription[T]) Close() {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	if _, ok := s.parent.subs[s]; ok {
		delete(s.parent.subs, s)
		close(s.c)
	}
}

// offer replaces any undelivered value with v. Callers hold the parent lock.
func (s *Subscription[T]) offer(v T) {
	select {
	case <-s.c:
	default:
	}
	select {
	case s.c <- v:
	default:
	}
}
