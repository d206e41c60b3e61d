package tableview

import "sync"

// Subscription cancels a listener registration
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// listenerSet holds the callbacks of one change kind, in registration order.
// It is guarded by the Manager's mutex.
type listenerSet[T any] struct {
	nextID  int
	entries []listenerEntry[T]
}

func (s *listenerSet[T]) add(fn func(T)) int {
	s.nextID++
	s.entries = append(s.entries, listenerEntry[T]{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *listenerSet[T]) remove(id int) {
	for i, entry := range s.entries {
		if entry.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

// notify binds value to a snapshot of the current listeners; the returned func
// runs them later, outside the lock.
func (s *listenerSet[T]) notify(value T) func() {
	fns := make([]func(T), 0, len(s.entries))
	for _, entry := range s.entries {
		fns = append(fns, entry.fn)
	}
	return func() {
		for _, fn := range fns {
			fn(value)
		}
	}
}
