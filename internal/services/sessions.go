package services

import (
	"sync"
	"time"
)

type session[T any] struct {
	value    T
	lastUsed time.Time
}

// registry holds live study sessions by id and tracks when each was last used.
type registry[T any] struct {
	mu    sync.Mutex
	items map[string]*session[T]
	now   func() time.Time
}

func newRegistry[T any](now func() time.Time) *registry[T] {
	return &registry[T]{items: make(map[string]*session[T]), now: now}
}

func (r *registry[T]) add(id string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = &session[T]{value: v, lastUsed: r.now()}
}

// get returns the session and marks it as used.
func (r *registry[T]) get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	s.lastUsed = r.now()
	return s.value, true
}

func (r *registry[T]) remove(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	delete(r.items, id)
	return s.value, true
}

// expire removes and returns sessions idle for longer than ttl.
func (r *registry[T]) expire(ttl time.Duration) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-ttl)
	var out []T
	for id, s := range r.items {
		if s.lastUsed.Before(cutoff) {
			delete(r.items, id)
			out = append(out, s.value)
		}
	}
	return out
}

func (r *registry[T]) drain() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.items))
	for id, s := range r.items {
		delete(r.items, id)
		out = append(out, s.value)
	}
	return out
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
