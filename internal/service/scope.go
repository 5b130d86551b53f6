package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Scope memoizes source fetches for one logical request or process run.
// Entries never expire; drop the Scope to start over. Failed loads are not
// stored, so a later call in the same scope tries again.
//
// A Scope is safe for concurrent use: concurrent first callers for the same
// key share a single load.
type Scope struct {
	mu     sync.Mutex
	values map[string]interface{}
	group  singleflight.Group
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return &Scope{values: make(map[string]interface{})}
}

func (s *Scope) lookup(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of memoized entries
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// scopeLoad returns the value stored under key or runs load once to fill it.
// hit reports whether the value was already stored. A caller whose ctx is
// still live does not inherit a context error from a shared flight started
// by a caller that has gone away; it runs its own load once instead.
func scopeLoad[T any](ctx context.Context, s *Scope, key string, load func() (T, error)) (value T, hit bool, err error) {
	if v, ok := s.lookup(key); ok {
		return v.(T), true, nil
	}

	fill := func() (interface{}, error) {
		// a flight for key may have completed between lookup and Do
		if v, ok := s.lookup(key); ok {
			return v, nil
		}
		loaded, err := load()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.values[key] = loaded
		s.mu.Unlock()
		return loaded, nil
	}

	v, err, shared := s.group.Do(key, fill)
	if err != nil && shared && ctx.Err() == nil && isContextError(err) {
		v, err, _ = s.group.Do(key, fill)
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
