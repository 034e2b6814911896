// Package session keeps the presentation-facing mirror of the task
// collection.
//
// The mirror is a cache of store responses: each mutation is persisted
// first, then the mirror is patched from the operation's own result
// instead of re-reading the whole store. When a store call fails the
// mirror is left untouched and the error propagates to the caller.
package session

import (
	"fmt"
	"sync"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/task"
)

// Session exposes the in-memory mirror, loading/error state for the
// initial load, and derived statistics.
type Session struct {
	mu      sync.Mutex
	store   *store.Store
	tasks   []task.Task
	loading bool
	loadErr error
}

// New returns a session over s. Call Load before reading the mirror.
func New(s *store.Store) *Session {
	return &Session{store: s}
}

// Load replaces the mirror wholesale from the store. Loading is true for
// the duration of the call; a failure is retained in Err for display and
// also returned.
func (s *Session) Load() error {
	s.mu.Lock()
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	tasks, err := s.store.ReadAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.loadErr = fmt.Errorf("loading tasks: %w", err)
		return s.loadErr
	}
	s.tasks = tasks
	return nil
}

// Tasks returns a copy of the mirror, newest first.
func (s *Session) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether the initial load is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the retained initial-load failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// CreateTask persists a new task and prepends it to the mirror. The
// mutation is pessimistic: the mirror only changes after the store
// confirms persistence.
func (s *Session) CreateTask(input task.CreateInput) (task.Task, error) {
	created, err := s.store.Create(input)
	if err != nil {
		return task.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]task.Task{created}, s.tasks...)
	return created, nil
}

// UpdateTask persists a partial update and replaces the matching mirror
// entry in place. A not-found result leaves the mirror untouched and
// returns nil.
func (s *Session) UpdateTask(id string, patch task.Patch) (*task.Task, error) {
	updated, err := s.store.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = *updated
			break
		}
	}
	return updated, nil
}

// RemoveTask persists the removal and unconditionally drops any matching
// mirror entry, mirroring the store's idempotent semantics.
func (s *Session) RemoveTask(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0]
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			kept = append(kept, s.tasks[i])
		}
	}
	s.tasks = kept
	return nil
}

// Clear deletes the persisted collection and empties the mirror.
func (s *Session) Clear() error {
	if err := s.store.ClearAll(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
	return nil
}

// Stats derives summary counts from the mirror.
func (s *Session) Stats() task.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.Summarize(s.tasks)
}
