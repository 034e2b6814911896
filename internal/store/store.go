// Package store implements durable CRUD over the task collection.
//
// The whole collection is persisted as one JSON array under a single
// fixed key. Every mutating operation is a read-modify-write of the full
// blob, guarded by a mutex so concurrent callers can never interleave
// between the read and the write-back.
package store

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/id"
	"github.com/taskdeck/taskdeck/internal/kv"
	"github.com/taskdeck/taskdeck/internal/task"
)

// Key is the storage key the collection lives under.
const Key = "taskdeck.tasks.v1"

// Store provides create/read/update/delete/clear over the persisted
// collection.
type Store struct {
	mu      sync.Mutex
	backend kv.Backend
	ids     *id.Generator
	now     func() time.Time
}

// New returns a store over backend.
func New(backend kv.Backend) *Store {
	return &Store{
		backend: backend,
		ids:     id.New(),
		now:     time.Now,
	}
}

// Create assigns an id and timestamps to input, prepends the new task to
// the collection, persists it, and returns the task.
func (s *Store) Create(input task.CreateInput) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return task.Task{}, err
	}

	now := s.now().UTC()
	t := task.Task{
		ID:          s.ids.Next(),
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
		Done:        input.Done,
	}

	tasks = append([]task.Task{t}, tasks...)
	if err := s.save(tasks); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// ReadAll returns the persisted collection, newest first. A missing or
// malformed blob yields an empty collection, not an error.
func (s *Store) ReadAll() ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// ReadByID returns the task with the given id, or nil when absent.
func (s *Store) ReadByID(taskID string) (*task.Task, error) {
	tasks, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

// Update merges patch onto the task with the given id, refreshes its
// UpdatedAt, persists the collection, and returns the updated task. The
// task keeps its position. When no task matches, the collection is written
// back unchanged and nil is returned.
func (s *Store) Update(taskID string, patch task.Patch) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	var updated *task.Task
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		patch.Apply(&tasks[i])
		tasks[i].UpdatedAt = s.now().UTC()
		t := tasks[i]
		updated = &t
		break
	}

	if err := s.save(tasks); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove drops the task with the given id. Removing an unknown id is a
// silent no-op.
func (s *Store) Remove(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for i := range tasks {
		if tasks[i].ID != taskID {
			kept = append(kept, tasks[i])
		}
	}
	return s.save(kept)
}

// ClearAll deletes the storage key itself, which is distinct from
// persisting an empty array: the medium reclaims the key.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Delete(Key)
}

// load reads and decodes the collection. Corrupted state is deliberately
// treated as "no data" rather than a fatal error; only a medium failure
// propagates. Caller holds s.mu.
func (s *Store) load() ([]task.Task, error) {
	data, err := s.backend.Get(Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decode(data), nil
}

// save encodes and writes the full collection. Caller holds s.mu.
func (s *Store) save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return s.backend.Put(Key, data)
}

// decode parses data as a task array, returning nil for anything that is
// not one.
func decode(data []byte) []task.Task {
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	return tasks
}
