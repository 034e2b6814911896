package session

import (
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/internal/kv"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/task"
)

type memBackend struct {
	data    map[string][]byte
	failAll bool
}

var errMedium = errors.New("medium unavailable")

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string][]byte)}
}

func (m *memBackend) Get(key string) ([]byte, error) {
	if m.failAll {
		return nil, errMedium
	}
	v, ok := m.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (m *memBackend) Put(key string, value []byte) error {
	if m.failAll {
		return errMedium
	}
	m.data[key] = value
	return nil
}

func (m *memBackend) Delete(key string) error {
	if m.failAll {
		return errMedium
	}
	delete(m.data, key)
	return nil
}

func (m *memBackend) Close() error { return nil }

func newTestSession() (*Session, *store.Store, *memBackend) {
	b := newMemBackend()
	st := store.New(b)
	return New(st), st, b
}

// requireMirrorMatchesStore checks the round-trip property: after any
// sequence of operations the mirror equals a direct ReadAll.
func requireMirrorMatchesStore(t *testing.T, s *Session, st *store.Store) {
	t.Helper()
	mirror := s.Tasks()
	stored, err := st.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(mirror) != len(stored) {
		t.Fatalf("mirror has %d tasks, store has %d", len(mirror), len(stored))
	}
	for i := range mirror {
		if mirror[i].ID != stored[i].ID || mirror[i].Title != stored[i].Title ||
			mirror[i].Done != stored[i].Done {
			t.Errorf("mirror[%d] = %+v, store[%d] = %+v", i, mirror[i], i, stored[i])
		}
	}
}

func TestLoadReplacesMirror(t *testing.T) {
	s, st, _ := newTestSession()
	if _, err := st.Create(task.CreateInput{Title: "Buy milk"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Loading() {
		t.Error("loading should be false after Load returns")
	}
	if s.Err() != nil {
		t.Errorf("Err: got %v, want nil", s.Err())
	}
	if got := s.Tasks(); len(got) != 1 || got[0].Title != "Buy milk" {
		t.Errorf("mirror: %+v", got)
	}
}

func TestLoadFailureSetsErr(t *testing.T) {
	b := newMemBackend()
	b.failAll = true
	s := New(store.New(b))

	if err := s.Load(); !errors.Is(err, errMedium) {
		t.Fatalf("Load: got %v, want medium error", err)
	}
	if s.Err() == nil {
		t.Error("Err should retain the load failure")
	}
	if s.Loading() {
		t.Error("loading should be false after a failed Load")
	}
}

func TestCreateTaskPrependsMirror(t *testing.T) {
	s, st, _ := newTestSession()
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	first, err := s.CreateTask(task.CreateInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	second, err := s.CreateTask(task.CreateInput{Title: "Walk dog"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got := s.Tasks()
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("mirror order: %+v", got)
	}
	requireMirrorMatchesStore(t, s, st)
}

func TestCreateTaskFailureLeavesMirror(t *testing.T) {
	s, _, b := newTestSession()
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := s.CreateTask(task.CreateInput{Title: "kept"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	b.failAll = true
	if _, err := s.CreateTask(task.CreateInput{Title: "lost"}); !errors.Is(err, errMedium) {
		t.Fatalf("CreateTask: got %v, want medium error", err)
	}
	if got := s.Tasks(); len(got) != 1 || got[0].Title != "kept" {
		t.Errorf("mirror changed by a failed create: %+v", got)
	}
}

func TestUpdateTaskInPlace(t *testing.T) {
	s, st, _ := newTestSession()
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	older, _ := s.CreateTask(task.CreateInput{Title: "Older"})
	target, _ := s.CreateTask(task.CreateInput{Title: "Target"})
	newer, _ := s.CreateTask(task.CreateInput{Title: "Newer"})

	done := true
	updated, err := s.UpdateTask(target.ID, task.Patch{Done: &done})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated == nil || !updated.Done {
		t.Fatalf("UpdateTask: got %+v", updated)
	}

	got := s.Tasks()
	if got[0].ID != newer.ID || got[1].ID != target.ID || got[2].ID != older.ID {
		t.Errorf("mirror order changed by update: %+v", got)
	}
	if !got[1].Done {
		t.Error("mirror entry not replaced")
	}
	requireMirrorMatchesStore(t, s, st)
}

func TestUpdateTaskNotFound(t *testing.T) {
	s, st, _ := newTestSession()
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := s.CreateTask(task.CreateInput{Title: "Buy milk"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	done := true
	updated, err := s.UpdateTask("missing", task.Patch{Done: &done})
	if err != nil {
		t.Fatalf("UpdateTask on unknown id must not fail: %v", err)
	}
	if updated != nil {
		t.Errorf("UpdateTask: got %+v, want nil", updated)
	}
	if got := s.Tasks(); len(got) != 1 {
		t.Errorf("mirror changed by a not-found update: %+v", got)
	}
	requireMirrorMatchesStore(t, s, st)
}

func TestRemoveTaskAndClear(t *testing.T) {
	s, st, _ := newTestSession()
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	kept, _ := s.CreateTask(task.CreateInput{Title: "Kept"})
	gone, _ := s.CreateTask(task.CreateInput{Title: "Gone"})

	if err := s.RemoveTask(gone.ID); err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	if got := s.Tasks(); len(got) != 1 || got[0].ID != kept.ID {
		t.Errorf("mirror after remove: %+v", got)
	}
	// Removing again is a no-op.
	if err := s.RemoveTask(gone.ID); err != nil {
		t.Fatalf("second RemoveTask: %v", err)
	}
	requireMirrorMatchesStore(t, s, st)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := s.Tasks(); len(got) != 0 {
		t.Errorf("mirror after clear: %+v", got)
	}
	requireMirrorMatchesStore(t, s, st)
}

func TestStatsInvariant(t *testing.T) {
	s, st, _ := newTestSession()
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	check := func() {
		t.Helper()
		stats := s.Stats()
		if stats.Total != stats.Done+stats.Pending {
			t.Errorf("stats invariant broken: %+v", stats)
		}
		if stats.Total != len(s.Tasks()) {
			t.Errorf("stats.Total %d != mirror length %d", stats.Total, len(s.Tasks()))
		}
		requireMirrorMatchesStore(t, s, st)
	}

	check()
	a, _ := s.CreateTask(task.CreateInput{Title: "a"})
	check()
	b, _ := s.CreateTask(task.CreateInput{Title: "b", Done: true})
	check()
	done := true
	if _, err := s.UpdateTask(a.ID, task.Patch{Done: &done}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	check()
	if s.Stats() != (task.Stats{Total: 2, Done: 2, Pending: 0}) {
		t.Errorf("stats: %+v", s.Stats())
	}
	if err := s.RemoveTask(b.ID); err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	check()
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	check()
}
