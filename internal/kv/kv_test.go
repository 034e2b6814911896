package kv

import (
	"errors"
	"path/filepath"
	"testing"
)

// backends under test share one contract, so the same cases run against
// both implementations.
func backendCases(t *testing.T) map[string]Backend {
	t.Helper()
	tmp := t.TempDir()

	fileB, err := NewFileBackend(filepath.Join(tmp, "data"))
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	sqliteB, err := NewSQLiteBackend(filepath.Join(tmp, "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	t.Cleanup(func() { _ = sqliteB.Close() })

	return map[string]Backend{
		"file":   fileB,
		"sqlite": sqliteB,
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, b := range backendCases(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Put("tasks.v1", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err := b.Get("tasks.v1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `[{"id":"a"}]` {
				t.Errorf("Get: got %s", got)
			}

			// Put replaces the previous value.
			if err := b.Put("tasks.v1", []byte(`[]`)); err != nil {
				t.Fatalf("second Put failed: %v", err)
			}
			got, err = b.Get("tasks.v1")
			if err != nil {
				t.Fatalf("Get after replace failed: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("Get after replace: got %s", got)
			}
		})
	}
}

func TestBackendMissingKey(t *testing.T) {
	for name, b := range backendCases(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := b.Get("absent"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get absent key: got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestBackendDelete(t *testing.T) {
	for name, b := range backendCases(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Put("k", []byte("v")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := b.Delete("k"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := b.Get("k"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after delete: got %v, want ErrNotFound", err)
			}
			// Deleting again is a no-op.
			if err := b.Delete("k"); err != nil {
				t.Errorf("second Delete: got %v, want nil", err)
			}
		})
	}
}
