package store

import (
	"testing"

	"github.com/taskdeck/taskdeck/internal/task"
)

func TestInspectMissingKey(t *testing.T) {
	s, _ := newTestStore()
	report, err := s.Inspect()
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if report.KeyPresent {
		t.Error("KeyPresent should be false for an empty store")
	}
	if !report.OK() {
		t.Errorf("an absent blob is healthy: %+v", report)
	}
}

func TestInspectValidBlob(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Create(task.CreateInput{Title: "Buy milk", Description: "2L"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Create(task.CreateInput{Title: "Walk dog", Done: true}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	report, err := s.Inspect()
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !report.KeyPresent || !report.ParseOK || !report.SchemaOK {
		t.Errorf("report: %+v", report)
	}
	if report.TaskCount != 2 {
		t.Errorf("TaskCount: got %d, want 2", report.TaskCount)
	}
	if len(report.Problems) != 0 {
		t.Errorf("unexpected problems: %v", report.Problems)
	}
}

func TestInspectCorruptedBlob(t *testing.T) {
	tests := []struct {
		name      string
		blob      string
		wantParse bool
	}{
		{"not json", `{{{`, false},
		{"bare string", `"oops"`, true},
		{"missing required fields", `[{"id":"a"}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b := newTestStore()
			b.data[Key] = []byte(tt.blob)

			report, err := s.Inspect()
			if err != nil {
				t.Fatalf("Inspect must not fail on bad blobs: %v", err)
			}
			if report.ParseOK != tt.wantParse {
				t.Errorf("ParseOK: got %v, want %v", report.ParseOK, tt.wantParse)
			}
			if report.OK() {
				t.Error("corrupted blob reported as healthy")
			}
			if len(report.Problems) == 0 {
				t.Error("expected problems for corrupted blob")
			}
		})
	}
}
