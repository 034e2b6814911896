// Package task defines the task entity and its derived statistics.
package task

import (
	"strings"
	"time"
)

// Task is a single to-do item. The id is assigned once at creation and
// never changes; CreatedAt is immutable while UpdatedAt is refreshed on
// every successful update.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Done        bool      `json:"done"`
}

// CreateInput carries the caller-supplied fields for a new task.
// Done defaults to false when not set.
type CreateInput struct {
	Title       string
	Description string
	Done        bool
}

// Patch holds a partial update. Nil fields are left untouched on the
// existing task. ID and CreatedAt are not patchable.
type Patch struct {
	Title       *string
	Description *string
	Done        *bool
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Done == nil
}

// Apply merges the patch onto t. A description patched to blank (after
// trimming) clears the field so it is omitted from the persisted form.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}

// Stats summarizes a task collection. Total == Done + Pending always.
type Stats struct {
	Total   int
	Done    int
	Pending int
}

// Summarize computes stats over tasks.
func Summarize(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Done {
			s.Done++
		}
	}
	s.Pending = s.Total - s.Done
	return s
}
