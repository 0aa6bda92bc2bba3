// internal/models/task.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work with a due date, a priority and tracked time.
// CurrentStartTime is set exactly while IsTracking is true.
type Task struct {
	ID               uuid.UUID   `json:"id"`
	Title            string      `json:"title"`
	DueDate          time.Time   `json:"dueDate"`
	IsCompleted      bool        `json:"isCompleted"`
	Priority         Priority    `json:"priority"`
	TimeEntries      []TimeEntry `json:"timeEntries"`
	IsTracking       bool        `json:"isTracking"`
	CurrentStartTime *time.Time  `json:"currentStartTime"`
}

// NewTask creates a task with a fresh ID. An empty priority defaults to medium.
func NewTask(title string, dueDate time.Time, priority Priority) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, ErrEmptyTitle
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	return Task{
		ID:          uuid.New(),
		Title:       title,
		DueDate:     dueDate,
		Priority:    priority,
		TimeEntries: []TimeEntry{},
	}, nil
}

// Validate checks the invariants a stored task must hold
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task %s: %w", t.ID, ErrEmptyTitle)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("task %s: %w: %q", t.ID, ErrInvalidPriority, t.Priority)
	}
	if t.IsTracking != (t.CurrentStartTime != nil) {
		return fmt.Errorf("task %s: %w", t.ID, ErrTrackingState)
	}
	for _, e := range t.TimeEntries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	return nil
}

// StartTracking opens a tracking session at now. It returns false and
// leaves the task untouched when a session is already open.
func (t *Task) StartTracking(now time.Time) bool {
	if t.IsTracking || t.CurrentStartTime != nil {
		return false
	}
	start := now
	t.IsTracking = true
	t.CurrentStartTime = &start
	return true
}

// StopTracking closes the open session and records it as a time entry.
// An end time before the session start is clamped to the start.
func (t *Task) StopTracking(now time.Time) (TimeEntry, bool) {
	if t.CurrentStartTime == nil {
		t.IsTracking = false
		return TimeEntry{}, false
	}
	start := *t.CurrentStartTime
	if now.Before(start) {
		now = start
	}
	entry, err := NewTimeEntry(start, now)
	if err != nil {
		return TimeEntry{}, false
	}
	t.TimeEntries = append(t.TimeEntries, entry)
	t.IsTracking = false
	t.CurrentStartTime = nil
	return entry, true
}

// TotalTimeSpent sums the recorded entries plus the open session up to asOf.
func (t Task) TotalTimeSpent(asOf time.Time) time.Duration {
	var total time.Duration
	for _, e := range t.TimeEntries {
		total += e.Duration()
	}
	if t.CurrentStartTime != nil {
		if elapsed := asOf.Sub(*t.CurrentStartTime); elapsed > 0 {
			total += elapsed
		}
	}
	return total
}

// TimeEntriesIn returns the entries whose start time lies in [start, end].
func (t Task) TimeEntriesIn(start, end time.Time) []TimeEntry {
	var entries []TimeEntry
	for _, e := range t.TimeEntries {
		if !e.StartTime.Before(start) && !e.StartTime.After(end) {
			entries = append(entries, e)
		}
	}
	return entries
}

// TotalTimeSpentIn sums the entries returned by TimeEntriesIn.
func (t Task) TotalTimeSpentIn(start, end time.Time) time.Duration {
	var total time.Duration
	for _, e := range t.TimeEntriesIn(start, end) {
		total += e.Duration()
	}
	return total
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	if t.TimeEntries != nil {
		c.TimeEntries = make([]TimeEntry, len(t.TimeEntries))
		copy(c.TimeEntries, t.TimeEntries)
	}
	if t.CurrentStartTime != nil {
		start := *t.CurrentStartTime
		c.CurrentStartTime = &start
	}
	return c
}
