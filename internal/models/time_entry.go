// internal/models/time_entry.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeEntry is one closed interval of tracked work on a task.
type TimeEntry struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// NewTimeEntry creates a time entry with a fresh ID
func NewTimeEntry(start, end time.Time) (TimeEntry, error) {
	if end.Before(start) {
		return TimeEntry{}, fmt.Errorf("%w: %s < %s", ErrInvalidTimeRange,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeEntry{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   end,
	}, nil
}

// Duration returns the length of the entry.
func (e TimeEntry) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Validate checks the entry bounds
func (e TimeEntry) Validate() error {
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("time entry %s: %w", e.ID, ErrInvalidTimeRange)
	}
	return nil
}

// IsOnDay reports whether the entry started on the same calendar day as day in loc.
func (e TimeEntry) IsOnDay(day time.Time, loc *time.Location) bool {
	return SameDay(e.StartTime, day, loc)
}

// IsInWeek reports whether the entry started in the same ISO week as day in loc.
func (e TimeEntry) IsInWeek(day time.Time, loc *time.Location) bool {
	loc = orLocation(loc, day)
	y1, w1 := e.StartTime.In(loc).ISOWeek()
	y2, w2 := day.In(loc).ISOWeek()
	return y1 == y2 && w1 == w2
}

// IsInMonth reports whether the entry started in the same calendar month as day in loc.
func (e TimeEntry) IsInMonth(day time.Time, loc *time.Location) bool {
	loc = orLocation(loc, day)
	a, b := e.StartTime.In(loc), day.In(loc)
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameDay compares the calendar dates of a and b in loc, or in b's
// location when loc is nil.
func SameDay(a, b time.Time, loc *time.Location) bool {
	loc = orLocation(loc, b)
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func orLocation(loc *time.Location, t time.Time) *time.Location {
	if loc == nil {
		return t.Location()
	}
	return loc
}
