package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gurkanbulca/timemanager/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousRef = errors.New("task reference matches more than one task")
)

// resolveTask finds a task by its 1-based list position or by a prefix of
// its ID. It returns the task and its 0-based index.
func resolveTask(tasks []models.Task, ref string) (models.Task, int, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return models.Task{}, -1, fmt.Errorf("%w: empty reference", ErrTaskNotFound)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(tasks) {
			return tasks[n-1], n - 1, nil
		}
		return models.Task{}, -1, fmt.Errorf("%w: no task at position %d", ErrTaskNotFound, n)
	}

	found := -1
	for i, t := range tasks {
		if strings.HasPrefix(t.ID.String(), ref) {
			if found >= 0 {
				return models.Task{}, -1, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
			}
			found = i
		}
	}
	if found < 0 {
		return models.Task{}, -1, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	}
	return tasks[found], found, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate accepts "today", "tomorrow" or one of dateLayouts. Layouts
// without a zone are read in now's location.
func parseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today", "now":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339", s)
}

func shortID(t models.Task) string {
	return t.ID.String()[:8]
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Second).String()
}

func status(t models.Task) string {
	switch {
	case t.IsTracking:
		return "tracking"
	case t.IsCompleted:
		return "done"
	default:
		return "open"
	}
}
