// Package aggregation computes read-only statistics over a task list.
// Nothing here reads the wall clock: callers pass the as-of time.
package aggregation

import (
	"time"

	"github.com/gurkanbulca/timemanager/internal/models"
)

// TasksOnDate returns the tasks due on the same calendar day as date,
// compared in date's location.
func TasksOnDate(tasks []models.Task, date time.Time) []models.Task {
	return filter(tasks, func(t models.Task) bool {
		return models.SameDay(t.DueDate, date, date.Location())
	})
}

// TimeSpentInRange sums the entries that lie entirely inside [start, end].
// Entries that only overlap the range are left out, not clipped.
func TimeSpentInRange(tasks []models.Task, start, end time.Time) time.Duration {
	var total time.Duration
	for _, t := range tasks {
		for _, e := range t.TimeEntries {
			if !e.StartTime.Before(start) && !e.EndTime.After(end) {
				total += e.Duration()
			}
		}
	}
	return total
}

// TasksByPriority returns the tasks with the given priority.
func TasksByPriority(tasks []models.Task, priority models.Priority) []models.Task {
	return filter(tasks, func(t models.Task) bool {
		return t.Priority == priority
	})
}

// TimeSpentByPriority sums TotalTimeSpent over the tasks with the given priority.
func TimeSpentByPriority(tasks []models.Task, priority models.Priority, asOf time.Time) time.Duration {
	return TotalTimeSpent(TasksByPriority(tasks, priority), asOf)
}

// TotalTimeSpent sums TotalTimeSpent over all tasks.
func TotalTimeSpent(tasks []models.Task, asOf time.Time) time.Duration {
	var total time.Duration
	for _, t := range tasks {
		total += t.TotalTimeSpent(asOf)
	}
	return total
}

// CompletionRate returns completed/total, or 0 for an empty list.
func CompletionRate(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return float64(len(Completed(tasks))) / float64(len(tasks))
}

func InProgress(tasks []models.Task) []models.Task {
	return filter(tasks, func(t models.Task) bool { return !t.IsCompleted })
}

func Completed(tasks []models.Task) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.IsCompleted })
}

// PriorityCounts counts tasks per priority. Every priority has a key.
func PriorityCounts(tasks []models.Task) map[models.Priority]int {
	counts := make(map[models.Priority]int, len(models.Priorities()))
	for _, p := range models.Priorities() {
		counts[p] = 0
	}
	for _, t := range tasks {
		counts[t.Priority]++
	}
	return counts
}

func filter(tasks []models.Task, keep func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
