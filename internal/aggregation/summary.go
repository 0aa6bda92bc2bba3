package aggregation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/timemanager/internal/models"
)

// Summary is the dashboard overview.
type Summary struct {
	Period         Period
	From           time.Time
	To             time.Time
	Total          int
	Completed      int
	InProgress     int
	CompletionRate float64
	TotalTime      time.Duration
	PeriodTime     time.Duration
	ByPriority     map[models.Priority]int
	TimeByPriority map[models.Priority]time.Duration
}

// Allocation is the time spent on one task.
type Allocation struct {
	TaskID uuid.UUID
	Title  string
	Spent  time.Duration
}

// Summarize builds the overview for the period around asOf.
func Summarize(tasks []models.Task, period Period, asOf time.Time) Summary {
	from, to := Bounds(period, asOf)
	completed := len(Completed(tasks))

	timeByPriority := make(map[models.Priority]time.Duration, len(models.Priorities()))
	for _, p := range models.Priorities() {
		timeByPriority[p] = TimeSpentByPriority(tasks, p, asOf)
	}

	return Summary{
		Period:         period,
		From:           from,
		To:             to,
		Total:          len(tasks),
		Completed:      completed,
		InProgress:     len(tasks) - completed,
		CompletionRate: CompletionRate(tasks),
		TotalTime:      TotalTimeSpent(tasks, asOf),
		PeriodTime:     TimeSpentInPeriod(tasks, period, asOf),
		ByPriority:     PriorityCounts(tasks),
		TimeByPriority: timeByPriority,
	}
}

// TimeAllocation lists the time spent per task, largest first. Tasks with
// no time are omitted; ties keep list order.
func TimeAllocation(tasks []models.Task, asOf time.Time) []Allocation {
	out := make([]Allocation, 0, len(tasks))
	for _, t := range tasks {
		spent := t.TotalTimeSpent(asOf)
		if spent <= 0 {
			continue
		}
		out = append(out, Allocation{TaskID: t.ID, Title: t.Title, Spent: spent})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Spent > out[j].Spent
	})
	return out
}
