package aggregation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/timemanager/internal/models"
)

var base = time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC)

func entry(start time.Time, d time.Duration) models.TimeEntry {
	return models.TimeEntry{ID: uuid.New(), StartTime: start, EndTime: start.Add(d)}
}

func task(title string, p models.Priority, done bool, due time.Time, entries ...models.TimeEntry) models.Task {
	return models.Task{
		ID:          uuid.New(),
		Title:       title,
		DueDate:     due,
		IsCompleted: done,
		Priority:    p,
		TimeEntries: entries,
	}
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, CompletionRate(nil))
	assert.Equal(t, 0.0, CompletionRate([]models.Task{}))

	tasks := []models.Task{
		task("a", models.PriorityHigh, true, base),
		task("b", models.PriorityHigh, true, base),
		task("c", models.PriorityLow, true, base),
		task("d", models.PriorityLow, false, base),
	}
	assert.Equal(t, 0.75, CompletionRate(tasks))
	assert.Len(t, Completed(tasks), 3)
	assert.Len(t, InProgress(tasks), 1)
	assert.Equal(t, "d", InProgress(tasks)[0].Title)
}

func TestTimeSpentInRange(t *testing.T) {
	tests := []struct {
		name  string
		entry models.TimeEntry
		start time.Time
		end   time.Time
		want  time.Duration
	}{
		{
			name:  "partial overlap is excluded",
			entry: entry(base, 30*time.Minute),
			start: base.Add(15 * time.Minute),
			end:   base.Add(45 * time.Minute),
			want:  0,
		},
		{
			name:  "fully contained",
			entry: entry(base.Add(20*time.Minute), 10*time.Minute),
			start: base.Add(15 * time.Minute),
			end:   base.Add(45 * time.Minute),
			want:  10 * time.Minute,
		},
		{
			name:  "bounds are inclusive",
			entry: entry(base, 30*time.Minute),
			start: base,
			end:   base.Add(30 * time.Minute),
			want:  30 * time.Minute,
		},
		{
			name:  "outside",
			entry: entry(base.Add(-time.Hour), 30*time.Minute),
			start: base,
			end:   base.Add(time.Hour),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []models.Task{task("t", models.PriorityMedium, false, base, tt.entry)}
			assert.Equal(t, tt.want, TimeSpentInRange(tasks, tt.start, tt.end))
		})
	}
}

func TestTimeSpentInRange_AcrossTasks(t *testing.T) {
	tasks := []models.Task{
		task("a", models.PriorityHigh, false, base, entry(base, time.Minute), entry(base.Add(time.Hour), time.Minute)),
		task("b", models.PriorityLow, false, base, entry(base.Add(2*time.Minute), 2*time.Minute)),
	}
	assert.Equal(t, 3*time.Minute, TimeSpentInRange(tasks, base, base.Add(30*time.Minute)))
}

func TestTasksOnDate(t *testing.T) {
	tasks := []models.Task{
		task("morning", models.PriorityHigh, false, time.Date(2024, 11, 16, 0, 30, 0, 0, time.UTC)),
		task("night", models.PriorityHigh, false, time.Date(2024, 11, 16, 23, 59, 0, 0, time.UTC)),
		task("tomorrow", models.PriorityHigh, false, time.Date(2024, 11, 17, 0, 0, 0, 0, time.UTC)),
	}

	got := TasksOnDate(tasks, base)
	require.Len(t, got, 2)
	assert.Equal(t, "morning", got[0].Title)
	assert.Equal(t, "night", got[1].Title)

	// In UTC-5 the early task falls on the previous day
	ny := time.FixedZone("EST", -5*3600)
	got = TasksOnDate(tasks, time.Date(2024, 11, 16, 12, 0, 0, 0, ny))
	require.Len(t, got, 2)
	assert.Equal(t, "night", got[0].Title)
	assert.Equal(t, "tomorrow", got[1].Title)
}

func TestByPriority(t *testing.T) {
	tracking := task("tracking", models.PriorityHigh, false, base, entry(base, time.Minute))
	start := base.Add(time.Hour)
	tracking.IsTracking = true
	tracking.CurrentStartTime = &start

	tasks := []models.Task{
		tracking,
		task("high", models.PriorityHigh, false, base, entry(base, 2*time.Minute)),
		task("low", models.PriorityLow, false, base, entry(base, 4*time.Minute)),
	}

	assert.Len(t, TasksByPriority(tasks, models.PriorityHigh), 2)
	assert.Empty(t, TasksByPriority(tasks, models.PriorityMedium))

	asOf := start.Add(10 * time.Minute)
	assert.Equal(t, 13*time.Minute, TimeSpentByPriority(tasks, models.PriorityHigh, asOf))
	assert.Equal(t, 4*time.Minute, TimeSpentByPriority(tasks, models.PriorityLow, asOf))
	assert.Equal(t, time.Duration(0), TimeSpentByPriority(tasks, models.PriorityMedium, asOf))
	assert.Equal(t, 17*time.Minute, TotalTimeSpent(tasks, asOf))

	counts := PriorityCounts(tasks)
	assert.Equal(t, map[models.Priority]int{
		models.PriorityHigh:   2,
		models.PriorityMedium: 0,
		models.PriorityLow:    1,
	}, counts)
}

func TestBounds(t *testing.T) {
	// Saturday
	asOf := time.Date(2024, 11, 16, 15, 4, 5, 0, time.UTC)

	start, end := Bounds(PeriodDay, asOf)
	assert.Equal(t, time.Date(2024, 11, 16, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 11, 17, 0, 0, 0, 0, time.UTC), end)

	start, end = Bounds(PeriodWeek, asOf)
	assert.Equal(t, time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 11, 18, 0, 0, 0, 0, time.UTC), end)

	// Sunday belongs to the week that started the previous Monday
	start, _ = Bounds(PeriodWeek, time.Date(2024, 11, 17, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC), start)

	start, end = Bounds(PeriodMonth, asOf)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Week ")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("year")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	yesterday := base.AddDate(0, 0, -1)
	tasks := []models.Task{
		task("report", models.PriorityHigh, true, base, entry(base, 30*time.Minute), entry(yesterday, time.Hour)),
		task("email", models.PriorityLow, false, base, entry(base.Add(time.Hour), 15*time.Minute)),
		task("idle", models.PriorityMedium, false, base),
	}

	s := Summarize(tasks, PeriodDay, base.Add(3*time.Hour))
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 2, s.InProgress)
	assert.InDelta(t, 1.0/3.0, s.CompletionRate, 1e-9)
	assert.Equal(t, 105*time.Minute, s.TotalTime)
	assert.Equal(t, 45*time.Minute, s.PeriodTime)
	assert.Equal(t, 1, s.ByPriority[models.PriorityMedium])
	assert.Equal(t, 90*time.Minute, s.TimeByPriority[models.PriorityHigh])

	week := Summarize(tasks, PeriodWeek, base.Add(3*time.Hour))
	assert.Equal(t, 105*time.Minute, week.PeriodTime)
}

func TestTimeAllocation(t *testing.T) {
	tasks := []models.Task{
		task("small", models.PriorityLow, false, base, entry(base, time.Minute)),
		task("none", models.PriorityLow, false, base),
		task("large", models.PriorityLow, false, base, entry(base, time.Hour)),
	}

	got := TimeAllocation(tasks, base)
	require.Len(t, got, 2)
	assert.Equal(t, "large", got[0].Title)
	assert.Equal(t, time.Hour, got[0].Spent)
	assert.Equal(t, "small", got[1].Title)
}
