package aggregation

import (
	"fmt"
	"strings"
	"time"

	"github.com/gurkanbulca/timemanager/internal/models"
)

// Period is a calendar window used by the dashboard.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod converts a string to a Period
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period: %s", s)
	}
}

// Bounds returns the half-open window [start, end) of the period containing
// asOf, in asOf's location. Weeks start on Monday.
func Bounds(period Period, asOf time.Time) (time.Time, time.Time) {
	y, m, d := asOf.Date()
	loc := asOf.Location()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch period {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

// TimeSpentInPeriod sums the entries fully contained in the period window
// around asOf.
func TimeSpentInPeriod(tasks []models.Task, period Period, asOf time.Time) time.Duration {
	start, end := Bounds(period, asOf)
	return TimeSpentInRange(tasks, start, end)
}
