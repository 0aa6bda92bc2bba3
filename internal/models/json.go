// internal/models/json.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// referenceDate is the epoch of timestamps written as seconds by older
// versions of the app.
var referenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// UnmarshalJSON accepts RFC 3339 strings and legacy numeric timestamps
// for the date fields.
func (t *Task) UnmarshalJSON(b []byte) error {
	type taskAlias Task
	aux := struct {
		*taskAlias
		DueDate          json.RawMessage `json:"dueDate"`
		CurrentStartTime json.RawMessage `json:"currentStartTime"`
	}{taskAlias: (*taskAlias)(t)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	due, err := decodeTime(aux.DueDate)
	if err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	t.DueDate = due

	t.CurrentStartTime = nil
	if !isNull(aux.CurrentStartTime) {
		start, err := decodeTime(aux.CurrentStartTime)
		if err != nil {
			return fmt.Errorf("currentStartTime: %w", err)
		}
		t.CurrentStartTime = &start
	}
	return nil
}

// UnmarshalJSON accepts RFC 3339 strings and legacy numeric timestamps.
func (e *TimeEntry) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID        uuid.UUID       `json:"id"`
		StartTime json.RawMessage `json:"startTime"`
		EndTime   json.RawMessage `json:"endTime"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	start, err := decodeTime(aux.StartTime)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := decodeTime(aux.EndTime)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}

	e.ID = aux.ID
	e.StartTime = start
	e.EndTime = end
	return nil
}

func decodeTime(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return time.Time{}, fmt.Errorf("missing time")
	}

	if raw[0] == '"' {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, fmt.Errorf("invalid time %s", raw)
	}
	micros := math.Round(secs * 1e6)
	return referenceDate.Add(time.Duration(micros) * time.Microsecond), nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
