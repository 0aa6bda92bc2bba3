// internal/models/priority.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the importance level of a task.
type Priority string

// Priority constants
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Tokens written by older versions of the app. Their snapshots also store
// dates as seconds since 2001, see decodeTime.
var legacyPriorities = map[string]Priority{
	"高": PriorityHigh,
	"中": PriorityMedium,
	"低": PriorityLow,
}

// Priorities returns every priority in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority converts a string token to a Priority
func ParsePriority(s string) (Priority, error) {
	token := strings.TrimSpace(s)
	switch Priority(strings.ToLower(token)) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	}
	if p, ok := legacyPriorities[token]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Priority.
func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode priority: %w", err)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
