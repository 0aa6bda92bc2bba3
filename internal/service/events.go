// internal/service/events.go
package service

import (
	"time"

	"github.com/google/uuid"
)

// EventType constants for store change notifications
const (
	EventTypeTasksLoaded     = "tasks_loaded"
	EventTypeTaskAdded       = "task_added"
	EventTypeTaskUpdated     = "task_updated"
	EventTypeTaskDeleted     = "task_deleted"
	EventTypeTrackingStarted = "tracking_started"
	EventTypeTrackingStopped = "tracking_stopped"
)

// Event describes a change to the task collection. TaskID is uuid.Nil for
// collection-wide events.
type Event struct {
	Type   string
	TaskID uuid.UUID
	At     time.Time
}

// Listener is called after a change has been applied and persisted.
type Listener func(Event)
