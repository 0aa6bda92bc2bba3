// internal/service/task_store.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/timemanager/internal/models"
	"github.com/gurkanbulca/timemanager/internal/repository"
)

// DefaultSnapshotKey is the slot the task list is stored under.
const DefaultSnapshotKey = "tasks"

// Suffixes of the slots that keep data Load could not use. corruptSuffix
// holds a whole undecodable payload, rejectedSuffix a JSON array of the
// individual task records that were dropped or trimmed.
const (
	corruptSuffix  = ".corrupt"
	rejectedSuffix = ".rejected"
)

// TaskStore owns the task collection. Every mutation writes the whole
// collection back to the snapshot store. Lookups by ID that find nothing
// are no-ops, not errors.
//
// A TaskStore is not safe for concurrent use.
type TaskStore struct {
	snapshots repository.SnapshotStore
	key       string
	clock     func() time.Time
	log       *logrus.Entry
	listeners []Listener
	tasks     []models.Task
}

type Option func(*TaskStore)

// WithKey sets the snapshot key
func WithKey(key string) Option {
	return func(s *TaskStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used by tracking transitions
func WithClock(clock func() time.Time) Option {
	return func(s *TaskStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *TaskStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithListener registers a change listener
func WithListener(l Listener) Option {
	return func(s *TaskStore) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// NewTaskStore creates a store and loads the persisted collection. Load
// failures are logged and leave the store empty.
func NewTaskStore(ctx context.Context, snapshots repository.SnapshotStore, opts ...Option) *TaskStore {
	s := &TaskStore{
		snapshots: snapshots,
		key:       DefaultSnapshotKey,
		clock:     time.Now,
		log:       logrus.NewEntry(logrus.StandardLogger()),
		tasks:     []models.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(logrus.Fields{"component": "task_store", "key": s.key})

	if err := s.Load(ctx); err != nil {
		s.log.WithError(err).Error("Failed to load tasks, starting empty")
	}
	return s
}

// Now returns the store clock's current time.
func (s *TaskStore) Now() time.Time {
	return s.clock()
}

// Tasks returns a copy of the collection in order.
func (s *TaskStore) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(id uuid.UUID) (models.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

// Add appends a task and persists the collection.
func (s *TaskStore) Add(ctx context.Context, task models.Task) error {
	task = normalize(task.Clone())
	if err := task.Validate(); err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	s.tasks = append(s.tasks, task)
	return s.persist(ctx, EventTypeTaskAdded, task.ID)
}

// Update replaces the task with the same ID in place. Unknown IDs are ignored.
func (s *TaskStore) Update(ctx context.Context, task models.Task) error {
	i := s.indexOf(task.ID)
	if i < 0 {
		return nil
	}
	task = normalize(task.Clone())
	if err := task.Validate(); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	s.tasks[i] = task
	return s.persist(ctx, EventTypeTaskUpdated, task.ID)
}

// Delete removes every task with the task's ID. Unknown IDs are ignored.
func (s *TaskStore) Delete(ctx context.Context, task models.Task) error {
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != task.ID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		return nil
	}
	s.tasks = kept
	return s.persist(ctx, EventTypeTaskDeleted, task.ID)
}

// DeleteAt removes the tasks at the given positions. Out-of-range and
// repeated indices are ignored.
func (s *TaskStore) DeleteAt(ctx context.Context, indices ...int) error {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(s.tasks) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return nil
	}

	removed := make([]int, 0, len(drop))
	for i := range drop {
		removed = append(removed, i)
	}
	sort.Ints(removed)
	ids := make([]uuid.UUID, len(removed))
	for n, i := range removed {
		ids[n] = s.tasks[i].ID
	}

	kept := make([]models.Task, 0, len(s.tasks)-len(drop))
	for i, t := range s.tasks {
		if !drop[i] {
			kept = append(kept, t)
		}
	}
	s.tasks = kept

	if err := s.Save(ctx); err != nil {
		return err
	}
	for _, id := range ids {
		s.notify(EventTypeTaskDeleted, id)
	}
	return nil
}

// StartTracking opens a tracking session on the stored task with the same
// ID. A task that is already tracking keeps its open session.
func (s *TaskStore) StartTracking(ctx context.Context, task models.Task) error {
	i := s.indexOf(task.ID)
	if i < 0 {
		return nil
	}
	current := s.tasks[i].Clone()
	if !current.StartTracking(s.clock()) {
		s.log.WithField("task_id", task.ID).Debug("Task is already tracking")
		return nil
	}
	s.tasks[i] = current
	return s.persist(ctx, EventTypeTrackingStarted, task.ID)
}

// StopTracking closes the open session on the stored task with the same ID
// and appends it as a time entry. Tasks without a session are left alone.
func (s *TaskStore) StopTracking(ctx context.Context, task models.Task) error {
	i := s.indexOf(task.ID)
	if i < 0 {
		return nil
	}
	current := s.tasks[i].Clone()
	entry, ok := current.StopTracking(s.clock())
	if !ok {
		return nil
	}
	s.tasks[i] = current
	s.log.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"duration": entry.Duration(),
	}).Debug("Recorded time entry")
	return s.persist(ctx, EventTypeTrackingStopped, task.ID)
}

// ToggleCompleted flips the completion flag of the stored task with the same ID.
func (s *TaskStore) ToggleCompleted(ctx context.Context, task models.Task) error {
	i := s.indexOf(task.ID)
	if i < 0 {
		return nil
	}
	s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
	return s.persist(ctx, EventTypeTaskUpdated, task.ID)
}

// TotalTimeSpent returns the task's tracked time as of the store clock.
func (s *TaskStore) TotalTimeSpent(task models.Task) time.Duration {
	return task.TotalTimeSpent(s.clock())
}

// Save writes the whole collection to the snapshot store.
func (s *TaskStore) Save(ctx context.Context) error {
	payload, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.snapshots.Put(ctx, s.key, payload); err != nil {
		s.log.WithError(err).Error("Failed to save tasks")
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// LastSaved reports when the collection was last written, for backends
// that record it.
func (s *TaskStore) LastSaved(ctx context.Context) (time.Time, bool) {
	ts, ok := s.snapshots.(repository.Timestamped)
	if !ok {
		return time.Time{}, false
	}
	at, err := ts.UpdatedAt(ctx, s.key)
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			s.log.WithError(err).Warn("Failed to read snapshot time")
		}
		return time.Time{}, false
	}
	return at, true
}

// Load replaces the collection with the persisted one. A missing snapshot
// gives an empty collection. A snapshot that cannot be decoded is logged,
// copied aside under "<key>.corrupt", and also gives an empty collection.
// Single records that cannot be decoded or validated are skipped, and
// records that lose time entries to repair are trimmed; both are appended
// to "<key>.rejected" so the next save does not destroy them. Only backend
// read errors are returned.
func (s *TaskStore) Load(ctx context.Context) error {
	s.tasks = []models.Task{}

	payload, err := s.snapshots.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			s.notify(EventTypeTasksLoaded, uuid.Nil)
			return nil
		}
		return fmt.Errorf("load tasks: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		s.log.WithError(err).Warn("Failed to decode tasks, starting empty")
		if err := s.snapshots.Put(ctx, s.key+corruptSuffix, payload); err != nil {
			s.log.WithError(err).Error("Failed to keep undecodable snapshot")
		}
		s.notify(EventTypeTasksLoaded, uuid.Nil)
		return nil
	}

	var rejected []json.RawMessage
	for n, rec := range records {
		var t models.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			s.log.WithError(err).WithField("record", n).Warn("Setting aside undecodable task")
			rejected = append(rejected, rec)
			continue
		}
		t = normalize(t)
		trimmed := s.repair(&t)
		if err := t.Validate(); err != nil {
			s.log.WithError(err).WithField("task_id", t.ID).Warn("Setting aside invalid task")
			rejected = append(rejected, rec)
			continue
		}
		if trimmed {
			rejected = append(rejected, rec)
		}
		s.tasks = append(s.tasks, t)
	}

	if len(rejected) > 0 {
		s.setAside(ctx, rejected)
	}

	s.log.WithField("count", len(s.tasks)).Debug("Loaded tasks")
	s.notify(EventTypeTasksLoaded, uuid.Nil)
	return nil
}

// repair fixes a loaded task where that needs no guessing: the tracking flag
// follows currentStartTime, and time entries that end before they start are
// removed. It reports whether entries were removed.
func (s *TaskStore) repair(t *models.Task) bool {
	if t.IsTracking != (t.CurrentStartTime != nil) {
		s.log.WithField("task_id", t.ID).Warn("Repairing tracking state")
		t.IsTracking = t.CurrentStartTime != nil
	}

	kept := make([]models.TimeEntry, 0, len(t.TimeEntries))
	for _, e := range t.TimeEntries {
		if err := e.Validate(); err != nil {
			s.log.WithError(err).WithField("task_id", t.ID).Warn("Removing invalid time entry")
			continue
		}
		kept = append(kept, e)
	}
	trimmed := len(kept) != len(t.TimeEntries)
	t.TimeEntries = kept
	return trimmed
}

// setAside appends records to the rejected slot, skipping ones already kept.
func (s *TaskStore) setAside(ctx context.Context, records []json.RawMessage) {
	key := s.key + rejectedSuffix

	var kept []json.RawMessage
	existing, err := s.snapshots.Get(ctx, key)
	switch {
	case errors.Is(err, repository.ErrSnapshotNotFound):
	case err != nil:
		s.log.WithError(err).Error("Failed to read rejected tasks")
		return
	default:
		if err := json.Unmarshal(existing, &kept); err != nil {
			s.log.WithError(err).Error("Rejected tasks slot is not a JSON array, leaving it alone")
			return
		}
	}

	seen := make(map[string]bool, len(kept)+len(records))
	for _, rec := range kept {
		seen[compactJSON(rec)] = true
	}
	added := 0
	for _, rec := range records {
		c := compactJSON(rec)
		if seen[c] {
			continue
		}
		seen[c] = true
		kept = append(kept, json.RawMessage(c))
		added++
	}
	if added == 0 {
		return
	}

	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(kept); err != nil {
		s.log.WithError(err).Error("Failed to encode rejected tasks")
		return
	}
	if err := s.snapshots.Put(ctx, key, payload.Bytes()); err != nil {
		s.log.WithError(err).Error("Failed to keep rejected tasks")
		return
	}
	s.log.WithFields(logrus.Fields{"count": added, "slot": key}).Warn("Kept rejected tasks")
}

func (s *TaskStore) persist(ctx context.Context, eventType string, id uuid.UUID) error {
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.notify(eventType, id)
	return nil
}

func (s *TaskStore) notify(eventType string, id uuid.UUID) {
	if len(s.listeners) == 0 {
		return
	}
	ev := Event{Type: eventType, TaskID: id, At: s.clock()}
	for _, l := range s.listeners {
		l(ev)
	}
}

func (s *TaskStore) indexOf(id uuid.UUID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// normalize gives tasks without entries an empty list so the snapshot
// always carries an array.
func normalize(t models.Task) models.Task {
	if t.TimeEntries == nil {
		t.TimeEntries = []models.TimeEntry{}
	}
	return t
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
