// internal/repository/snapshot_repository.go
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned by Get when nothing is stored under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is a durable key-value slot store. Each Put replaces the
// whole payload under the key.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// Timestamped is implemented by stores that record when a key was last written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}
