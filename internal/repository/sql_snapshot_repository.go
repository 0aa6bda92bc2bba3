// internal/repository/sql_snapshot_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/timemanager/internal/database"
)

// SQLSnapshotStore keeps snapshots in the snapshots table. Statements are
// built with ent's dialect builder so the same code runs on PostgreSQL and
// SQLite.
type SQLSnapshotStore struct {
	db      *sqlx.DB
	dialect string
	now     func() time.Time
}

func NewSQLSnapshotStore(db *sqlx.DB) (*SQLSnapshotStore, error) {
	d, err := database.Dialect(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &SQLSnapshotStore{
		db:      db,
		dialect: d,
		now:     time.Now,
	}, nil
}

func (s *SQLSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := entsql.Dialect(s.dialect).
		Select(database.SnapshotColumnPayload).
		From(entsql.Table(database.SnapshotsTableName)).
		Where(entsql.EQ(database.SnapshotColumnName, key)).
		Query()

	var payload []byte
	if err := s.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %q: %w", key, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("query snapshot %q: %w", key, err)
	}
	return payload, nil
}

func (s *SQLSnapshotStore) Put(ctx context.Context, key string, payload []byte) error {
	query, args := entsql.Dialect(s.dialect).
		Insert(database.SnapshotsTableName).
		Columns(database.SnapshotColumnName, database.SnapshotColumnPayload, database.SnapshotColumnUpdatedAt).
		Values(key, payload, s.now().UTC()).
		OnConflict(
			entsql.ConflictColumns(database.SnapshotColumnName),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot %q: %w", key, err)
	}
	return nil
}

func (s *SQLSnapshotStore) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(s.dialect).
		Delete(database.SnapshotsTableName).
		Where(entsql.EQ(database.SnapshotColumnName, key)).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when the snapshot under key was last written.
func (s *SQLSnapshotStore) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	query, args := entsql.Dialect(s.dialect).
		Select(database.SnapshotColumnName, database.SnapshotColumnUpdatedAt).
		From(entsql.Table(database.SnapshotsTableName)).
		Where(entsql.EQ(database.SnapshotColumnName, key)).
		Query()

	var row snapshotRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("get %q: %w", key, ErrSnapshotNotFound)
		}
		return time.Time{}, fmt.Errorf("query snapshot %q: %w", key, err)
	}
	return row.UpdatedAt, nil
}

type snapshotRow struct {
	Name      string    `db:"name"`
	UpdatedAt time.Time `db:"updated_at"`
}
