package database

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/jmoiron/sqlx"
)

// Snapshot table and column names.
const (
	SnapshotsTableName      = "snapshots"
	SnapshotColumnName      = "name"
	SnapshotColumnPayload   = "payload"
	SnapshotColumnUpdatedAt = "updated_at"
)

var (
	// SnapshotsColumns holds the columns for the "snapshots" table.
	SnapshotsColumns = []*schema.Column{
		{Name: SnapshotColumnName, Type: field.TypeString, Size: 255},
		{Name: SnapshotColumnPayload, Type: field.TypeBytes},
		{Name: SnapshotColumnUpdatedAt, Type: field.TypeTime},
	}
	// SnapshotsTable holds the schema information for the "snapshots" table.
	SnapshotsTable = &schema.Table{
		Name:       SnapshotsTableName,
		Columns:    SnapshotsColumns,
		PrimaryKey: []*schema.Column{SnapshotsColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SnapshotsTable,
	}
)

// Migrate creates or updates the tables above. SQLite connections need
// foreign keys enabled (_fk=1) for ent's migrator.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	d, err := Dialect(db.DriverName())
	if err != nil {
		return err
	}

	drv := entsql.OpenDB(d, db.DB)
	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}
