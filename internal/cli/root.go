// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gurkanbulca/timemanager/internal/config"
	"github.com/gurkanbulca/timemanager/internal/database"
	"github.com/gurkanbulca/timemanager/internal/repository"
	"github.com/gurkanbulca/timemanager/internal/service"
)

// StoreOpener opens the task store for one command run. The returned func
// releases whatever backs the store.
type StoreOpener func(ctx context.Context) (*service.TaskStore, func() error, error)

// Deps are the collaborators the commands run against.
type Deps struct {
	Out   io.Writer
	Log   *logrus.Entry
	Clock func() time.Time
	Open  StoreOpener
}

type app struct {
	out   io.Writer
	log   *logrus.Entry
	clock func() time.Time
	open  StoreOpener
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string, deps Deps) *cobra.Command {
	a := &app{
		out:   deps.Out,
		log:   deps.Log,
		clock: deps.Clock,
		open:  deps.Open,
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.log == nil {
		a.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if a.clock == nil {
		a.clock = time.Now
	}

	root := &cobra.Command{
		Use:           "timemanager",
		Short:         "Track tasks and the time spent on them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)

	root.AddCommand(a.addCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.updateCmd())
	root.AddCommand(a.doneCmd())
	root.AddCommand(a.deleteCmd())
	root.AddCommand(a.startCmd())
	root.AddCommand(a.stopCmd())
	root.AddCommand(a.statsCmd())
	root.AddCommand(a.todayCmd())

	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context, version string, deps Deps) error {
	root := NewRootCmd(version, deps)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// OpenerFromConfig returns a StoreOpener for the configured backend.
func OpenerFromConfig(cfg *config.Config, log *logrus.Entry, clock func() time.Time) StoreOpener {
	return func(ctx context.Context) (*service.TaskStore, func() error, error) {
		snapshots, closeFn, err := openSnapshots(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		store := service.NewTaskStore(ctx, snapshots,
			service.WithKey(cfg.Storage.Key),
			service.WithClock(clock),
			service.WithLogger(log),
		)
		return store, closeFn, nil
	}
}

func openSnapshots(ctx context.Context, cfg *config.Config, log *logrus.Entry) (repository.SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendFile:
		store, err := repository.NewFileSnapshotStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("dir", cfg.Storage.Dir).Debug("Using file storage")
		return store, noop, nil

	case config.BackendSQL:
		db, err := database.Open(ctx, database.Config{
			Driver:   cfg.Database.Driver,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			Path:     cfg.Database.Path,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		store, err := repository.NewSQLSnapshotStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.BackendMemory:
		log.Warn("Using in-memory storage, tasks will not outlive this process")
		return repository.NewMemorySnapshotStore(), noop, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage backend: %q", cfg.Storage.Backend)
}

// withStore opens the store, runs fn and releases the store.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, store *service.TaskStore) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeFn, err := a.open(ctx)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			a.log.WithError(err).Warn("Failed to close task store")
		}
	}()
	return fn(ctx, store)
}
