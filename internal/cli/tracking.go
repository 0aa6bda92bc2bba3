package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/timemanager/internal/service"
)

func (a *app) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <ref>",
		Short: "Start tracking time on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				task, _, err := resolveTask(store.Tasks(), args[0])
				if err != nil {
					return err
				}
				if task.IsTracking {
					fmt.Fprintf(a.out, "Already tracking %s since %s\n",
						task.Title, task.CurrentStartTime.In(a.clock().Location()).Format("15:04"))
					return nil
				}
				if err := store.StartTracking(ctx, task); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Tracking %s %s\n", shortID(task), task.Title)
				return nil
			})
		},
	}
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <ref>",
		Short: "Stop tracking time on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				task, _, err := resolveTask(store.Tasks(), args[0])
				if err != nil {
					return err
				}
				if !task.IsTracking {
					fmt.Fprintf(a.out, "%s is not being tracked\n", task.Title)
					return nil
				}
				if err := store.StopTracking(ctx, task); err != nil {
					return err
				}

				stopped, _ := store.Get(task.ID)
				last := stopped.TimeEntries[len(stopped.TimeEntries)-1]
				fmt.Fprintf(a.out, "Stopped %s after %s (total %s)\n",
					task.Title, formatDuration(last.Duration()), formatDuration(store.TotalTimeSpent(stopped)))
				return nil
			})
		},
	}
}
